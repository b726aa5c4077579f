// Package registration persists sign-ups of parents and therapists as
// append-only CSV rows.
package registration

import (
	"time"

	"therapist-discovery-backend/internal/store"

	"github.com/gin-gonic/gin"
)

const (
	RoleParent    = "parent"
	RoleTherapist = "therapist"
)

// Columns is the fixed row layout of registrations.csv.
var Columns = []string{"timestamp", "role", "full_name", "email", "phone", "child_condition"}

type Registration struct {
	Role     string `json:"role"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	// optional for therapists
	ChildCondition string `json:"child_condition"`
}

// Book appends registrations to one CSV file.
type Book struct {
	file *store.CSVFile
}

func NewBook(path string, timeout time.Duration) *Book {
	return &Book{file: store.NewCSVFile(path, Columns, timeout)}
}

// Save appends one registration row, stamping it at write time.
func (b *Book) Save(reg Registration) error {
	return b.file.Append(map[string]string{
		"timestamp":       time.Now().Format(time.RFC3339),
		"role":            reg.Role,
		"full_name":       reg.FullName,
		"email":           reg.Email,
		"phone":           reg.Phone,
		"child_condition": reg.ChildCondition,
	})
}

func InjectBook(key string, book *Book) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(key, book)
	}
}
