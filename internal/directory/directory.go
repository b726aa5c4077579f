// Package directory serves the therapist directory and converts the
// spreadsheet upload into it.
package directory

import (
	"time"

	"therapist-discovery-backend/internal/store"

	"github.com/gin-gonic/gin"
)

// Therapist is one entry of therapists.json, produced by Import.
type Therapist struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Specialization string  `json:"specialization"`
	Fee            int     `json:"fee"`
	Ratings        float64 `json:"ratings"`
	Languages      string  `json:"languages"`
	City           string  `json:"city"`
	Pincode        string  `json:"pincode"`
	Disorder       string  `json:"disorder"`
	Whatsapp       string  `json:"whatsapp"`
}

type Directory struct {
	file *store.JSONFile
}

func New(path string, timeout time.Duration) *Directory {
	return &Directory{file: store.NewJSONFile(path, timeout)}
}

// List returns every record of the directory file, an empty slice when
// the file has not been imported yet.
func (d *Directory) List() ([]Therapist, error) {
	var out []Therapist
	if err := d.file.Load(&out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Therapist{}
	}
	return out, nil
}

func Inject(key string, d *Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(key, d)
	}
}
