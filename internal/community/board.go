// Package community is the board: categorized posts with nested
// comments, persisted as one JSON document.
package community

import (
	"errors"
	"fmt"
	"time"

	"therapist-discovery-backend/internal/store"

	"github.com/gin-gonic/gin"
)

// ErrPostNotFound is returned when the referenced category or post id
// does not exist. Nothing is written in that case.
var ErrPostNotFound = errors.New("post not found")

const DefaultAuthor = "Anonymous"

type Comment struct {
	ID     int    `json:"id"`
	Author string `json:"author"`
	Text   string `json:"text"`
}

type Post struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Comments    []Comment `json:"comments"`
}

// IDAllocator picks the id for the next record appended to a sequence
// that already holds n records.
type IDAllocator interface {
	Next(n int) int
}

// seqAllocator reproduces the deployed data files: ids restart at 1 in
// every category and every post's comment list.
type seqAllocator struct{}

func (seqAllocator) Next(n int) int { return n + 1 }

// Board runs every mutation as one full load-mutate-rewrite cycle
// under the file's writer lock, so concurrent posters cannot overwrite
// each other's writes.
type Board struct {
	file *store.JSONFile
	ids  IDAllocator
}

func NewBoard(path string, timeout time.Duration) *Board {
	return &Board{file: store.NewJSONFile(path, timeout), ids: seqAllocator{}}
}

// WithAllocator swaps the id strategy without touching any caller.
func (b *Board) WithAllocator(ids IDAllocator) *Board {
	b.ids = ids
	return b
}

// ListPosts returns the posts of a category, an empty slice when the
// category has never been created. Read-only.
func (b *Board) ListPosts(category string) ([]*Post, error) {
	data := map[string][]*Post{}
	if err := b.file.Load(&data); err != nil {
		return nil, err
	}
	posts := data[category]
	if posts == nil {
		posts = []*Post{}
	}
	return posts, nil
}

// CreatePost appends a post to the category, creating the category on
// first use.
func (b *Board) CreatePost(category, title, description string) (*Post, error) {
	release, err := b.file.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	data := map[string][]*Post{}
	if err := b.file.Load(&data); err != nil {
		return nil, err
	}

	post := &Post{
		ID:          b.ids.Next(len(data[category])),
		Title:       title,
		Description: description,
		Comments:    []Comment{},
	}
	data[category] = append(data[category], post)

	if err := b.file.Rewrite(data); err != nil {
		return nil, err
	}
	return post, nil
}

// AddComment appends a comment to the given post. The author defaults
// to "Anonymous".
func (b *Board) AddComment(category string, postID int, author, text string) (*Comment, error) {
	if author == "" {
		author = DefaultAuthor
	}

	release, err := b.file.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	data := map[string][]*Post{}
	if err := b.file.Load(&data); err != nil {
		return nil, err
	}

	for _, post := range data[category] {
		if post.ID != postID {
			continue
		}
		comment := Comment{
			ID:     b.ids.Next(len(post.Comments)),
			Author: author,
			Text:   text,
		}
		post.Comments = append(post.Comments, comment)

		if err := b.file.Rewrite(data); err != nil {
			return nil, err
		}
		return &comment, nil
	}

	return nil, fmt.Errorf("%w: %s/%d", ErrPostNotFound, category, postID)
}

func InjectBoard(key string, board *Board) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(key, board)
	}
}
