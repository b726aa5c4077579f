// Package bot is the HTTP surface: it validates request shape and
// delegates to the directory, community and flow packages. Core
// responses pass through unchanged.
package bot

import (
	"errors"
	"net/http"
	"strconv"

	"therapist-discovery-backend/internal/community"
	"therapist-discovery-backend/internal/database"
	"therapist-discovery-backend/internal/directory"
	"therapist-discovery-backend/internal/flow"
	"therapist-discovery-backend/internal/logger"
	"therapist-discovery-backend/internal/registration"
	"therapist-discovery-backend/internal/store"

	"github.com/allegro/bigcache/v3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Therapist Discovery Platform API",
		"status":  "running",
	})
}

func registerUser(c *gin.Context) {
	var req registration.Registration
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warning("Error while receive registration", err)

		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	required := []struct{ name, value string }{
		{"role", req.Role},
		{"full_name", req.FullName},
		{"email", req.Email},
		{"phone", req.Phone},
	}
	for _, f := range required {
		if f.value == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: " + f.name})
			return
		}
	}

	book := c.MustGet("registrations").(*registration.Book)
	if err := book.Save(req); err != nil {
		storeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"user": gin.H{
			"role":      req.Role,
			"full_name": req.FullName,
			"email":     req.Email,
		},
	})
}

func getTherapists(c *gin.Context) {
	dir := c.MustGet("directory").(*directory.Directory)

	list, err := dir.List()
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func getCommunity(c *gin.Context) {
	board := c.MustGet("board").(*community.Board)

	posts, err := board.ListPosts(c.Param("category"))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func createCommunityPost(c *gin.Context) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warning("Error while receive post", err)

		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	board := c.MustGet("board").(*community.Board)
	post, err := board.CreatePost(c.Param("category"), req.Title, req.Description)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func addCommunityComment(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	var req struct {
		Author string `json:"author"`
		Text   string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warning("Error while receive comment", err)

		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	board := c.MustGet("board").(*community.Board)
	comment, err := board.AddComment(c.Param("category"), postID, req.Author, req.Text)
	if err != nil {
		if errors.Is(err, community.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func chatbotTurn(c *gin.Context) {
	var req struct {
		Message   string `json:"message"`
		State     string `json:"state"`
		SessionID string `json:"session_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warning("Error while receive chatbot turn", err)

		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cache := c.MustGet("cache").(*bigcache.BigCache)
	graph := c.MustGet("flow").(*flow.Graph)

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		sessionID = uuid.New()
	}

	sess := database.GetSession(cache, sessionID)
	prev := sess.CurrentState

	state := req.State
	if state == "" {
		state = sess.CurrentState
	}
	reply := graph.ProcessInput(&sess, req.Message, state)

	if sess.CurrentState != prev {
		sess.PreviousState = prev
	}
	if err := database.SaveSession(cache, sessionID, sess); err != nil {
		logger.Warning("Error while saving chatbot session", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    reply.Message,
		"options":    reply.Options,
		"state":      reply.State,
		"session_id": sessionID.String(),
	})
}

// storeError maps store failures to responses without leaking file
// paths to the client.
func storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrBusy):
		logger.Warning("Store busy", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store is busy, please retry"})
	default:
		logger.Warning("Store failure", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
