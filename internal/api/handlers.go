package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"friendgraph/internal/config"
	"friendgraph/internal/metrics"
	"friendgraph/internal/social"
)

// Handlers exposes Store operations as JSON endpoints.
type Handlers struct {
	store    *social.Store
	defaults config.StoreConfig
}

type registerRequest struct {
	Username string `json:"username"`
}

type friendshipRequest struct {
	UserA string `json:"userA"`
	UserB string `json:"userB"`
}

type postRequest struct {
	Content string `json:"content"`
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	kind := social.KindOf(err)
	switch kind {
	case social.KindInvalidInput, social.KindSelfFriendship:
		status = http.StatusBadRequest
	case social.KindUnknownUser:
		status = http.StatusNotFound
	case social.KindDuplicateUser:
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error(), "kind": string(kind)})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "kind": string(social.KindInvalidInput)})
}

// queryK reads ?k=, falling back to def. ok is false after a 400 was written.
func queryK(c *gin.Context, def int) (int, bool) {
	raw := c.Query("k")
	if raw == "" {
		return def, true
	}
	k, err := strconv.Atoi(raw)
	if err != nil || k < 0 {
		badRequest(c, "k must be a non-negative integer")
		return 0, false
	}
	return k, true
}

func (h *Handlers) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	name, err := h.store.RegisterUser(req.Username)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"username": name})
}

func (h *Handlers) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"users": h.store.Users()})
}

func (h *Handlers) AddFriendship(c *gin.Context) {
	var req friendshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	if err := h.store.AddFriendship(req.UserA, req.UserB); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) ListFriends(c *gin.Context) {
	name := c.Param("name")
	friends, ok := h.store.LookupFriends(name)
	if !ok {
		writeError(c, &social.Error{Kind: social.KindUnknownUser, Op: "list_friends", User: name})
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": name, "friends": friends})
}

func (h *Handlers) CreatePost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		badRequest(c, "post content cannot be empty")
		return
	}
	ts, err := h.store.CreatePost(c.Param("name"), req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"timestamp": ts})
}

func (h *Handlers) RecentPosts(c *gin.Context) {
	k, ok := queryK(c, h.defaults.RecentPostsDefault)
	if !ok {
		return
	}
	name := c.Param("name")
	start := time.Now()
	posts, found := h.store.LookupRecentPosts(name, k)
	metrics.ObserveQuery("recent_posts", start)
	if !found {
		writeError(c, &social.Error{Kind: social.KindUnknownUser, Op: "recent_posts", User: name})
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": name, "posts": posts})
}

func (h *Handlers) SuggestFriends(c *gin.Context) {
	k, ok := queryK(c, h.defaults.SuggestionsDefault)
	if !ok {
		return
	}
	name := c.Param("name")
	start := time.Now()
	sugs, found := h.store.LookupSuggestions(name, k)
	metrics.ObserveQuery("suggest_friends", start)
	if !found {
		writeError(c, &social.Error{Kind: social.KindUnknownUser, Op: "suggest_friends", User: name})
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": name, "suggestions": sugs})
}

func (h *Handlers) Separation(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	start := time.Now()
	d := h.store.DegreesOfSeparation(from, to)
	metrics.ObserveQuery("degrees_of_separation", start)
	c.JSON(http.StatusOK, gin.H{"from": from, "to": to, "degrees": d})
}

func (h *Handlers) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Stats())
}

func (h *Handlers) Reset(c *gin.Context) {
	h.store.ResetAll()
	c.Status(http.StatusNoContent)
}
