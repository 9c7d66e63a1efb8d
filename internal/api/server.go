package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"friendgraph/internal/config"
	"friendgraph/internal/logging"
	"friendgraph/internal/metrics"
	"friendgraph/internal/social"
)

const requestIDHeader = "X-Request-ID"

// newLimiter returns nil when limiting is disabled.
func newLimiter(cfg config.APIConfig) *rate.Limiter {
	if cfg.RatePerSecond <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
}

// NewRouter builds the HTTP surface over store. It leaves gin's global
// mode alone; callers pick it once at startup.
func NewRouter(store *social.Store, cfg config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog())

	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	h := &Handlers{store: store, defaults: cfg.Store}
	v1 := r.Group("/v1", rateLimit(newLimiter(cfg.API)))
	v1.POST("/users", h.RegisterUser)
	v1.GET("/users", h.ListUsers)
	v1.GET("/users/:name/friends", h.ListFriends)
	v1.POST("/users/:name/posts", h.CreatePost)
	v1.GET("/users/:name/posts", h.RecentPosts)
	v1.GET("/users/:name/suggestions", h.SuggestFriends)
	v1.POST("/friendships", h.AddFriendship)
	v1.GET("/separation", h.Separation)
	v1.GET("/stats", h.Stats)
	v1.POST("/reset", h.Reset)
	return r
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.Debug("http_request", map[string]any{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
		})
	}
}

func rateLimit(l *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l != nil && !l.Allow() {
			metrics.RateLimited.Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// Serve runs the router on addr until ctx is cancelled, then shuts down.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logging.Info("api_listening", map[string]any{"addr": addr})
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		logging.Info("api_stopped", nil)
		return nil
	}
}
