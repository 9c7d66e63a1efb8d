package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"friendgraph/internal/social"
)

func TestMetricsExposure(t *testing.T) {
	s := social.New(social.WithObserver(Observer))
	_, _ = s.RegisterUser("a")
	_, _ = s.RegisterUser("b")
	_, _ = s.RegisterUser("a")
	_ = s.AddFriendship("a", "b")
	_, _ = s.CreatePost("a", "hi")
	s.ResetAll()
	IncCommandRun("shell")
	IncCommandError("shell")
	RateLimited.Inc()
	ObserveQuery("suggest_friends", time.Now().Add(-1500*time.Millisecond))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rec.Code)
	}
	body := rec.Body.String()
	for _, m := range []string{
		"friendgraph_users_registered_total",
		"friendgraph_friendships_added_total",
		"friendgraph_posts_created_total",
		"friendgraph_resets_total",
		`friendgraph_rejections_total{kind="duplicate_user",op="register_user"}`,
		"friendgraph_query_duration_seconds",
		"friendgraph_command_runs_total",
		"friendgraph_command_errors_total",
		"friendgraph_api_rate_limited_total",
	} {
		if !strings.Contains(body, m) {
			t.Fatalf("expected metric %s in body", m)
		}
	}
}

func TestObserverCountsSelfFriendship(t *testing.T) {
	s := social.New(social.WithObserver(Observer))
	_, _ = s.RegisterUser("solo")
	_ = s.AddFriendship("solo", "solo")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	want := `friendgraph_rejections_total{kind="self_friendship",op="add_friendship"}`
	if !strings.Contains(rec.Body.String(), want) {
		t.Fatalf("expected %s in body", want)
	}
}
