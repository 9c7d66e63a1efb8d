package metrics

import (
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"friendgraph/internal/social"
)

var (
	UsersRegistered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "friendgraph_users_registered_total",
		Help: "Total users registered",
	})
	FriendshipsAdded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "friendgraph_friendships_added_total",
		Help: "Total successful friendship requests, including repeats",
	})
	PostsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "friendgraph_posts_created_total",
		Help: "Total posts created",
	})
	Resets = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "friendgraph_resets_total",
		Help: "Total full store resets",
	})
	Rejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "friendgraph_rejections_total",
		Help: "Store operations rejected by input validation",
	}, []string{"op", "kind"})
	QueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "friendgraph_query_duration_seconds",
		Help:    "Duration of derived graph and timeline queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})
	CommandRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "friendgraph_command_runs_total",
		Help: "Total CLI and shell commands run",
	}, []string{"command"})
	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "friendgraph_command_errors_total",
		Help: "Total CLI and shell commands that failed",
	}, []string{"command"})
	RateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "friendgraph_api_rate_limited_total",
		Help: "API requests refused by the rate limiter",
	})
)

func init() {
	prometheus.MustRegister(UsersRegistered, FriendshipsAdded, PostsCreated, Resets,
		Rejections, QueryDuration, CommandRuns, CommandErrors, RateLimited)
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler { return promhttp.Handler() }

// StartServer starts a metrics HTTP server on addr (e.g., ":9090").
func StartServer(addr string) {
	if addr == "" {
		addr = os.Getenv("METRICS_ADDR")
	}
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	go func() { _ = http.ListenAndServe(addr, mux) }()
}

// Observer counts store events.
var Observer = social.ObserverFunc(func(e social.Event) {
	switch e.Kind {
	case social.EventUserRegistered:
		UsersRegistered.Inc()
	case social.EventFriendshipAdded:
		FriendshipsAdded.Inc()
	case social.EventPostCreated:
		PostsCreated.Inc()
	case social.EventReset:
		Resets.Inc()
	case social.EventRejected:
		if e.Err != nil {
			Rejections.WithLabelValues(e.Err.Op, string(e.Err.Kind)).Inc()
		}
	}
})

// ObserveQuery records how long a named query took since start.
func ObserveQuery(query string, start time.Time) {
	QueryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
}

func IncCommandRun(cmd string)   { CommandRuns.WithLabelValues(cmd).Inc() }
func IncCommandError(cmd string) { CommandErrors.WithLabelValues(cmd).Inc() }
