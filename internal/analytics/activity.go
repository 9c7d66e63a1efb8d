package analytics

import (
	"sort"
	"time"

	"friendgraph/internal/journal"
)

// HourlyActivity aggregates journal entries into per-hour buckets keyed by kind.
func HourlyActivity(entries []journal.Entry) map[time.Time]map[string]int {
	buckets := make(map[time.Time]map[string]int)
	for _, e := range entries {
		ts := e.TS.UTC()
		key := time.Date(ts.Year(), ts.Month(), ts.Day(), ts.Hour(), 0, 0, 0, time.UTC)
		if _, ok := buckets[key]; !ok {
			buckets[key] = make(map[string]int)
		}
		buckets[key][e.Kind]++
	}
	return buckets
}

// SortedBucketKeys returns sorted hour keys.
func SortedBucketKeys(m map[time.Time]map[string]int) []time.Time {
	keys := make([]time.Time, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	return keys
}

// TopPosters counts post_created entries per actor, busiest first, ties by name.
func TopPosters(entries []journal.Entry, n int) []Count {
	tally := make(map[string]int)
	for _, e := range entries {
		if e.Kind == "post_created" && e.Actor != "" {
			tally[e.Actor]++
		}
	}
	out := make([]Count, 0, len(tally))
	for name, c := range tally {
		out = append(out, Count{Name: name, N: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].N != out[j].N {
			return out[i].N > out[j].N
		}
		return out[i].Name < out[j].Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Count pairs a name with a tally.
type Count struct {
	Name string
	N    int
}
