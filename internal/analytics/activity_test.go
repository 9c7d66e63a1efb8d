package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"friendgraph/internal/journal"
)

func TestHourlyActivityBuckets(t *testing.T) {
	base := time.Date(2025, 3, 4, 10, 15, 0, 0, time.UTC)
	entries := []journal.Entry{
		{TS: base, Kind: "post_created", Actor: "a"},
		{TS: base.Add(20 * time.Minute), Kind: "post_created", Actor: "b"},
		{TS: base.Add(30 * time.Minute), Kind: "user_registered", Actor: "c"},
		{TS: base.Add(-2 * time.Hour), Kind: "post_created", Actor: "a"},
	}
	b := HourlyActivity(entries)
	keys := SortedBucketKeys(b)
	require.Len(t, keys, 2)
	assert.Equal(t, time.Date(2025, 3, 4, 8, 0, 0, 0, time.UTC), keys[0])
	assert.Equal(t, map[string]int{"post_created": 2, "user_registered": 1}, b[keys[1]])
}

func TestTopPosters(t *testing.T) {
	entries := []journal.Entry{
		{Kind: "post_created", Actor: "b"},
		{Kind: "post_created", Actor: "a"},
		{Kind: "post_created", Actor: "b"},
		{Kind: "post_created", Actor: "c"},
		{Kind: "user_registered", Actor: "z"},
	}
	assert.Equal(t, []Count{{"b", 2}, {"a", 1}}, TopPosters(entries, 2))
	assert.Len(t, TopPosters(entries, 0), 3)
}
