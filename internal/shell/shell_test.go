package shell

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"friendgraph/internal/config"
	"friendgraph/internal/social"
)

func newTestShell(t *testing.T) (*Shell, *social.Store, *bytes.Buffer) {
	t.Helper()
	store := social.New()
	cfg := config.Default()
	cfg.Shell.Prompt = ""
	var out bytes.Buffer
	return New(store, cfg, &out), store, &out
}

func TestRunScript(t *testing.T) {
	sh, store, out := newTestShell(t)
	script := strings.Join([]string{
		"add_user Alice",
		"add_user bob",
		"add_user carol",
		"add_user bob",
		"add_friend alice bob",
		"add_friend bob carol",
		"add_post alice Hello World",
		"add_post alice Second post",
		"output_posts alice 1",
		"list_friends bob",
		"degrees_of_separation alice carol",
		"suggest_friends alice 3",
		"exit",
		"add_user never",
	}, "\n")

	require.NoError(t, sh.Run(context.Background(), strings.NewReader(script)))
	got := out.String()
	assert.Contains(t, got, "alice is added!")
	assert.Contains(t, got, "ERROR: This user already exists")
	assert.Contains(t, got, "alice and bob are added as friends!")
	assert.Contains(t, got, "Post added for alice at time 1")
	assert.Contains(t, got, "Second post\n")
	assert.NotContains(t, got, "Hello World\n")
	assert.Contains(t, got, "alice\ncarol\n")
	assert.Contains(t, got, "Degree of separation between alice and carol is 2")
	assert.Contains(t, got, "carol (1 mutual)")
	assert.Contains(t, got, "Goodbye!")
	assert.False(t, store.HasUser("never"))
}

func TestCaseSensitiveMode(t *testing.T) {
	store := social.New()
	cfg := config.Default()
	cfg.Shell.CaseInsensitive = false
	var out bytes.Buffer
	sh := New(store, cfg, &out)

	require.NoError(t, sh.Exec("add_user Alice"))
	assert.Equal(t, []string{"Alice"}, store.Users())
	assert.Error(t, sh.Exec("ADD_USER bob"))
	assert.Contains(t, out.String(), "Unknown command: ADD_USER")
}

func TestMissingArgumentsAndBadCounts(t *testing.T) {
	sh, _, out := newTestShell(t)
	assert.Error(t, sh.Exec("add_user"))
	assert.Error(t, sh.Exec("add_friend a"))
	assert.Error(t, sh.Exec("add_post a"))
	require.NoError(t, sh.Exec("add_user a"))
	assert.Error(t, sh.Exec("output_posts a many"))

	got := out.String()
	assert.Contains(t, got, "Error: Missing username\n")
	assert.Contains(t, got, "Error: Missing usernames")
	assert.Contains(t, got, "Error: Missing username or post text")
	assert.Contains(t, got, `Error: "many" is not a non-negative number`)
}

func TestUnknownUsersAndEmptyResults(t *testing.T) {
	sh, _, out := newTestShell(t)
	require.NoError(t, sh.Exec("add_user solo"))
	assert.Error(t, sh.Exec("add_friend solo ghost"))
	assert.Error(t, sh.Exec("add_friend solo solo"))
	assert.Error(t, sh.Exec("add_post ghost hi"))
	require.NoError(t, sh.Exec("list_friends ghost"))
	require.NoError(t, sh.Exec("list_friends solo"))
	require.NoError(t, sh.Exec("output_posts solo 2"))
	require.NoError(t, sh.Exec("suggest_friends solo"))
	require.NoError(t, sh.Exec("degrees_of_separation solo ghost"))

	got := out.String()
	assert.Contains(t, got, "ERROR: Invalid username(s).")
	assert.Contains(t, got, "ERROR: Cannot friend yourself")
	assert.Contains(t, got, "User not found!")
	assert.Contains(t, got, "solo doesn't have any friends.")
	assert.Contains(t, got, "solo has no posts yet.")
	assert.Contains(t, got, "No suggestions for solo")
	assert.Contains(t, got, "is -1")
}

func TestResetStatsAndUsers(t *testing.T) {
	sh, store, out := newTestShell(t)
	require.NoError(t, sh.Exec("list_users"))
	require.NoError(t, sh.Exec("add_user b"))
	require.NoError(t, sh.Exec("add_user a"))
	require.NoError(t, sh.Exec("add_post a x"))
	require.NoError(t, sh.Exec("list_users"))
	require.NoError(t, sh.Exec("stats"))
	require.NoError(t, sh.Exec("reset"))
	require.NoError(t, sh.Exec("help"))

	got := out.String()
	assert.Contains(t, got, "No users yet.")
	assert.Contains(t, got, "a, b\n")
	assert.Contains(t, got, "users=2 posts=1 friendships=0")
	assert.Contains(t, got, "All data cleared!")
	assert.Contains(t, got, "degrees_of_separation <a> <b>")
	assert.Empty(t, store.Users())
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	sh, _, _ := newTestShell(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sh.Run(ctx, strings.NewReader("add_user a\n")), context.Canceled)
}

func TestNegativeCountsRejected(t *testing.T) {
	sh, _, out := newTestShell(t)
	require.NoError(t, sh.Exec("add_user a"))
	require.NoError(t, sh.Exec("add_post a first"))
	assert.Error(t, sh.Exec("output_posts a -2"))
	assert.Error(t, sh.Exec("suggest_friends a -1"))

	got := out.String()
	assert.Contains(t, got, `Error: "-2" is not a non-negative number`)
	assert.Contains(t, got, `Error: "-1" is not a non-negative number`)
	assert.NotContains(t, got, "has no posts yet")
	assert.NotContains(t, got, "No suggestions for")
}

func TestRunReturnsWhenCancelledDuringRead(t *testing.T) {
	sh, store, out := newTestShell(t)
	pr, pw := io.Pipe()
	defer pw.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- sh.Run(ctx, pr) }()

	// one command goes through, then Run sits waiting on the pipe
	_, err := pw.Write([]byte("add_user a\n"))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return store.HasUser("a") }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Contains(t, out.String(), "a is added!")
}
