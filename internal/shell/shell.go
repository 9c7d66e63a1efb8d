package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"friendgraph/internal/cmdlog"
	"friendgraph/internal/config"
	"friendgraph/internal/metrics"
	"friendgraph/internal/social"
	"friendgraph/internal/util"
)

// Shell is a line-oriented console over a Store.
type Shell struct {
	store    *social.Store
	out      io.Writer
	prompt   string
	foldCase bool
	defaults config.StoreConfig
}

func New(store *social.Store, cfg config.Config, out io.Writer) *Shell {
	return &Shell{
		store:    store,
		out:      out,
		prompt:   cfg.Shell.Prompt,
		foldCase: cfg.Shell.CaseInsensitive,
		defaults: cfg.Store,
	}
}

// errQuit ends Run without reporting a failure.
var errQuit = errors.New("quit")

// Run reads commands from in until exit, EOF or ctx is cancelled.
// Cancellation returns immediately even while a read is pending; the
// reader goroutine then exits once its blocked read returns.
func (sh *Shell) Run(ctx context.Context, in io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- strings.TrimRight(sc.Text(), "\r"):
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		fmt.Fprint(sh.out, sh.prompt)
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(sh.out)
			return ctx.Err()
		case err := <-readErr:
			fmt.Fprintln(sh.out)
			return err
		case line = <-lines:
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := sh.Exec(line); errors.Is(err, errQuit) {
			return nil
		}
	}
}

// Exec runs one command line. The returned error is the command's failure,
// already reported to the user.
func (sh *Shell) Exec(line string) error {
	f := util.SplitCommand(line)
	if len(f) == 0 {
		return nil
	}
	if sh.foldCase {
		util.LowerFields(f, 0)
		// add_post keeps its text as typed
		if f[0] == "add_post" {
			util.LowerFields(f, 1)
		} else {
			util.LowerFields(f, 1, 2)
		}
	}
	cmd, args := f[0], f[1:]
	if cmd == "exit" || cmd == "quit" {
		sh.println("Goodbye!")
		return errQuit
	}
	h, ok := handlers[cmd]
	if !ok {
		sh.printf("Unknown command: %s (type help)\n", cmd)
		return fmt.Errorf("unknown command %q", cmd)
	}
	return cmdlog.Run(cmd, func() error {
		if len(args) < h.args {
			sh.println(h.usage)
			return fmt.Errorf("%s: %s", cmd, strings.TrimPrefix(h.usage, "Error: "))
		}
		return h.run(sh, args)
	})
}

type handler struct {
	args  int
	usage string
	run   func(sh *Shell, args []string) error
}

var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		"add_user":              {1, "Error: Missing username", (*Shell).addUser},
		"add_friend":            {2, "Error: Missing usernames", (*Shell).addFriend},
		"add_post":              {2, "Error: Missing username or post text", (*Shell).addPost},
		"output_posts":          {1, "Error: Missing username or count", (*Shell).outputPosts},
		"list_friends":          {1, "Error: Missing username", (*Shell).listFriends},
		"suggest_friends":       {1, "Error: Missing username or number", (*Shell).suggestFriends},
		"degrees_of_separation": {2, "Error: Missing username(s)", (*Shell).separation},
		"list_users":            {0, "", (*Shell).listUsers},
		"stats":                 {0, "", (*Shell).stats},
		"reset":                 {0, "", (*Shell).reset},
		"help":                  {0, "", (*Shell).help},
	}
}

func (sh *Shell) println(a ...any)               { fmt.Fprintln(sh.out, a...) }
func (sh *Shell) printf(format string, a ...any) { fmt.Fprintf(sh.out, format, a...) }

// count parses an optional numeric argument, falling back to def.
func (sh *Shell) count(args []string, i, def int) (int, error) {
	if len(args) <= i {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(args[i]))
	if err != nil || n < 0 {
		sh.printf("Error: %q is not a non-negative number\n", args[i])
		return 0, fmt.Errorf("bad count %q", args[i])
	}
	return n, nil
}

func (sh *Shell) report(err error) error {
	switch social.KindOf(err) {
	case social.KindDuplicateUser:
		sh.println("ERROR: This user already exists")
	case social.KindInvalidInput:
		sh.println("ERROR: Username cannot be empty")
	case social.KindUnknownUser:
		sh.println("ERROR: Invalid username(s).")
	case social.KindSelfFriendship:
		sh.println("ERROR: Cannot friend yourself")
	default:
		sh.println("ERROR:", err)
	}
	return err
}

func (sh *Shell) addUser(args []string) error {
	name, err := sh.store.RegisterUser(args[0])
	if err != nil {
		return sh.report(err)
	}
	sh.printf("%s is added!\n", name)
	return nil
}

func (sh *Shell) addFriend(args []string) error {
	if err := sh.store.AddFriendship(args[0], args[1]); err != nil {
		return sh.report(err)
	}
	sh.printf("%s and %s are added as friends!\n", args[0], args[1])
	return nil
}

func (sh *Shell) addPost(args []string) error {
	if strings.TrimSpace(args[1]) == "" {
		sh.println("Error: Post content cannot be empty")
		return errors.New("empty post")
	}
	ts, err := sh.store.CreatePost(args[0], args[1])
	if err != nil {
		if social.KindOf(err) == social.KindUnknownUser {
			sh.println("User not found!")
			return err
		}
		return sh.report(err)
	}
	sh.printf("Post added for %s at time %d\n", strings.TrimSpace(args[0]), ts)
	return nil
}

func (sh *Shell) outputPosts(args []string) error {
	k, err := sh.count(args, 1, sh.defaults.RecentPostsDefault)
	if err != nil {
		return err
	}
	start := time.Now()
	posts, found := sh.store.LookupRecentPosts(args[0], k)
	metrics.ObserveQuery("recent_posts", start)
	if !found {
		sh.println("User not found!")
		return nil
	}
	if len(posts) == 0 {
		sh.printf("%s has no posts yet.\n", args[0])
	}
	for _, p := range posts {
		sh.println(p)
	}
	return nil
}

func (sh *Shell) listFriends(args []string) error {
	friends, found := sh.store.LookupFriends(args[0])
	if !found {
		sh.println("User not found!")
		return nil
	}
	if len(friends) == 0 {
		sh.printf("%s doesn't have any friends.\n", args[0])
	}
	for _, f := range friends {
		sh.println(f)
	}
	return nil
}

func (sh *Shell) suggestFriends(args []string) error {
	k, err := sh.count(args, 1, sh.defaults.SuggestionsDefault)
	if err != nil {
		return err
	}
	start := time.Now()
	sugs, found := sh.store.LookupSuggestions(args[0], k)
	metrics.ObserveQuery("suggest_friends", start)
	if !found {
		sh.println("User not found!")
		return nil
	}
	if len(sugs) == 0 {
		sh.printf("No suggestions for %s\n", args[0])
	}
	for _, s := range sugs {
		sh.printf("%s (%d mutual)\n", s.Name, s.Mutuals)
	}
	return nil
}

func (sh *Shell) separation(args []string) error {
	start := time.Now()
	d := sh.store.DegreesOfSeparation(args[0], args[1])
	metrics.ObserveQuery("degrees_of_separation", start)
	sh.printf("Degree of separation between %s and %s is %d\n", args[0], args[1], d)
	return nil
}

func (sh *Shell) listUsers(_ []string) error {
	users := sh.store.Users()
	if len(users) == 0 {
		sh.println("No users yet.")
		return nil
	}
	sh.println(strings.Join(users, ", "))
	return nil
}

func (sh *Shell) stats(_ []string) error {
	st := sh.store.Stats()
	sh.printf("users=%d posts=%d friendships=%d\n", st.Users, st.PostsCreated, st.Friendships)
	return nil
}

func (sh *Shell) reset(_ []string) error {
	sh.store.ResetAll()
	sh.println("All data cleared!")
	return nil
}

func (sh *Shell) help(_ []string) error {
	sh.println(`Commands:
  add_user <name>
  add_friend <a> <b>
  add_post <name> <text...>
  output_posts <name> [n]
  list_friends <name>
  suggest_friends <name> [n]
  degrees_of_separation <a> <b>
  list_users | stats | reset | help | exit`)
	return nil
}
