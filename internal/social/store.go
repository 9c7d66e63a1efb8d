package social

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Store is the in-memory social network. All methods are safe for
// concurrent use; one RWMutex serializes mutations against traversals.
type Store struct {
	mu          sync.RWMutex
	users       map[string]*User
	postCounter int64
	friendships int

	observers []Observer
	now       func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithObserver registers an observer for store events.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}

// WithClock overrides the clock used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{users: make(map[string]*User), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Stats summarizes the store contents.
type Stats struct {
	Users        int   `json:"users"`
	PostsCreated int64 `json:"postsCreated"`
	Friendships  int   `json:"friendships"`
}

func (s *Store) emit(e Event) {
	if len(s.observers) == 0 {
		return
	}
	e.At = s.now().UTC()
	for _, o := range s.observers {
		o.Observe(e)
	}
}

func (s *Store) reject(kind ErrorKind, op, user string) error {
	err := newError(kind, op, user)
	s.emit(Event{Kind: EventRejected, Err: err})
	return err
}

// RegisterUser adds a user named by the trimmed input and returns that name.
func (s *Store) RegisterUser(username string) (string, error) {
	name := strings.TrimSpace(username)
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == "" {
		return "", s.reject(KindInvalidInput, "register_user", "")
	}
	if _, ok := s.users[name]; ok {
		return "", s.reject(KindDuplicateUser, "register_user", name)
	}
	s.users[name] = newUser(name)
	s.emit(Event{Kind: EventUserRegistered, Users: []string{name}})
	return name, nil
}

// AddFriendship links two users in both directions. Adding an existing
// friendship succeeds without change.
func (s *Store) AddFriendship(userA, userB string) error {
	a, b := strings.TrimSpace(userA), strings.TrimSpace(userB)
	s.mu.Lock()
	defer s.mu.Unlock()
	ua, ok := s.users[a]
	if !ok {
		return s.reject(KindUnknownUser, "add_friendship", a)
	}
	ub, ok := s.users[b]
	if !ok {
		return s.reject(KindUnknownUser, "add_friendship", b)
	}
	if a == b {
		return s.reject(KindSelfFriendship, "add_friendship", a)
	}
	if !ua.isFriend(b) {
		s.friendships++
	}
	ua.friends[b] = struct{}{}
	ub.friends[a] = struct{}{}
	s.emit(Event{Kind: EventFriendshipAdded, Users: []string{a, b}})
	return nil
}

// ListFriends returns the user's friends sorted by name, or an empty
// slice for an unknown user.
func (s *Store) ListFriends(username string) []string {
	friends, _ := s.LookupFriends(username)
	return friends
}

// LookupFriends is ListFriends that also reports, under the same read
// lock, whether the user exists.
func (s *Store) LookupFriends(username string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[strings.TrimSpace(username)]
	if !ok {
		return []string{}, false
	}
	return u.sortedFriends(), true
}

// CreatePost stores content for the user under the next global timestamp
// and returns that timestamp.
func (s *Store) CreatePost(username, content string) (int64, error) {
	name := strings.TrimSpace(username)
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[name]
	if !ok {
		return 0, s.reject(KindUnknownUser, "create_post", name)
	}
	ts := s.postCounter
	s.postCounter++
	u.posts.Insert(ts, content)
	s.emit(Event{Kind: EventPostCreated, Users: []string{name}, Timestamp: ts})
	return ts, nil
}

// RecentPosts returns up to k of the user's posts, newest first.
func (s *Store) RecentPosts(username string, k int) []string {
	posts, _ := s.LookupRecentPosts(username, k)
	return posts
}

// LookupRecentPosts is RecentPosts plus whether the user exists.
func (s *Store) LookupRecentPosts(username string, k int) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[strings.TrimSpace(username)]
	if !ok {
		return []string{}, false
	}
	return u.posts.LatestK(k), true
}

// DegreesOfSeparation returns the length of the shortest friendship path
// between two users: 0 for the same user, -1 when either is unknown or no
// path exists.
func (s *Store) DegreesOfSeparation(userA, userB string) int {
	a, b := strings.TrimSpace(userA), strings.TrimSpace(userB)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.users[a]; !ok {
		return -1
	}
	if _, ok := s.users[b]; !ok {
		return -1
	}
	if a == b {
		return 0
	}
	return shortestPath(s.users, a, b)
}

// SuggestFriends ranks friends-of-friends by mutual friend count.
func (s *Store) SuggestFriends(username string, k int) []Suggestion {
	sugs, _ := s.LookupSuggestions(username, k)
	return sugs
}

// LookupSuggestions is SuggestFriends plus whether the user exists.
func (s *Store) LookupSuggestions(username string, k int) ([]Suggestion, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[strings.TrimSpace(username)]
	if !ok {
		return []Suggestion{}, false
	}
	return rankMutuals(s.users, u, k), true
}

// HasUser reports whether the trimmed name is registered.
func (s *Store) HasUser(username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[strings.TrimSpace(username)]
	return ok
}

// Users returns every registered username in sorted order.
func (s *Store) Users() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.users))
	for name := range s.users {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Stats reports counts over the current contents.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{Users: len(s.users), PostsCreated: s.postCounter, Friendships: s.friendships}
}

// ResetAll drops every user and restarts the post counter at zero.
func (s *Store) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[string]*User)
	s.postCounter = 0
	s.friendships = 0
	s.emit(Event{Kind: EventReset})
}
