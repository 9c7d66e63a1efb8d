package social

import (
	"sort"

	"friendgraph/internal/postindex"
)

// User is one member of the network: identity, friend set and post index.
type User struct {
	Name    string
	friends map[string]struct{}
	posts   *postindex.Index
}

func newUser(name string) *User {
	return &User{Name: name, friends: make(map[string]struct{}), posts: postindex.New()}
}

func (u *User) isFriend(name string) bool {
	_, ok := u.friends[name]
	return ok
}

func (u *User) sortedFriends() []string {
	out := make([]string, 0, len(u.friends))
	for f := range u.friends {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
