package social

import "sort"

// Suggestion is a friend-of-friend candidate with its mutual friend count.
type Suggestion struct {
	Name    string `json:"name"`
	Mutuals int    `json:"mutuals"`
}

type hop struct {
	name string
	dist int
}

// shortestPath runs a breadth-first search from src and returns the hop
// count to dst, or -1. src and dst must both exist and differ.
func shortestPath(users map[string]*User, src, dst string) int {
	visited := map[string]struct{}{src: {}}
	queue := []hop{{name: src}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for f := range users[cur.name].friends {
			if f == dst {
				return cur.dist + 1
			}
			if _, seen := visited[f]; seen {
				continue
			}
			visited[f] = struct{}{}
			queue = append(queue, hop{name: f, dist: cur.dist + 1})
		}
	}
	return -1
}

// rankMutuals tallies every friend of u's friends that is neither u nor
// already a friend, and returns the top k by count desc, name asc.
func rankMutuals(users map[string]*User, u *User, k int) []Suggestion {
	if k <= 0 {
		return []Suggestion{}
	}
	counts := make(map[string]int)
	for f := range u.friends {
		fu, ok := users[f]
		if !ok {
			continue
		}
		for g := range fu.friends {
			if g == u.Name || u.isFriend(g) {
				continue
			}
			counts[g]++
		}
	}
	out := make([]Suggestion, 0, len(counts))
	for name, n := range counts {
		out = append(out, Suggestion{Name: name, Mutuals: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mutuals != out[j].Mutuals {
			return out[i].Mutuals > out[j].Mutuals
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}
