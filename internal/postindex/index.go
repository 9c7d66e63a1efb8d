package postindex

// mergeSeparator joins content inserted under an already present key.
const mergeSeparator = " | "

type node struct {
	key     int64
	content string
	height  int
	left    *node
	right   *node
}

// Index is an AVL tree of post content keyed by creation timestamp.
// The zero value is an empty index. It is not safe for concurrent use.
type Index struct {
	root *node
	size int
}

// New returns an empty index.
func New() *Index { return &Index{} }

func height(n *node) int {
	if n == nil {
		return 0
	}
	return n.height
}

func fix(n *node) { n.height = 1 + max(height(n.left), height(n.right)) }

func balance(n *node) int { return height(n.left) - height(n.right) }

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	r := x.right
	x.right = r.left
	r.left = x
	fix(x)
	fix(r)
	return r
}

// Insert stores content under key. A key that is already present has the
// new content appended to it with " | " and the tree shape is unchanged.
func (ix *Index) Insert(key int64, content string) {
	ix.root = ix.insert(ix.root, key, content)
}

func (ix *Index) insert(n *node, key int64, content string) *node {
	if n == nil {
		ix.size++
		return &node{key: key, content: content, height: 1}
	}
	switch {
	case key < n.key:
		n.left = ix.insert(n.left, key, content)
	case key > n.key:
		n.right = ix.insert(n.right, key, content)
	default:
		n.content += mergeSeparator + content
		return n
	}

	fix(n)
	b := balance(n)
	switch {
	case b > 1 && key < n.left.key:
		return rotateRight(n)
	case b < -1 && key > n.right.key:
		return rotateLeft(n)
	case b > 1 && key > n.left.key:
		n.left = rotateLeft(n.left)
		return rotateRight(n)
	case b < -1 && key < n.right.key:
		n.right = rotateRight(n.right)
		return rotateLeft(n)
	}
	return n
}

// LatestK returns up to k contents ordered by descending key. The walk
// visits right subtree, node, left subtree and stops as soon as k entries
// are collected, so it touches O(k + log n) nodes.
func (ix *Index) LatestK(k int) []string {
	if k <= 0 || ix.root == nil {
		return []string{}
	}
	out := make([]string, 0, min(k, ix.size))
	budget := k
	var walk func(n *node)
	walk = func(n *node) {
		if n == nil || budget == 0 {
			return
		}
		walk(n.right)
		if budget == 0 {
			return
		}
		out = append(out, n.content)
		budget--
		walk(n.left)
	}
	walk(ix.root)
	return out
}

// Len reports the number of distinct keys.
func (ix *Index) Len() int { return ix.size }

// Height reports the height of the tree, 0 when empty.
func (ix *Index) Height() int { return height(ix.root) }

// Root returns the key at the root of the tree.
func (ix *Index) Root() (int64, bool) {
	if ix.root == nil {
		return 0, false
	}
	return ix.root.key, true
}

// Keys returns every key in ascending order.
func (ix *Index) Keys() []int64 {
	out := make([]int64, 0, ix.size)
	var walk func(n *node)
	walk = func(n *node) {
		if n == nil {
			return
		}
		walk(n.left)
		out = append(out, n.key)
		walk(n.right)
	}
	walk(ix.root)
	return out
}
