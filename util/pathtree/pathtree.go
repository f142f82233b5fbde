// Package pathtree provides a tree for indexing values under
// slash-delimited paths with longest-match lookup.
//
// Values register either for one exact path or for a path prefix covering
// the whole subtree below it. Matching is per path segment: a prefix
// registration for /usr/bin covers /usr/bin/ls but not /usr/bin-backup.
// A tree is mutable while it is being built and must not be modified once
// published to readers; lookups take no locks.
package pathtree

import "strings"

type node[T any] struct {
	children map[string]*node[T]

	exact    T
	hasExact bool

	prefix    T
	hasPrefix bool
}

// Tree indexes values by absolute slash-delimited paths.
type Tree[T any] struct {
	root *node[T]
	size int
}

// New returns an empty tree.
func New[T any]() *Tree[T] {
	return &Tree[T]{root: &node[T]{}}
}

// Len returns the number of registered values.
func (t *Tree[T]) Len() int {
	return t.size
}

// SetExact registers a value for exactly the given path. It reports whether
// the registration was new; an earlier exact registration at the same path
// stays in place.
func (t *Tree[T]) SetExact(path string, value T) bool {
	n := t.walkTo(path)
	if n.hasExact {
		return false
	}
	n.exact = value
	n.hasExact = true
	t.size++
	return true
}

// SetPrefix registers a value for the given path and everything below it.
// It reports whether the registration was new; an earlier prefix
// registration at the same path stays in place.
func (t *Tree[T]) SetPrefix(path string, value T) bool {
	n := t.walkTo(path)
	if n.hasPrefix {
		return false
	}
	n.prefix = value
	n.hasPrefix = true
	t.size++
	return true
}

func (t *Tree[T]) walkTo(path string) *node[T] {
	n := t.root
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		if n.children == nil {
			n.children = make(map[string]*node[T])
		}
		child, ok := n.children[seg]
		if !ok {
			child = &node[T]{}
			n.children[seg] = child
		}
		n = child
	}
	return n
}

// Lookup returns the value governing path. The deepest prefix registration
// passed on the way down wins, except that an exact registration at the
// terminal node beats a prefix registration of the same depth. The second
// return is false when nothing matches.
func (t *Tree[T]) Lookup(path string) (T, bool) {
	var best T
	var found bool

	n := t.root
	if n.hasPrefix {
		best, found = n.prefix, true
	}

	// Walk segment by segment without allocating; lookups sit on the
	// event hot path.
	for start := 0; start < len(path); {
		for start < len(path) && path[start] == '/' {
			start++
		}
		if start >= len(path) {
			break
		}
		end := strings.IndexByte(path[start:], '/')
		var seg string
		if end < 0 {
			seg = path[start:]
			start = len(path)
		} else {
			seg = path[start : start+end]
			start += end
		}

		child, ok := n.children[seg]
		if !ok {
			return best, found
		}
		n = child
		if n.hasPrefix {
			best, found = n.prefix, true
		}
	}

	if n.hasExact {
		return n.exact, true
	}
	return best, found
}
