package watch

import (
	"github.com/sirupsen/logrus"
	"github.com/wardentools/core/errors"
	"github.com/wardentools/core/logging"
	"github.com/wardentools/core/util/pathtree"
)

// Index is an immutable snapshot of compiled rules keyed by path. The store
// swaps whole indexes on reload; lookups never see a half-built one.
type Index struct {
	tree  *pathtree.Tree[*Policy]
	count int
}

// Find returns the policy governing path. Exact rules win over prefix rules
// at their own path, and the longest registered prefix wins among prefixes.
func (ix *Index) Find(path string) (*Policy, bool) {
	if ix == nil {
		return nil, false
	}
	return ix.tree.Lookup(path)
}

// Len returns the number of indexed rules.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return ix.count
}

// BuildIndex compiles policies into a lookup index and derives the sorted,
// deduplicated set of monitored root paths. Two exact rules on one path are
// a hard conflict that fails the build; a second prefix rule on an
// already-claimed prefix loses to the first and is only logged.
func BuildIndex(policies []*Policy) (*Index, []string, error) {
	tree := pathtree.New[*Policy]()
	owners := make(map[string]string, len(policies))
	monitored := make([]string, 0, len(policies))

	for _, p := range policies {
		if p.IsPrefix {
			if !tree.SetPrefix(p.Path, p) {
				logging.NewLogger("watch").WithFields(logrus.Fields{
					"path": p.Path,
					"rule": p.Name,
				}).Warn("Duplicate prefix rule ignored, first registration wins")
			}
		} else {
			if !tree.SetExact(p.Path, p) {
				return nil, nil, errors.ConflictingPaths(p.Path, owners[p.Path], p.Name)
			}
			owners[p.Path] = p.Name
		}
		monitored = append(monitored, p.Path)
	}

	return &Index{tree: tree, count: len(policies)}, normalizeSet(monitored), nil
}
