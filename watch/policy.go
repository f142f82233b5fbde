package watch

import (
	"reflect"
	"sort"

	"github.com/wardentools/core/errors"
)

// Policy is one compiled watch rule. Policies are immutable once built: the
// store hands out pointers to them across reloads, so nothing may mutate a
// policy after it has been indexed.
type Policy struct {
	// Name identifies the rule for logs, events and conflict reports.
	Name string `json:"name"`

	// Path is the cleaned absolute path the rule covers. For prefix rules
	// this is the subtree root.
	Path string `json:"path"`

	// WriteOnly limits the rule to write-class access (write, rename,
	// unlink, truncate). Read access is not reported.
	WriteOnly bool `json:"write_only"`

	// IsPrefix makes the rule cover the whole subtree under Path using
	// segment-boundary matching, not a terminal-only match.
	IsPrefix bool `json:"is_prefix"`

	// AuditOnly reports violations without denying them. Defaults to true
	// so a new rule observes before it enforces.
	AuditOnly bool `json:"audit_only"`

	// Allow-lists. An access is exempt when the accessing process matches
	// any entry in any list. All lists are sorted and deduplicated.
	AllowedBinaryPaths        []string `json:"allowed_binary_paths,omitempty"`
	AllowedCertificatesSha256 []string `json:"allowed_certificates_sha256,omitempty"`
	AllowedTeamIDs            []string `json:"allowed_team_ids,omitempty"`
	AllowedCDHashes           []string `json:"allowed_cdhashes,omitempty"`
}

// NewPolicy creates a policy with defaults applied. Name and path must be
// non-empty; allow-lists and flags are set by the caller afterwards.
func NewPolicy(name, path string) (*Policy, error) {
	if name == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "policy name must not be empty")
	}
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "policy path must not be empty")
	}
	return &Policy{
		Name:      name,
		Path:      path,
		AuditOnly: true,
	}, nil
}

// Equal reports whether two policies are structurally identical, including
// their allow-lists. Allow-lists are normalized at parse time, so slice
// comparison is order-insensitive in practice.
func (p *Policy) Equal(other *Policy) bool {
	if p == nil || other == nil {
		return p == other
	}
	return reflect.DeepEqual(p, other)
}

// ConfigsEqual reports whether two raw rules documents are deeply equal.
// The store uses this to skip rebuilds when a reload produced an identical
// document.
func ConfigsEqual(a, b map[string]interface{}) bool {
	return reflect.DeepEqual(a, b)
}

// normalizeSet sorts values, drops empty strings and removes duplicates.
// It returns nil for an empty result so absent and empty lists compare equal.
func normalizeSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	dedup := out[:1]
	for _, v := range out[1:] {
		if v != dedup[len(dedup)-1] {
			dedup = append(dedup, v)
		}
	}
	return dedup
}
