package watch

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/wardentools/core/errors"
	"github.com/wardentools/core/schema"
)

// ParseConfig validates a raw rules document against the rules schema and
// compiles it into an ordered policy list. Parsing is all-or-nothing: a
// single invalid rule fails the whole document, and the caller keeps
// whatever rules were active before.
func ParseConfig(raw map[string]interface{}) ([]*Policy, error) {
	if raw == nil {
		return nil, errors.ConfigInvalid("rules document is empty")
	}

	validator, err := schema.NewRulesValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to load rules schema")
	}
	violations, err := validator.Check(raw)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to validate rules document")
	}
	if len(violations) > 0 {
		return nil, violationError(violations[0])
	}

	items, _ := raw["watch_items"].([]interface{})
	policies := make([]*Policy, 0, len(items))
	seen := make(map[string]int, len(items))

	for i, rawItem := range items {
		item := WatchItem{AuditOnly: true}
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:      &item,
			TagName:     "yaml",
			ErrorUnused: true,
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to build rule decoder")
		}
		if err := decoder.Decode(rawItem); err != nil {
			return nil, errors.MalformedRule(i, err.Error())
		}

		policy, err := policyFromItem(i, item)
		if err != nil {
			return nil, err
		}
		if first, dup := seen[policy.Name]; dup {
			return nil, errors.DuplicateRuleName(policy.Name).
				WithDetail("firstIndex", first).
				WithDetail("secondIndex", i)
		}
		seen[policy.Name] = i
		policies = append(policies, policy)
	}

	return policies, nil
}

// policyFromItem converts one decoded rule into a policy, cleaning its path
// and normalizing the allow-lists.
func policyFromItem(index int, item WatchItem) (*Policy, error) {
	name := strings.TrimSpace(item.Name)
	if name == "" {
		return nil, errors.MalformedRule(index, "name must not be blank")
	}

	cleaned, err := cleanRulePath(item.Path)
	if err != nil {
		return nil, errors.MalformedRule(index, err.Error()).WithDetail("name", name)
	}

	policy, err := NewPolicy(name, cleaned)
	if err != nil {
		return nil, errors.MalformedRule(index, err.Error())
	}
	policy.WriteOnly = item.WriteOnly
	policy.IsPrefix = item.IsPrefix
	policy.AuditOnly = item.AuditOnly
	policy.AllowedBinaryPaths = normalizeSet(item.AllowedBinaryPaths)
	policy.AllowedCertificatesSha256 = normalizeSet(item.AllowedCertificatesSha256)
	policy.AllowedTeamIDs = normalizeSet(item.AllowedTeamIDs)
	policy.AllowedCDHashes = normalizeSet(item.AllowedCDHashes)
	return policy, nil
}

// cleanRulePath requires an absolute path and collapses redundant slashes
// and dot segments, so "/usr/bin/" and "/usr/bin" index identically.
func cleanRulePath(p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("path must not be empty")
	}
	if !strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("path %q must be absolute", p)
	}
	return path.Clean(p), nil
}

// violationError maps a schema violation onto a watch error. Violations
// inside watch_items carry the offending rule index; everything else is an
// envelope problem.
func violationError(v schema.Violation) error {
	if rest, ok := strings.CutPrefix(v.Location, "/watch_items/"); ok {
		idxStr, field, _ := strings.Cut(rest, "/")
		if idx, err := strconv.Atoi(idxStr); err == nil {
			reason := v.Message
			if field != "" {
				reason = fmt.Sprintf("%s: %s", field, v.Message)
			}
			return errors.MalformedRule(idx, reason)
		}
	}
	if v.Location == "" || v.Location == "/" {
		return errors.ConfigInvalid(v.Message)
	}
	return errors.ConfigInvalid(fmt.Sprintf("%s: %s", v.Location, v.Message))
}
