package errors

import (
	"fmt"
	"testing"
)

func TestWardenError(t *testing.T) {
	// Test basic error creation
	err := New(ErrCodeRuleMalformed, "rule malformed")
	if err.Code != ErrCodeRuleMalformed {
		t.Errorf("expected code %s, got %s", ErrCodeRuleMalformed, err.Code)
	}

	// Test error wrapping
	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeConfigLoadFailed, "load failed")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	// Test Is function
	if !Is(wrapped, ErrCodeConfigLoadFailed) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeRuleMalformed) {
		t.Error("Is should return false for non-matching code")
	}

	// Test WithDetail
	detailed := err.WithDetail("name", "homebrew").WithDetail("index", 3)
	if detailed.Details["name"] != "homebrew" {
		t.Error("WithDetail should add details")
	}
}

func TestErrorConstructors(t *testing.T) {
	// Test MalformedRule
	err := MalformedRule(2, "missing required field 'path'")
	if err.Code != ErrCodeRuleMalformed {
		t.Errorf("expected code %s, got %s", ErrCodeRuleMalformed, err.Code)
	}
	if err.Details["index"] != 2 {
		t.Error("MalformedRule should include index detail")
	}

	// Test DuplicateRuleName
	err = DuplicateRuleName("homebrew")
	if err.Code != ErrCodeRuleDuplicateName {
		t.Errorf("expected code %s, got %s", ErrCodeRuleDuplicateName, err.Code)
	}
	if err.Details["name"] != "homebrew" {
		t.Error("DuplicateRuleName should include name detail")
	}

	// Test ConflictingPaths
	err = ConflictingPaths("/tmp/f", "exact", "exact2")
	if err.Code != ErrCodeRuleConflictingPaths {
		t.Errorf("expected code %s, got %s", ErrCodeRuleConflictingPaths, err.Code)
	}
	if err.Details["path"] != "/tmp/f" {
		t.Error("ConflictingPaths should include path detail")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(nil); got != "" {
		t.Errorf("GetCode(nil) = %q, want empty", got)
	}

	err := ConfigLoadFailed("/etc/warden/rules.yml", fmt.Errorf("permission denied"))
	if got := GetCode(err); got != ErrCodeConfigLoadFailed {
		t.Errorf("GetCode = %s, want %s", got, ErrCodeConfigLoadFailed)
	}

	// Codes survive one level of foreign wrapping
	wrapped := fmt.Errorf("reload failed: %w", err)
	if !Is(wrapped, ErrCodeConfigLoadFailed) {
		t.Error("Is should unwrap foreign wrappers")
	}
}
