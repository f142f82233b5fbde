package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *WardenError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigLoadFailed creates an error for a rules source that could not be read
func ConfigLoadFailed(locator string, err error) *WardenError {
	return Wrap(err, ErrCodeConfigLoadFailed, fmt.Sprintf("failed to load watch configuration from %s", locator)).
		WithDetail("locator", locator)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *WardenError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// MalformedRule creates an error for a watch rule that cannot be parsed.
// The index is the rule's position in the configured rule list.
func MalformedRule(index int, reason string) *WardenError {
	return New(ErrCodeRuleMalformed, fmt.Sprintf("malformed watch rule at index %d: %s", index, reason)).
		WithDetail("index", index)
}

// DuplicateRuleName creates an error for two rules sharing one name
func DuplicateRuleName(name string) *WardenError {
	return New(ErrCodeRuleDuplicateName, fmt.Sprintf("duplicate watch rule name '%s'", name)).
		WithDetail("name", name)
}

// ConflictingPaths creates an error for two exact rules targeting one path
func ConflictingPaths(path, firstRule, secondRule string) *WardenError {
	return New(ErrCodeRuleConflictingPaths,
		fmt.Sprintf("rules '%s' and '%s' both target exact path %s", firstRule, secondRule, path)).
		WithDetail("path", path).
		WithDetail("firstRule", firstRule).
		WithDetail("secondRule", secondRule)
}

// AgentAlreadyRunning creates an error for a second agent instance
func AgentAlreadyRunning(pid int) *WardenError {
	return New(ErrCodeAgentAlreadyRunning, fmt.Sprintf("agent already running with PID %d", pid)).
		WithDetail("pid", pid)
}

// AgentNotRunning creates an error for client calls against a stopped agent
func AgentNotRunning(socketPath string) *WardenError {
	return New(ErrCodeAgentNotRunning, fmt.Sprintf("agent not reachable at %s", socketPath)).
		WithDetail("socket", socketPath)
}

// SocketFailed creates an error for a socket the agent could not set up
func SocketFailed(socketPath string, err error) *WardenError {
	return Wrap(err, ErrCodeSocketFailed, fmt.Sprintf("failed to set up agent socket at %s", socketPath)).
		WithDetail("socket", socketPath)
}
