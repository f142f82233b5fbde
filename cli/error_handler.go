package cli

import (
	"fmt"
	"os"

	"github.com/wardentools/core/errors"
	"github.com/wardentools/core/tui/theme"
)

// Exit codes for warden commands. Scripts rely on these: 2 means the
// configuration or rules document is at fault, 3 means the agent is not
// reachable.
const (
	ExitOK          = 0
	ExitError       = 1
	ExitConfigError = 2
	ExitAgentDown   = 3
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
	}
}

// Handle provides user-friendly error messages based on error type
func (h *ErrorHandler) Handle(err error) error {
	mark := theme.DefaultTheme.Error.Render(theme.IconError)

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(os.Stderr, "%s Configuration not found. Create warden.yml or point WARDEN_CONFIG at one.\n", mark)
		fmt.Fprintf(os.Stderr, "Run 'warden paths' to see where warden looks.\n")

	case errors.ErrCodeAgentNotRunning:
		fmt.Fprintf(os.Stderr, "%s The warden agent is not running.\n", mark)
		fmt.Fprintf(os.Stderr, "Start it with 'warden wardend start', or check 'warden wardend status'.\n")

	case errors.ErrCodeAgentAlreadyRunning:
		if werr, ok := err.(*errors.WardenError); ok {
			fmt.Fprintf(os.Stderr, "%s An agent is already running (PID %v).\n", mark, werr.Details["pid"])
		} else {
			fmt.Fprintf(os.Stderr, "%s An agent is already running.\n", mark)
		}

	case errors.ErrCodeRuleMalformed, errors.ErrCodeRuleDuplicateName, errors.ErrCodeRuleConflictingPaths:
		fmt.Fprintf(os.Stderr, "%s Watch rules rejected: %s\n", mark, wardenMessage(err))
		fmt.Fprintf(os.Stderr, "The previous rules stay active. Fix the document and check it with 'warden validate'.\n")

	case errors.ErrCodeConfigLoadFailed:
		fmt.Fprintf(os.Stderr, "%s Could not load the rules document: %s\n", mark, wardenMessage(err))

	case errors.ErrCodeConfigInvalid, errors.ErrCodeConfigValidation:
		fmt.Fprintf(os.Stderr, "%s Invalid configuration: %s\n", mark, wardenMessage(err))

	default:
		fmt.Fprintf(os.Stderr, "%s Error: %v\n", mark, err)
	}

	// If verbose mode, show full error details
	if h.Verbose {
		if werr, ok := err.(*errors.WardenError); ok {
			fmt.Fprintf(os.Stderr, "\nError details:\n%s\n", werr.ToJSON())
		}
	}
	return err
}

// ExitCode maps an error onto the warden exit code convention.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound,
		errors.ErrCodeConfigLoadFailed,
		errors.ErrCodeConfigInvalid,
		errors.ErrCodeConfigValidation,
		errors.ErrCodeRuleMalformed,
		errors.ErrCodeRuleDuplicateName,
		errors.ErrCodeRuleConflictingPaths:
		return ExitConfigError
	case errors.ErrCodeAgentNotRunning:
		return ExitAgentDown
	default:
		return ExitError
	}
}

// wardenMessage returns the message without the code prefix when the error
// is structured, since Handle already classified it.
func wardenMessage(err error) string {
	if werr, ok := err.(*errors.WardenError); ok {
		return werr.Message
	}
	return err.Error()
}
