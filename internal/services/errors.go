package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks a missing resource: video, audio, subtitle, or chapter file.
	ErrNotFound = errors.New("not found")
	// ErrInvalidSpec marks a malformed episode specification argument.
	ErrInvalidSpec = errors.New("invalid episode specification")
	// ErrExternalTool marks a failure surfaced from an external binary or service.
	ErrExternalTool = errors.New("external tool error")
	// ErrValidation marks inputs that fail internal consistency checks.
	ErrValidation = errors.New("validation error")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsNotFound reports whether err is tagged with ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidSpec reports whether err is tagged with ErrInvalidSpec.
func IsInvalidSpec(err error) bool {
	return errors.Is(err, ErrInvalidSpec)
}

// IsEpisodeFailure reports whether err should fail a single episode rather
// than abort the batch. Only invalid specifications abort the whole run.
func IsEpisodeFailure(err error) bool {
	return err != nil && !errors.Is(err, ErrInvalidSpec)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
