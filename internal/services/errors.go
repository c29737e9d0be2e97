// Package services defines the error taxonomy shared by the library
// subsystems. Sentinel markers classify a failure as fatal to the calling
// operation or recoverable per item; Wrap tags errors with component context
// so batch operations can log and continue.
package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks caller mistakes: bad ids, unreadable source roots.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks unusable configuration discovered at runtime.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks a lookup miss that the caller treated as required.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable marks the index store being unreachable. Distinct from
	// ErrNotFound, which is a normal empty result.
	ErrUnavailable = errors.New("store unavailable")
	// ErrExternalTool marks failures in the ffmpeg/ffprobe collaborators.
	ErrExternalTool = errors.New("external tool error")
	// ErrTransient marks per-item failures batch operations skip past.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error that includes component context while tagging it with
// the provided marker for later classification. The marker should be one of
// the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether an error should abort the whole operation rather
// than a single item.
func Fatal(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrConfiguration) || errors.Is(err, ErrValidation)
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
