package publish

import (
	"errors"
	"fmt"
	"strings"
)

// Classification markers for failures in the publish lifecycle. Validation
// failures name the specific cause so callers can match on it.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
	ErrPublishFailed = errors.New("publish error")

	ErrTemplateMissing  = errors.New("template missing")
	ErrWorkFileMissing  = errors.New("work file no longer exists on disk")
	ErrPathMismatch     = errors.New("path does not match template")
	ErrAlreadyPublished = errors.New("file already copied to the publish location")
)

// NotEligibleReason distinguishes why an item produced no publish candidates.
type NotEligibleReason string

const (
	ReasonInvalidPath  NotEligibleReason = "not a valid path"
	ReasonNoWorkFiles  NotEligibleReason = "no generated work files"
	ReasonAllPublished NotEligibleReason = "all versions published"
)

// NotEligibleError reports that a node has nothing to publish. It is not a
// failure; callers surface it by omitting the item from publishable output.
type NotEligibleError struct {
	Node   string
	Reason NotEligibleReason
}

func (e *NotEligibleError) Error() string {
	return fmt.Sprintf("%q: %s", e.Node, e.Reason)
}

// AsNotEligible unwraps err into a NotEligibleError when it carries one.
func AsNotEligible(err error) (*NotEligibleError, bool) {
	var ne *NotEligibleError
	if errors.As(err, &ne) {
		return ne, true
	}
	return nil, false
}

// Wrap builds an error message that includes node context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, node, operation, message string, err error) error {
	detail := buildDetail(node, operation, message)
	if marker == nil {
		marker = ErrPublishFailed
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(node, operation, message string) string {
	parts := make([]string, 0, 3)
	if node = strings.TrimSpace(node); node != "" {
		parts = append(parts, node)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "publish failure"
	}
	return strings.Join(parts, ": ")
}
