package docgen

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTemplateMissing means the template file could not be read. It is a
	// deployment problem, not something the user can retry.
	ErrTemplateMissing = errors.New("document template missing")
	ErrEntryNotFound   = errors.New("archive entry not found")
	ErrCorruptDocument = errors.New("document body corrupt")
)

// TagError is one problem found while rendering a template part.
type TagError struct {
	Part   string
	Tag    string
	Reason string
}

func (e *TagError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("%s: %s", e.Part, e.Reason)
	}
	return fmt.Sprintf("%s: tag %q: %s", e.Part, e.Tag, e.Reason)
}

// RenderError collects every TagError from a failed text pass.
type RenderError struct {
	Errs []error
}

func (e *RenderError) Error() string {
	msgs := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("render template: %d error(s): %s", len(e.Errs), strings.Join(msgs, "; "))
}

func (e *RenderError) Unwrap() []error { return e.Errs }

// ValidationError lists payload fields that were left empty.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}
