package discovery

import (
	"fmt"
)

// StructureError reports an expected markup element missing from a page,
// usually because the site's markup changed.
type StructureError struct {
	Element string // Human-readable description, e.g. "#primary-menu"
	URL     string
}

func (e *StructureError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("page structure changed: %s not found", e.Element)
	}
	return fmt.Sprintf("page structure changed: %s not found on %s", e.Element, e.URL)
}

// ParseError reports a publish date that does not match the expected
// layout.
type ParseError struct {
	Text   string
	Layout string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse date %q with layout %q: %v", e.Text, e.Layout, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
