package git

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRefName is returned for names git would refuse as a branch or tag.
var ErrInvalidRefName = errors.New("invalid ref name")

// ValidateRefName applies the git check-ref-format rules to a branch or
// tag name so forms can reject a bad name before git does.
func ValidateRefName(name string) error {
	bad := func(reason string) error {
		return fmt.Errorf("%w %q: %s", ErrInvalidRefName, name, reason)
	}
	switch {
	case name == "" || name == "@":
		return bad("empty")
	case strings.HasPrefix(name, "-"):
		return bad("cannot start with '-'")
	case strings.HasSuffix(name, "/") || strings.HasSuffix(name, "."):
		return bad("cannot end with '/' or '.'")
	case strings.HasSuffix(name, ".lock"):
		return bad("cannot end with .lock")
	case strings.Contains(name, ".."), strings.Contains(name, "@{"), strings.Contains(name, "//"):
		return bad("contains '..', '@{' or '//'")
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(" ~^:?*[\\", r) {
			return bad(fmt.Sprintf("contains %q", r))
		}
	}
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") {
			return bad("a component cannot start with '.'")
		}
	}
	return nil
}
