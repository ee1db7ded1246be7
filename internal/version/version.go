// Package version reads and rewrites the version marker line of a source file,
// e.g. `__version__ = '1.4.0'` in a package's __init__.py.
package version

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

var (
	// ErrNoMarker is returned when the file has no line assigning the version variable.
	ErrNoMarker = errors.New("no version marker found")

	// ErrInvalidVersion is returned for strings that are neither SemVer nor PEP 440.
	ErrInvalidVersion = errors.New("invalid version")
)

// pep440 matches public PEP 440 versions without local segments.
var pep440 = regexp.MustCompile(`^([1-9][0-9]*!)?(0|[1-9][0-9]*)(\.(0|[1-9][0-9]*))*((a|b|rc)(0|[1-9][0-9]*))?(\.post(0|[1-9][0-9]*))?(\.dev(0|[1-9][0-9]*))?$`)

// marker is a parsed version assignment line.
type marker struct {
	prefix  string // everything before "="
	quote   string // ' or ", empty when unquoted
	value   string
	trailer string // text after the value, e.g. a comment
}

// parseMarker reports whether line assigns variable and splits it.
// Accepts `name = 'x'`, `name: str = "x"` and trailing comments.
func parseMarker(line, variable string) (marker, bool) {
	if !strings.HasPrefix(line, variable) {
		return marker{}, false
	}
	rest := strings.TrimLeft(line[len(variable):], " \t")
	if !strings.HasPrefix(rest, "=") && !strings.HasPrefix(rest, ":") {
		return marker{}, false
	}
	eq := strings.Index(line, "=")
	if eq < 0 {
		return marker{}, false
	}

	m := marker{prefix: line[:eq]}
	value := strings.TrimSpace(line[eq+1:])

	if value != "" && (value[0] == '\'' || value[0] == '"') {
		m.quote = value[:1]
		if end := strings.Index(value[1:], m.quote); end >= 0 {
			m.value = value[1 : end+1]
			m.trailer = value[end+2:]
			return m, true
		}
		m.value = strings.Trim(value, `'"`)
		return m, true
	}

	if hash := strings.Index(value, "#"); hash >= 0 {
		m.trailer = " " + value[hash:]
		value = value[:hash]
	}
	m.value = strings.Trim(strings.TrimSpace(value), `'"`)
	return m, true
}

func (m marker) render(version string) string {
	quote := m.quote
	if quote == "" {
		quote = "'"
	}
	return strings.TrimRight(m.prefix, " \t") + " = " + quote + version + quote + m.trailer
}

// Read returns the version assigned to variable in the file at path.
// The first matching line wins.
func Read(path, variable string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read version file: %w", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if m, ok := parseMarker(strings.TrimSuffix(line, "\r"), variable); ok {
			return m.value, nil
		}
	}
	return "", fmt.Errorf("%w: %s in %s", ErrNoMarker, variable, path)
}

// Write replaces the value of every line assigning variable in path.
// Other lines are kept verbatim; the file ends with exactly one newline.
// The file is left untouched when no marker line exists.
func Write(path, variable, version string) error {
	if strings.TrimSpace(version) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidVersion)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat version file: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read version file: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	found := false
	for i, line := range lines {
		cr := strings.HasSuffix(line, "\r")
		m, ok := parseMarker(strings.TrimSuffix(line, "\r"), variable)
		if !ok {
			continue
		}
		found = true
		lines[i] = m.render(version)
		if cr {
			lines[i] += "\r"
		}
	}
	if !found {
		return fmt.Errorf("%w: %s in %s", ErrNoMarker, variable, path)
	}

	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write version file: %w", err)
	}
	return nil
}

// Normalize strips a leading "v" so "v1.2.0" and "1.2.0" name the same release.
func Normalize(v string) string {
	v = strings.TrimSpace(v)
	if len(v) > 1 && (v[0] == 'v' || v[0] == 'V') && v[1] >= '0' && v[1] <= '9' {
		return v[1:]
	}
	return v
}

// Valid reports whether v is a SemVer or PEP 440 version, with optional "v" prefix.
func Valid(v string) bool {
	n := Normalize(v)
	return semver.IsValid("v"+n) || pep440.MatchString(n)
}

// Validate returns ErrInvalidVersion when v is not Valid.
func Validate(v string) error {
	if !Valid(v) {
		return fmt.Errorf("%w: %q (expected e.g. 1.4.0)", ErrInvalidVersion, v)
	}
	return nil
}

// Compare returns -1, 0 or +1 depending on whether a precedes, equals or follows b.
// SemVer precedence is used when both parse as SemVer; otherwise release
// segments are compared numerically and a pre-release suffix sorts first.
func Compare(a, b string) int {
	na, nb := Normalize(a), Normalize(b)
	if semver.IsValid("v"+na) && semver.IsValid("v"+nb) {
		return semver.Compare("v"+na, "v"+nb)
	}

	ra, sa := splitRelease(na)
	rb, sb := splitRelease(nb)
	for i := 0; i < max(len(ra), len(rb)); i++ {
		var x, y int
		if i < len(ra) {
			x = ra[i]
		}
		if i < len(rb) {
			y = rb[i]
		}
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	switch {
	case sa == sb:
		return 0
	case sa == "":
		return 1
	case sb == "":
		return -1
	default:
		return strings.Compare(sa, sb)
	}
}

// splitRelease splits "1.2.0rc1" into [1 2 0] and "rc1".
func splitRelease(v string) ([]int, string) {
	var nums []int
	for v != "" {
		end := 0
		for end < len(v) && v[end] >= '0' && v[end] <= '9' {
			end++
		}
		if end == 0 {
			break
		}
		n, _ := strconv.Atoi(v[:end])
		nums = append(nums, n)
		v = v[end:]
		if !strings.HasPrefix(v, ".") || len(v) < 2 || v[1] < '0' || v[1] > '9' {
			break
		}
		v = v[1:]
	}
	return nums, strings.TrimLeft(v, ".-")
}

// Next suggests the version after v: a pre-release becomes its final
// release, otherwise the last release segment is incremented.
// It returns "" when v has no numeric release segment.
func Next(v string) string {
	nums, suffix := splitRelease(Normalize(v))
	if len(nums) == 0 {
		return ""
	}
	if suffix == "" {
		nums[len(nums)-1]++
	}
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}
