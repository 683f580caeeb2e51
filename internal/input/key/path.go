package key

import (
	"fmt"
	"strings"
)

// Path is a series of chords leading from the root layer to an action.
// Examples: "F1 q", "F1 d Return".
type Path []Chord

// ParsePath parses a space-separated sequence of chord specifications.
func ParsePath(spec string) (Path, error) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return nil, ErrEmptySpec
	}
	return ParsePathParts(fields)
}

// ParsePathParts parses chord specifications given one per element.
func ParsePathParts(parts []string) (Path, error) {
	if len(parts) == 0 {
		return nil, ErrEmptySpec
	}
	path := make(Path, 0, len(parts))
	for i, p := range parts {
		c, err := Parse(p)
		if err != nil {
			return nil, fmt.Errorf("chord %d: %w", i+1, err)
		}
		path = append(path, c)
	}
	return path, nil
}

// String returns the path with chords separated by spaces.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, c := range p {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
