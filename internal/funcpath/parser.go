package funcpath

import (
	"fmt"
	"regexp"
	"strings"
)

// segmentRegex matches a single path segment: identifiers may use letters,
// digits, underscores, and dashes.
var segmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Parse reconstructs a Path from its canonical string representation. It is
// the inverse of Path.String.
func Parse(raw string) (Path, error) {
	if raw == "" {
		return Path{}, fmt.Errorf("%w: empty path", ErrInvalidIdentifier)
	}

	trimmed, ok := strings.CutSuffix(raw, Ext)
	if !ok {
		return Path{}, fmt.Errorf("%w: %q lacks the %q suffix", ErrInvalidIdentifier, raw, Ext)
	}

	segments := strings.Split(trimmed, Separator)
	for _, seg := range segments {
		if !segmentRegex.MatchString(seg) {
			return Path{}, fmt.Errorf("%w: bad segment %q in %q", ErrInvalidIdentifier, seg, raw)
		}
	}

	switch len(segments) {
	case 3:
		return Entry(segments[0], segments[1], segments[2])
	case 4:
		if segments[2] != functionsDir {
			return Path{}, fmt.Errorf("%w: expected %q directory in %q", ErrInvalidIdentifier, functionsDir, raw)
		}
		return Resolve(segments[0], segments[1], segments[3])
	default:
		return Path{}, fmt.Errorf("%w: %q has %d segments", ErrInvalidIdentifier, raw, len(segments))
	}
}
