package hudcfg

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPath indicates a dotted path failed boundary validation.
var ErrInvalidPath = errors.New("hudcfg: invalid setting path")

// Path is a validated dotted setting key (e.g. "icons.scale"). It is parsed
// once at the boundary; internally components compare canonical strings and
// walk interned segments, never re-splitting raw input.
type Path struct {
	canonical string
	segments  []string
}

// ParsePath validates and interns raw. Segments are non-empty runs of ASCII
// letters, digits, underscores and dashes; numeric-looking segments address
// positional structures. Malformed input returns ErrInvalidPath so callers
// can treat the write as a no-op without touching any store.
func ParsePath(raw string) (Path, error) {
	if raw == "" {
		return Path{}, fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	segments := strings.Split(raw, ".")
	for _, segment := range segments {
		if !validSegment(segment) {
			return Path{}, fmt.Errorf("%w: segment %q in %q", ErrInvalidPath, segment, raw)
		}
	}
	return Path{canonical: raw, segments: segments}, nil
}

// MustParsePath is ParsePath for statically-known paths; it panics on
// malformed input and is intended for registration-time literals only.
func MustParsePath(raw string) Path {
	path, err := ParsePath(raw)
	if err != nil {
		panic(err)
	}
	return path
}

// String returns the canonical dotted form.
func (p Path) String() string {
	return p.canonical
}

// Segments returns a defensive copy of the parsed segments.
func (p Path) Segments() []string {
	if len(p.segments) == 0 {
		return nil
	}
	out := make([]string, len(p.segments))
	copy(out, p.segments)
	return out
}

// IsZero reports whether p is the zero Path (never produced by ParsePath).
func (p Path) IsZero() bool {
	return p.canonical == ""
}

// Child returns p extended by one validated segment.
func (p Path) Child(segment string) (Path, error) {
	if p.IsZero() {
		return ParsePath(segment)
	}
	if !validSegment(segment) {
		return Path{}, fmt.Errorf("%w: segment %q", ErrInvalidPath, segment)
	}
	segments := make([]string, 0, len(p.segments)+1)
	segments = append(segments, p.segments...)
	segments = append(segments, segment)
	return Path{canonical: p.canonical + "." + segment, segments: segments}, nil
}

// Equal reports canonical equality.
func (p Path) Equal(other Path) bool {
	return p.canonical == other.canonical
}

func validSegment(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !(isLetter || isDigit || r == '_' || r == '-') {
			return false
		}
	}
	return true
}

const (
	itemPathRoot = "items"

	// FieldEnabled, FieldBucket and FieldOrder are the per-item override
	// fields addressed as items.<id>.<field>.
	FieldEnabled = "enabled"
	FieldBucket  = "bucket"
	FieldOrder   = "order"
)

// ItemFieldPath builds the composite override key for an item field.
func ItemFieldPath(id ItemID, field string) Path {
	raw := itemPathRoot + "." + strconv.FormatInt(int64(id), 10) + "." + field
	return Path{
		canonical: raw,
		segments:  []string{itemPathRoot, strconv.FormatInt(int64(id), 10), field},
	}
}

// ParseItemFieldPath reverses ItemFieldPath. ok is false when the path is not
// an item field key.
func ParseItemFieldPath(p Path) (ItemID, string, bool) {
	if len(p.segments) != 3 || p.segments[0] != itemPathRoot {
		return 0, "", false
	}
	id, err := strconv.ParseInt(p.segments[1], 10, 64)
	if err != nil {
		return 0, "", false
	}
	switch p.segments[2] {
	case FieldEnabled, FieldBucket, FieldOrder:
		return ItemID(id), p.segments[2], true
	default:
		return 0, "", false
	}
}
