package quickbook

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Format versions are major*100 + minor.
const (
	DefaultVersion = 101
	LatestVersion  = 107
)

// ErrUnknownVersion is returned for versions this compiler does not know.
var ErrUnknownVersion = errors.New("unknown version of quickbook")

// ParseVersion parses "1.6" into 106.
func ParseVersion(text string) (int, error) {
	text = strings.TrimSpace(text)
	major, minor, ok := strings.Cut(text, ".")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownVersion, text)
	}
	ma, err1 := strconv.Atoi(major)
	mi, err2 := strconv.Atoi(minor)
	if err1 != nil || err2 != nil || ma < 1 || mi < 0 || mi > 99 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownVersion, text)
	}
	v := ma*100 + mi
	if v > LatestVersion {
		return v, fmt.Errorf("%w: quickbook %s", ErrUnknownVersion, text)
	}
	return v, nil
}

// FormatVersion renders 106 as "1.6".
func FormatVersion(v int) string {
	return fmt.Sprintf("%d.%d", v/100, v%100)
}

// ver reports whether the running version is in [lo, hi). A zero hi has
// no upper bound.
func (s *State) ver(lo, hi int) bool {
	return s.version >= lo && (hi == 0 || s.version < hi)
}

// since reports whether the running version is at least v.
func (s *State) since(v int) bool {
	return s.version >= v
}
