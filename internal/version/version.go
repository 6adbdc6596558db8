package version

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/blang/semver"
)

// tagPattern matches the first dotted version triple anywhere in a tag.
var tagPattern = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)`)

// DefaultVersion is the version suggested when no prior release exists.
const DefaultVersion = "1.0.0"

// ErrInvalidOverride is returned when a user supplied version is rejected.
var ErrInvalidOverride = errors.New("invalid release version")

// Tag is a version parsed from a tag name.
type Tag struct {
	Major   uint64
	Minor   uint64
	Patch   uint64
	Default bool // no version triple was found; Major.Minor.Patch is 1.0.0
}

// defaultTag is the sentinel for tags without a version.
var defaultTag = Tag{Major: 1, Default: true}

// Parse extracts the first N.N.N substring of raw. It never fails: a string
// without a version yields the default tag.
func Parse(raw string) Tag {
	m := tagPattern.FindStringSubmatch(raw)
	if m == nil {
		return defaultTag
	}
	var nums [3]uint64
	for i := range nums {
		n, err := strconv.ParseUint(m[i+1], 10, 64)
		if err != nil {
			// out of range
			return defaultTag
		}
		nums[i] = n
	}
	return Tag{Major: nums[0], Minor: nums[1], Patch: nums[2]}
}

// Compare orders tags by major, then minor, then patch.
// Returns -1 if a < b, 0 if equal, 1 if a > b.
func Compare(a, b Tag) int {
	return a.semver().Compare(b.semver())
}

// Less reports whether t sorts before other.
func (t Tag) Less(other Tag) bool {
	return Compare(t, other) < 0
}

// IncrementMinor returns a new tag with minor bumped and patch reset to 0.
func (t Tag) IncrementMinor() Tag {
	return Tag{Major: t.Major, Minor: t.Minor + 1}
}

// String renders the tag as "major.minor.patch" without prefix.
func (t Tag) String() string {
	return fmt.Sprintf("%d.%d.%d", t.Major, t.Minor, t.Patch)
}

func (t Tag) semver() semver.Version {
	return semver.Version{Major: t.Major, Minor: t.Minor, Patch: t.Patch}
}

// Latest returns the highest tag in tags. When several tags share the highest
// version the last one wins. ok is false when tags is empty.
func Latest(tags []string) (latest Tag, ok bool) {
	for i, raw := range tags {
		t := Parse(raw)
		if i == 0 || !t.Less(latest) {
			latest = t
		}
	}
	return latest, len(tags) > 0
}

// Suggest returns the next release version for a project with the given
// existing tags: the highest tag with its minor bumped, or DefaultVersion when
// there are no tags or none of them carries a version.
func Suggest(tags []string) string {
	latest, ok := Latest(tags)
	if !ok || latest.Default {
		return DefaultVersion
	}
	return latest.IncrementMinor().String()
}

// ValidateOverride checks a user supplied release version. It must be a
// semantic version without a "v" prefix, e.g. "1.4.0" or "2.0.0-rc.1".
func ValidateOverride(s string) error {
	if strings.TrimSpace(s) != s || s == "" {
		return fmt.Errorf("%w %q: must not be empty or padded", ErrInvalidOverride, s)
	}
	if _, err := semver.Parse(s); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidOverride, s, err)
	}
	return nil
}
