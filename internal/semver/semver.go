// Package semver implements parsing and ordering of dotted version
// identifiers as used in release-note filenames (e.g. "2.19.0",
// "2.20.0-rc1"). The special identifier "unreleased" is accepted and
// sorts after every released version.
package semver

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Unreleased is the special version identifier for changes that have
// not shipped yet.
const Unreleased = "unreleased"

var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9.-]+)?(\+[a-zA-Z0-9.-]+)?$`)

// Version is a parsed version identifier.
type Version struct {
	Major      int
	Minor      int
	Patch      int
	Prerelease string
	Build      string
}

// Normalize strips a leading "v" prefix and lower-cases the identifier,
// so "v2.19.0" and "2.19.0" refer to the same version.
func Normalize(version string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(version)), "v")
}

// IsValid reports whether the identifier is a well-formed version.
// "unreleased" is considered valid.
func IsValid(version string) bool {
	v := Normalize(version)
	return v == Unreleased || versionPattern.MatchString(v)
}

// Parse parses a version identifier into its components.
// Returns an error for "unreleased"; callers should check for it first.
func Parse(version string) (Version, error) {
	v := Normalize(version)
	if v == Unreleased {
		return Version{}, fmt.Errorf("%q is not a concrete version", version)
	}
	if !versionPattern.MatchString(v) {
		return Version{}, fmt.Errorf("invalid version format %q (expected: X.Y.Z)", version)
	}

	rest := v
	if i := strings.IndexByte(rest, '+'); i >= 0 {
		rest = rest[:i]
	}
	var prerelease string
	if i := strings.IndexByte(rest, '-'); i >= 0 {
		prerelease = rest[i+1:]
		rest = rest[:i]
	}
	var build string
	if i := strings.IndexByte(v, '+'); i >= 0 {
		build = v[i+1:]
	}

	parts := strings.SplitN(rest, ".", 3)
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, fmt.Errorf("invalid version component %q in %q", p, version)
		}
		nums[i] = n
	}

	return Version{
		Major:      nums[0],
		Minor:      nums[1],
		Patch:      nums[2],
		Prerelease: prerelease,
		Build:      build,
	}, nil
}

// String returns the canonical form of the version.
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	if v.Build != "" {
		s += "+" + v.Build
	}
	return s
}

// Compare orders two version identifiers. It returns -1 if a < b,
// 0 if equal, and 1 if a > b. "unreleased" sorts after every released
// version. A pre-release sorts before its corresponding release.
// Identifiers that fail to parse sort before everything that does,
// compared lexically among themselves, so the ordering stays total.
func Compare(a, b string) int {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return 0
	}
	if na == Unreleased {
		return 1
	}
	if nb == Unreleased {
		return -1
	}

	va, errA := Parse(na)
	vb, errB := Parse(nb)
	switch {
	case errA != nil && errB != nil:
		return strings.Compare(na, nb)
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	}

	if c := compareInt(va.Major, vb.Major); c != 0 {
		return c
	}
	if c := compareInt(va.Minor, vb.Minor); c != 0 {
		return c
	}
	if c := compareInt(va.Patch, vb.Patch); c != 0 {
		return c
	}
	return comparePrerelease(va.Prerelease, vb.Prerelease)
}

// Sort orders version identifiers ascending (oldest first).
// The sort is stable and total.
func Sort(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		return Compare(versions[i], versions[j]) < 0
	})
}

// SortDescending orders version identifiers newest first.
func SortDescending(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		return Compare(versions[i], versions[j]) > 0
	})
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// comparePrerelease follows semver precedence: no pre-release > any
// pre-release; otherwise dot-separated fields compare numerically when
// both are numeric, lexically otherwise.
func comparePrerelease(a, b string) int {
	if a == b {
		return 0
	}
	if a == "" {
		return 1
	}
	if b == "" {
		return -1
	}

	fieldsA := strings.Split(a, ".")
	fieldsB := strings.Split(b, ".")
	for i := 0; i < len(fieldsA) && i < len(fieldsB); i++ {
		fa, fb := fieldsA[i], fieldsB[i]
		if fa == fb {
			continue
		}
		na, errA := strconv.Atoi(fa)
		nb, errB := strconv.Atoi(fb)
		switch {
		case errA == nil && errB == nil:
			return compareInt(na, nb)
		case errA == nil:
			return -1 // numeric fields sort before alphanumeric
		case errB == nil:
			return 1
		default:
			return strings.Compare(fa, fb)
		}
	}
	return compareInt(len(fieldsA), len(fieldsB))
}
