package cargo

import (
	"strconv"
	"strings"
)

// baseVersion extracts the version a requirement is anchored at:
// "^1.2" -> "1.2", "~0.4.1" -> "0.4.1", ">=1, <2" -> "1". Wildcard and empty
// requirements have no base.
func baseVersion(req string) (string, bool) {
	req, _, _ = strings.Cut(req, ",")
	req = strings.TrimLeft(strings.TrimSpace(req), "^~=>< ")
	req = strings.TrimSuffix(strings.TrimSuffix(req, ".*"), ".x")
	if req == "" || req == "*" {
		return "", false
	}
	return req, true
}

// compareVersions compares dotted numeric versions, treating missing
// components as zero. Pre-release and build suffixes are ignored. It reports
// ok == false when either side is not numeric.
func compareVersions(a, b string) (cmp int, ok bool) {
	pa, ok := numericParts(a)
	if !ok {
		return 0, false
	}
	pb, ok := numericParts(b)
	if !ok {
		return 0, false
	}
	for i := range max(len(pa), len(pb)) {
		var x, y int
		if i < len(pa) {
			x = pa[i]
		}
		if i < len(pb) {
			y = pb[i]
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
	}
	return 0, true
}

func numericParts(v string) ([]int, bool) {
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	fields := strings.Split(v, ".")
	parts := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, false
		}
		parts[i] = n
	}
	return parts, true
}
