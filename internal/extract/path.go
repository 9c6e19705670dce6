package extract

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

// Wildcard is the canonical segment for a list position.
const Wildcard = "*"

// Root is the canonical path of the instance itself.
const Root = "."

// ParsePath splits a path into segments. "./a/b", "/a/b", "a/b" and "a.b"
// are equivalent; "." and "" denote the root.
func ParsePath(p string) ([]string, error) {
	p = strings.TrimSpace(p)

	switch {
	case p == "" || p == Root || p == "/" || p == "./":
		return nil, nil
	case strings.HasPrefix(p, "./"):
		p = p[2:]
	case strings.HasPrefix(p, "/"):
		p = p[1:]
	case !strings.Contains(p, "/"):
		p = strings.ReplaceAll(p, ".", "/")
	}

	p = strings.TrimSuffix(p, "/")

	segs := strings.Split(p, "/")
	for i, s := range segs {
		if s == "" {
			return nil, fmt.Errorf("path %q: empty segment at position %d", p, i)
		}
	}

	return segs, nil
}

// Canonical joins segments into a canonical path.
func Canonical(segs []string) string {
	if len(segs) == 0 {
		return Root
	}

	return "./" + strings.Join(segs, "/")
}

// isIndex reports whether seg addresses a list position.
func isIndex(seg string) (int, bool) {
	if seg == "" || seg[0] == '-' || seg[0] == '+' {
		return 0, false
	}

	n, err := strconv.Atoi(seg)

	return n, err == nil
}

// isGlob reports whether seg holds any path.Match metacharacter.
func isGlob(seg string) bool {
	return strings.ContainsAny(seg, "*?[\\")
}

// matchSegment matches one pattern segment against one index segment.
// magic is true when a numeric pattern segment selected a list position.
// A glob against a list position is accepted here and filtered against
// the concrete positions of each sample by matchIndex.
func matchSegment(pattern, indexSeg string) (ok, magic bool, err error) {
	if indexSeg == Wildcard {
		if _, num := isIndex(pattern); num {
			return true, true, nil
		}

		if !isGlob(pattern) {
			return false, false, nil
		}

		if _, err := path.Match(pattern, "0"); err != nil {
			return false, false, err
		}

		return true, false, nil
	}

	if !isGlob(pattern) {
		return pattern == indexSeg, false, nil
	}

	ok, err = path.Match(pattern, indexSeg)

	return ok, false, err
}

// matchIndex reports whether list position i satisfies the list segment
// seg, which is either Wildcard or a glob.
func matchIndex(seg string, i int) bool {
	if seg == Wildcard {
		return true
	}

	ok, err := path.Match(seg, strconv.Itoa(i))

	return ok && err == nil
}
