package dispatch

import "strings"

// normalizePath strips trailing slashes; an empty path is the root.
func normalizePath(p string) string {
	p = strings.TrimRight(p, "/")
	if p == "" {
		return "/"
	}
	return p
}

// matchPattern matches a path against a route pattern made of literal
// segments and {name} placeholders. A placeholder matches one or more
// alphanumeric/underscore characters within a single segment; there are
// no multi-segment wildcards. Returns the captured placeholder values.
func matchPattern(pattern, path string) (map[string]string, bool) {
	patSegs := strings.Split(pattern, "/")
	pathSegs := strings.Split(path, "/")
	if len(patSegs) != len(pathSegs) {
		return nil, false
	}

	params := map[string]string{}
	for i, pat := range patSegs {
		seg := pathSegs[i]
		if strings.HasPrefix(pat, "{") && strings.HasSuffix(pat, "}") {
			if !isWord(seg) {
				return nil, false
			}
			params[pat[1:len(pat)-1]] = seg
			continue
		}
		if pat != seg {
			return nil, false
		}
	}
	return params, true
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
