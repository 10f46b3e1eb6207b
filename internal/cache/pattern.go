package cache

import (
	"regexp"
	"strings"
)

// compilePattern turns a '*' glob into an anchored regexp. Only '*' is a
// wildcard; every other character, regexp metacharacters included, is literal.
func compilePattern(pattern string) *regexp.Regexp {
	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile("(?s)^" + strings.Join(parts, ".*") + "$")
}

// redisPattern translates a '*' glob into a Redis MATCH pattern, escaping the
// characters Redis would otherwise treat as glob syntax.
func redisPattern(pattern string) string {
	var sb strings.Builder
	for _, r := range pattern {
		switch r {
		case '?', '[', ']', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
