package softphone

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxIdentifierLength is the longest organization domain the hosted-PBX accepts.
const MaxIdentifierLength = 30

// Adjacent consonant pairs, matched left to right without overlap.
var consonantPair = regexp.MustCompile(`(?i)([b-df-hj-np-tv-z])([b-df-hj-np-tv-z])`)

// Compact derives a remote organization domain from name and suffix whose length never
// exceeds MaxIdentifierLength. Existing remote organizations are matched against this
// value, so its output for a given input must never change.
func Compact(name, suffix string) string {
	for {
		if len(name)+len(suffix) <= MaxIdentifierLength {
			return name + suffix
		}
		segments := strings.Split(consonantPair.ReplaceAllString(name, "$1-$2"), "-")
		if len(segments) < 2 {
			return truncate(name, suffix)
		}
		name = strings.Join(segments[:len(segments)-1], "")
	}
}

// truncate keeps the leading part of name once no consonant boundary is left.
func truncate(name, suffix string) string {
	room := MaxIdentifierLength - len(suffix)
	if room <= 0 {
		return cutAtRune(name+suffix, MaxIdentifierLength)
	}
	return cutAtRune(name, room) + suffix
}

// cutAtRune shortens s to at most n bytes without splitting a UTF-8 sequence.
func cutAtRune(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
