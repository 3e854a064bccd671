package parse

import (
	"regexp"
	"strings"
)

var spaceRe = regexp.MustCompile(`\s+`)

// NormalizeDevice produces the lookup key for a device name: lowercased,
// trimmed, inner whitespace collapsed. Price matching is an exact match on
// this key.
func NormalizeDevice(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	return spaceRe.ReplaceAllString(s, " ")
}

// OSFamily identifies which wipe guide applies to a device.
type OSFamily string

const (
	OSiOS     OSFamily = "ios"
	OSAndroid OSFamily = "android"
	OSUnknown OSFamily = "unknown" // show both guides
)

var iosMarkers = []string{"iphone", "ipad", "ipod", "apple"}

// OSFamilyOf guesses the OS family from a device name. Apple hardware gets
// the iOS guide, everything else in the catalog is Android. An empty name
// means the family cannot be guessed and both guides should be shown.
func OSFamilyOf(device string) OSFamily {
	key := NormalizeDevice(device)
	if key == "" {
		return OSUnknown
	}
	for _, marker := range iosMarkers {
		if strings.Contains(key, marker) {
			return OSiOS
		}
	}
	return OSAndroid
}

// NormalizeCondition canonicalizes a condition tier name ("mint " -> "Mint").
// It does not validate tier membership; the store does that against its tier
// set.
func NormalizeCondition(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
