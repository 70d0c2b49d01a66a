package utils

import "strings"

// ContainsString returns true iff the provided string slice hay contains string
// needle.
func ContainsString(hay []string, needle string) bool {
	for _, str := range hay {
		if str == needle {
			return true
		}
	}
	return false
}

// ContainsAllStrings returns true iff every needle is present in hay. An empty
// needles slice is trivially contained.
func ContainsAllStrings(hay []string, needles []string) bool {
	for _, needle := range needles {
		if !ContainsString(hay, needle) {
			return false
		}
	}
	return true
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
