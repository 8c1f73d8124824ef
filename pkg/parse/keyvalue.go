// pkg/parse/keyvalue.go

package parse

import "strings"

// KeyValues parses `key: value` blocks such as /proc/net/bonding/<bond>.
// Lines without the delimiter are kept as keys with an empty value, so
// section markers like "802.3ad info" can be tested for presence.
// Later duplicates overwrite earlier ones.
func KeyValues(text string) map[string]string {
	values := make(map[string]string)
	for _, line := range Lines(text) {
		if key, value, found := strings.Cut(line, ": "); found {
			values[strings.TrimSpace(key)] = strings.TrimSpace(value)
			continue
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			values[trimmed] = ""
		}
	}
	return values
}

// FirstLineWithPrefix returns the first line starting with prefix
func FirstLineWithPrefix(text, prefix string) (string, bool) {
	for _, line := range Lines(text) {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line), true
		}
	}
	return "", false
}
