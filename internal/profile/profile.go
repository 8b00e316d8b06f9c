// Package profile holds the static form-filling configuration: what to type
// into recognized text inputs and how to answer recognized yes/no questions.
package profile

import (
	"sort"
	"strings"
)

// Profile maps a lower-cased field keyword to the value typed into a matching
// text input. Keys are matched by substring containment against field labels.
type Profile map[string]string

// Answers maps a lower-cased question fragment to the answer token ("Yes" or
// "No") selected in a matching radio group.
type Answers map[string]string

// Normalize returns a copy with lower-cased, trimmed keys and trimmed values.
// Entries with empty keys or values are dropped.
func Normalize(m map[string]string) map[string]string {
	normalized := make(map[string]string, len(m))
	for key, value := range m {
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		normalized[key] = value
	}
	return normalized
}

// Match returns the value for the first keyword contained in the lower-cased
// label. Keywords are tried in sorted order so the result is deterministic.
func Match(m map[string]string, label string) (string, bool) {
	label = strings.ToLower(label)
	if label == "" {
		return "", false
	}

	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if strings.Contains(label, key) {
			return m[key], true
		}
	}
	return "", false
}

// DefaultAnswers covers the questions that appear on nearly every form. They
// apply whenever no answers are configured; field values have no sane
// defaults and always come from the profile section of the config file.
func DefaultAnswers() Answers {
	return Answers{
		"relocate":           "Yes",
		"remote":             "Yes",
		"legally authorized": "Yes",
		"sponsorship":        "No",
	}
}
