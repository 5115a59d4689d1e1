package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

// maxGeneratedTags caps the provider tag list; the prompt asks for 3-7.
const maxGeneratedTags = 7

var (
	codeFenceRe = regexp.MustCompile("```(?:json)?\n?")
	arrayRe     = regexp.MustCompile(`\[[^\[\]]*\]`)
	tagCharsRe  = regexp.MustCompile(`[^a-z0-9-]`)
)

// ParseTagArray extracts a tag list from a provider response. Each step of the
// fallback chain is total; when everything fails the result is an empty list,
// never an error:
//
//	strict JSON array → object containing an array → regex-extracted array
//	→ comma split → empty
func ParseTagArray(raw string) []string {
	text := strings.TrimSpace(codeFenceRe.ReplaceAllString(raw, ""))

	if tags, ok := parseStrict(text); ok {
		return sanitizeTags(tags)
	}
	if m := arrayRe.FindString(text); m != "" {
		if tags, ok := parseStrict(m); ok {
			return sanitizeTags(tags)
		}
		// Last resort: split the bracket contents on commas.
		inner := strings.Trim(m, "[]")
		var tags []string
		for _, part := range strings.Split(inner, ",") {
			tags = append(tags, strings.Trim(strings.TrimSpace(part), `"'`))
		}
		return sanitizeTags(tags)
	}
	return []string{}
}

// parseStrict handles a bare JSON array and an object carrying an array under
// some key (the model occasionally returns {"tags": [...]}).
func parseStrict(text string) ([]string, bool) {
	var tags []string
	if err := json.Unmarshal([]byte(text), &tags); err == nil {
		return tags, true
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		for _, v := range obj {
			if err := json.Unmarshal(v, &tags); err == nil {
				return tags, true
			}
		}
	}
	return nil, false
}

// sanitizeTags lowercases, hyphenates whitespace, strips non [a-z0-9-]
// characters, drops empties, and caps the list.
func sanitizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		t = strings.Join(strings.Fields(t), "-")
		t = tagCharsRe.ReplaceAllString(t, "")
		if t == "" {
			continue
		}
		out = append(out, t)
		if len(out) == maxGeneratedTags {
			break
		}
	}
	return out
}
