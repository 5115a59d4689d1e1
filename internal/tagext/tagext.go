// Package tagext derives candidate tags from raw note text using hashtag
// markers and a word-frequency heuristic. It is deterministic and does no I/O;
// AI-generated tags are a separate, provider-driven source handled by the
// enrichment pipeline.
package tagext

import (
	"regexp"
	"strings"
)

// MaxTags caps the number of extracted tags.
const MaxTags = 10

var hashtagRe = regexp.MustCompile(`#(\w+)`)

// Words shorter than 4 characters are skipped outright; these are the common
// longer words that would otherwise dominate the frequency heuristic.
var stopWords = map[string]struct{}{
	"that": {}, "this": {}, "with": {}, "from": {}, "have": {},
	"been": {}, "will": {}, "your": {}, "what": {}, "when": {},
	"where": {}, "they": {}, "them": {}, "then": {}, "than": {},
	"were": {}, "just": {}, "like": {}, "some": {}, "also": {},
	"into": {}, "only": {}, "over": {}, "very": {}, "about": {},
	"would": {}, "could": {}, "should": {}, "there": {}, "their": {},
}

// Extract returns up to MaxTags lowercase tags: explicit #hashtags unioned
// with words longer than three characters that recur at least twice and are
// not stop words. Hashtags come first, in order of appearance.
func Extract(text string) []string {
	seen := make(map[string]struct{})
	var out []string

	add := func(tag string) {
		if _, dup := seen[tag]; dup {
			return
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}

	for _, m := range hashtagRe.FindAllStringSubmatch(text, -1) {
		add(strings.ToLower(m[1]))
	}

	counts := make(map[string]int)
	var order []string
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?()[]{}\"'`")
		if len(word) <= 3 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
	}
	for _, word := range order {
		if counts[word] >= 2 {
			add(word)
		}
	}

	if len(out) > MaxTags {
		out = out[:MaxTags]
	}
	return out
}

// Merge unions two tag lists, preserving the order of first appearance.
func Merge(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base))
	out := make([]string, 0, len(base)+len(extra))
	for _, lists := range [][]string{base, extra} {
		for _, t := range lists {
			if t == "" {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
