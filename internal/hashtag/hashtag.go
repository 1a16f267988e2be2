// file: internal/hashtag/hashtag.go
// version: 1.1.0
// guid: 8d0e2f4a-6b7c-4d1e-3f5a-7b9c1d3e5f6a

package hashtag

import (
	"regexp"
	"strings"
)

var (
	tagPattern       = regexp.MustCompile(`#([\p{L}\p{N}_-]+)`)
	directivePattern = regexp.MustCompile(`\[\[([^\[\]]*)\]\]`)
)

// Extract pulls hashtags out of note content. Tags are returned without the
// leading "#", lowercased, in order of first appearance, deduplicated.
func Extract(content string) []string {
	if content == "" {
		return nil
	}
	matches := tagPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tag := strings.ToLower(m[1])
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// StripDirectives removes bracketed directive spans from content for display,
// keeping the inner label: "see [[note-id]]" becomes "see note-id". Raw
// content stays searchable; only rendering uses the stripped form.
func StripDirectives(content string) string {
	if !strings.Contains(content, "[[") {
		return content
	}
	return directivePattern.ReplaceAllString(content, "$1")
}
