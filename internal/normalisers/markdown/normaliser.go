// Package markdown extracts plain text and frontmatter from markdown
// documents, producing content suitable for embedding and semantic search.
package markdown

import (
	"regexp"
	"strings"
)

const frontmatterDelim = "---\n"

// ParseFrontmatter splits raw document text into metadata and body.
// A well-formed frontmatter block is a leading "---" line, key: value
// lines, and a closing "---" line. Values are joined past the first colon
// and trimmed. Malformed or absent blocks degrade to empty metadata and
// the original text; this function never fails.
func ParseFrontmatter(text string) (map[string]string, string) {
	metadata := map[string]string{}

	if !strings.HasPrefix(text, frontmatterDelim) {
		return metadata, text
	}

	rest := text[len(frontmatterDelim):]
	end := strings.Index(rest, "\n---\n")
	if end < 0 {
		return metadata, text
	}

	block := rest[:end]
	body := rest[end+len("\n---\n"):]

	for _, line := range strings.Split(block, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		metadata[key] = strings.TrimSpace(value)
	}

	return metadata, body
}

var (
	codeBlockRe    = regexp.MustCompile("(?s)```[^`]*```")
	inlineCodeRe   = regexp.MustCompile("`[^`]+`")
	imageRe        = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	linkRe         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headingRe      = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	blockquoteRe   = regexp.MustCompile(`(?m)^>\s*`)
	hrRe           = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	listMarkerRe   = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	numberedListRe = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	multiNewlineRe = regexp.MustCompile(`\n{3,}`)
)

// Normalise converts a markdown body to plain text with markup syntax
// removed: code fences, inline code, images, links reduced to their text,
// heading and list markers, emphasis, blockquotes and horizontal rules.
// Blank-line paragraph structure is preserved; runs of blank lines
// collapse to one. Pure and deterministic.
func Normalise(content string) string {
	content = codeBlockRe.ReplaceAllString(content, "")
	content = inlineCodeRe.ReplaceAllString(content, "")
	content = imageRe.ReplaceAllString(content, "")
	content = linkRe.ReplaceAllString(content, "$1")
	content = headingRe.ReplaceAllString(content, "")

	content = strings.ReplaceAll(content, "**", "")
	content = strings.ReplaceAll(content, "__", "")
	content = strings.ReplaceAll(content, "*", "")
	content = strings.ReplaceAll(content, "_", " ")

	content = blockquoteRe.ReplaceAllString(content, "")
	content = hrRe.ReplaceAllString(content, "")
	content = listMarkerRe.ReplaceAllString(content, "")
	content = numberedListRe.ReplaceAllString(content, "")
	content = multiNewlineRe.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}
