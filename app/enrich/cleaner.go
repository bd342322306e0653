package enrich

import (
	"regexp"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// CleanContent reduces feed content to plain text for analysis. HTML bodies
// go through readability extraction, with a bare tag-strip as fallback for
// fragments readability cannot handle.
func CleanContent(content string) string {
	if !strings.Contains(content, "<") {
		return collapseWhitespace(content)
	}

	article, err := readability.FromReader(strings.NewReader(content), nil)
	if err == nil && article.TextContent != "" {
		return collapseWhitespace(article.TextContent)
	}

	return collapseWhitespace(tagPattern.ReplaceAllString(content, " "))
}

// Truncate cuts a string to at most limit runes, appending an ellipsis when
// anything was removed.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}
