package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy = bluemonday.StrictPolicy()
	ugcPolicy    = bluemonday.UGCPolicy()
)

// PlainText strips all markup and normalizes whitespace.
func PlainText(content string) string {
	// keep words from merging when block tags disappear
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	sanitized := strictPolicy.Sanitize(content)
	cleanText := html.UnescapeString(sanitized)

	return strings.Join(strings.Fields(cleanText), " ")
}

// RichText keeps basic formatting and drops scripts, handlers and
// anything else unsafe to render in the registration page.
func RichText(content string) string {
	return strings.TrimSpace(ugcPolicy.Sanitize(content))
}
