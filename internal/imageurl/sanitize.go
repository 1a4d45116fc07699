package imageurl

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	controlRun    = regexp.MustCompile(`[\r\n\t]+`)
	whitespaceRun = regexp.MustCompile(`\s{2,}`)

	reservedReplacer = strings.NewReplacer(
		"/", "_", ":", "_", "*", "_", "?", "_", `"`, "_",
		"<", "_", ">", "_", "|", "_", `\`, "_",
	)
)

// SoftSanitize normalizes s into a filename stem the image host can serve.
// Spaces survive; filesystem-reserved characters become underscores.
func SoftSanitize(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ReplaceAll(s, "\u3000", " ")
	s = controlRun.ReplaceAllString(s, " ")
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = reservedReplacer.Replace(s)
	return strings.TrimSpace(s)
}

// EscapeComponent percent-encodes s the way browsers encode a single URI
// component: everything except A-Z a-z 0-9 and - _ . ! ~ * ' ( ) is escaped,
// and spaces become %20.
func EscapeComponent(s string) string {
	e := url.QueryEscape(s)
	return componentUnescaper.Replace(e)
}

var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)
