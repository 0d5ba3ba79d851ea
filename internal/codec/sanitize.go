package codec

import "strings"

// fieldSanitizer makes the delimiter and quote characters structurally
// illegal inside any field, so no escaping scheme is needed: embedded
// tab/newline/carriage-return become a single space, double quotes
// become single quotes.
var fieldSanitizer = strings.NewReplacer(
	"\t", " ",
	"\n", " ",
	"\r", " ",
	`"`, "'",
)

// tagSanitizer additionally strips the comma used to join the tag list
var tagSanitizer = strings.NewReplacer(
	"\t", " ",
	"\n", " ",
	"\r", " ",
	`"`, "'",
	",", " ",
)

// Sanitize replaces characters that would break the tabular format.
// It is idempotent: sanitizing already-sanitized text is a no-op.
func Sanitize(s string) string {
	return fieldSanitizer.Replace(s)
}

// SanitizeTag sanitizes a single tag value, which additionally may not
// contain the tag-list separator.
func SanitizeTag(s string) string {
	return strings.TrimSpace(tagSanitizer.Replace(s))
}
