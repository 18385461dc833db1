package services

import "regexp"

var placeholderRe = regexp.MustCompile(`\{(\w+)\}`)

// FillTemplate replaces every {identifier} token with its mapped value.
// Unmapped tokens are blanked, not errors; the reply composer relies on that.
func FillTemplate(text string, ctx map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(tok string) string {
		key := tok[1 : len(tok)-1]
		return ctx[key]
	})
}
