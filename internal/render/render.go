// Package render expands {field} placeholders in message templates.
package render

import "regexp"

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// Expand substitutes {name} tokens with values from fields. Tokens with no
// matching field are left intact so the gap is visible in the output.
func Expand(body string, fields map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(body, func(m string) string {
		key := m[1 : len(m)-1]
		if v, ok := fields[key]; ok {
			return v
		}
		return m
	})
}
