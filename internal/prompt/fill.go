package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{([a-z_]+)\}\}`)

// Fill substitutes every {{name}} placeholder in template from bindings.
// A placeholder without a binding is an error; silently emitting the
// literal placeholder would leak template syntax into a prompt.
// Bindings that the template does not reference are ignored.
func Fill(template string, bindings map[string]string) (string, error) {
	var missing []string
	filled := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		value, ok := bindings[name]
		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("template placeholders without bindings: %s", strings.Join(missing, ", "))
	}
	return filled, nil
}

// Placeholders lists the distinct placeholder names a template references,
// in order of first appearance.
func Placeholders(template string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, match := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if !seen[match[1]] {
			seen[match[1]] = true
			names = append(names, match[1])
		}
	}
	return names
}
