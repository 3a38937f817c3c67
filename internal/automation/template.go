// Package automation executes the side-effect actions attached to workflow
// stages and lead events: outbound messages, document generation, and
// appointment scheduling.
package automation

import "strings"

// Render substitutes {{placeholder}} tokens in a communication template with
// the given variables. Replacement is plain string substitution: no escaping,
// no nesting, and a placeholder with no matching variable is left verbatim in
// the output so a missing variable is visible rather than silently blank.
func Render(template string, vars map[string]string) string {
	result := template
	for key, value := range vars {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return result
}
