// Package formatter renders listings through user templates with
// {{variable}} placeholders and named presets.
package formatter

import (
	"fmt"
	"regexp"
	"strings"
)

// TemplateEngine provides template parsing and variable substitution.
type TemplateEngine interface {
	// Parse returns the variables found in the template.
	Parse(template string) ([]string, error)

	// Substitute replaces variables in the template with values from the context.
	Substitute(template string, ctx VariableContext) (string, error)

	// Validate checks delimiters and that every variable is known.
	Validate(template string) error
}

type templateEngine struct {
	variablePattern *regexp.Regexp
	resolver        VariableResolver
}

// NewTemplateEngine creates a new template engine instance.
func NewTemplateEngine() TemplateEngine {
	return &templateEngine{
		variablePattern: regexp.MustCompile(`\{\{([a-z0-9-]+)\}\}`),
		resolver:        NewVariableResolver(),
	}
}

// Parse identifies all variables in a template string using {{variable-name}} syntax.
// Returns a list of variable names found, without duplicates.
func (te *templateEngine) Parse(template string) ([]string, error) {
	if template == "" {
		return []string{}, nil
	}

	matches := te.variablePattern.FindAllStringSubmatch(template, -1)
	seen := make(map[string]bool)
	variables := []string{}
	for _, match := range matches {
		if name := match[1]; !seen[name] {
			variables = append(variables, name)
			seen[name] = true
		}
	}
	return variables, nil
}

// Substitute replaces all variables in the template with values from the context.
func (te *templateEngine) Substitute(template string, ctx VariableContext) (string, error) {
	if template == "" {
		return "", nil
	}

	var resolveErr error
	result := te.variablePattern.ReplaceAllStringFunc(template, func(match string) string {
		if resolveErr != nil {
			return match
		}
		name := match[2 : len(match)-2]
		value, err := te.resolver.Resolve(name, ctx)
		if err != nil {
			resolveErr = err
			return match
		}
		return value
	})
	if resolveErr != nil {
		return "", resolveErr
	}
	return result, nil
}

// Validate reports mismatched delimiters and unknown variables.
func (te *templateEngine) Validate(template string) error {
	if template == "" {
		return nil
	}

	openCount := strings.Count(template, "{{")
	closeCount := strings.Count(template, "}}")
	if openCount != closeCount {
		return fmt.Errorf("mismatched variable delimiters: %d opens, %d closes", openCount, closeCount)
	}

	vars, _ := te.Parse(template)
	for _, name := range vars {
		if !IsKnownVariable(name) {
			return fmt.Errorf("unknown variable: %s (available: %s)", name, strings.Join(Variables(), ", "))
		}
	}
	return nil
}
