package filter

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Signature is one named attack pattern. The set is deliberately
// declarative so deployments can extend it without code changes.
type Signature struct {
	Name    string
	Pattern *regexp.Regexp
}

// DefaultSignatures covers the common injection families: SQL injection
// tokens, path traversal sequences and shell command markers. These mirror
// the managed rule groups the deployment previously relied on.
func DefaultSignatures() []Signature {
	return []Signature{
		{Name: "sql-injection", Pattern: regexp.MustCompile(`(?i)(union\s+(all\s+)?select|insert\s+into|drop\s+table|delete\s+from|'\s*or\s+'?1'?\s*=\s*'?1|--\s|;\s*--)`)},
		{Name: "path-traversal", Pattern: regexp.MustCompile(`(\.\./|\.\.\\|%2e%2e%2f|%2e%2e/|\.\.%2f)`)},
		{Name: "command-injection", Pattern: regexp.MustCompile(`(?i)(;\s*(rm|cat|wget|curl|sh|bash)\b|\|\s*(sh|bash)\b|\$\(|&&\s*(rm|cat)\b|` + "`" + `)`)},
	}
}

// CompileSignature builds a custom signature from a provisioning entry.
func CompileSignature(name, pattern string) (Signature, error) {
	if name == "" {
		return Signature{}, fmt.Errorf("signature name is required")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Signature{}, fmt.Errorf("signature %s: %w", name, err)
	}
	return Signature{Name: name, Pattern: re}, nil
}

// PatternRule blocks requests whose path, query, headers or body prefix
// match any signature. The path is checked both raw and percent-decoded so
// encoding does not hide a traversal.
func PatternRule(priority int, signatures []Signature) Rule {
	return Rule{
		Name:     "pattern-signatures",
		Priority: priority,
		Action:   ActionBlock,
		Match: func(view *RequestView) bool {
			for _, sig := range signatures {
				if matchesSignature(sig, view) {
					return true
				}
			}
			return false
		},
	}
}

func matchesSignature(sig Signature, view *RequestView) bool {
	if sig.Pattern.MatchString(view.Path) || sig.Pattern.MatchString(view.RawQuery) {
		return true
	}
	if decoded, err := url.QueryUnescape(view.Path); err == nil && sig.Pattern.MatchString(decoded) {
		return true
	}
	if decoded, err := url.QueryUnescape(view.RawQuery); err == nil && sig.Pattern.MatchString(decoded) {
		return true
	}
	for name, values := range view.Headers {
		// Cookie and custom headers are attacker-controlled like any other;
		// standard auth headers are included deliberately.
		if strings.EqualFold(name, "Accept-Encoding") {
			continue
		}
		for _, value := range values {
			if sig.Pattern.MatchString(value) {
				return true
			}
		}
	}
	return len(view.Body) > 0 && sig.Pattern.Match(view.Body)
}
