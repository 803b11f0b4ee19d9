// Package filter inspects requests before authentication so malicious or
// abusive traffic is rejected before any credential lookup is spent.
package filter

import "net/http"

// Action is what a matched rule does to the request.
type Action string

const (
	ActionAllow Action = "allow"
	ActionBlock Action = "block"
)

// RequestView is the read-only projection of a request that matchers see.
// Body holds at most a bounded prefix; the original stream is restored for
// downstream handlers.
type RequestView struct {
	Method   string
	Path     string
	RawQuery string
	SourceIP string
	Headers  http.Header
	Body     []byte
}

// Rule is one priority-ranked predicate-action pair. Lower priority values
// are evaluated first.
type Rule struct {
	Name     string
	Priority int
	Action   Action
	Match    func(view *RequestView) bool
}

// Decision is the chain's verdict. Rule names the rule that fired, empty
// when the implicit default-allow applied.
type Decision struct {
	Allowed bool
	Rule    string
}
