// Package intent classifies inbound messages and executes the matching
// automation flow. Each intent is an independent variant scoring the text
// for itself; the plugin layer dispatches to the best match.
package intent

import "context"

// Request is one inbound user message plus an optional notify callback for
// intermediate acknowledgments ("one moment please...").
type Request struct {
	Text   string
	Notify func(text string)
}

// Outcome is the user-facing result of executing an intent.
type Outcome struct {
	// Handled is false when the intent matched but could not complete in an
	// expected way (no results, failed login) and the reply asks the user
	// to clarify or retry.
	Handled bool
	Reply   string
}

// Intent is one automation flow: a classifier over raw text and an
// executor driving the browser clients.
type Intent interface {
	Name() string
	// Classify scores how strongly text matches this intent, 0 meaning no
	// match and 1 a certain one.
	Classify(text string) float64
	// Execute runs the flow. Errors are unexpected failures; expected
	// negative outcomes are carried in the Outcome reply instead.
	Execute(ctx context.Context, req *Request) (*Outcome, error)
}

func (r *Request) notify(text string) {
	if r.Notify != nil {
		r.Notify(text)
	}
}
