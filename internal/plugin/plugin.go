package plugin

import (
	"context"
	"fmt"
	"sort"

	"github.com/agentcart/agentcart/internal/intent"
	"github.com/agentcart/agentcart/internal/logging"
)

// classifyThreshold is the minimum intent score worth acting on. Below it
// the message is not ours and is left untouched.
const classifyThreshold = 0.5

const errorReply = "I encountered an error while trying to process your Amazon order. Please try again."

// Plugin routes chat messages to the best-matching intent. Intents are
// scored independently and the highest score wins.
type Plugin struct {
	intents []intent.Intent
}

func New(intents ...intent.Intent) *Plugin {
	return &Plugin{intents: intents}
}

// Result is the outcome of a HandleMessage call. Handled is false when no
// intent claimed the message.
type Result struct {
	Handled bool
	Reply   string
}

// HandleMessage classifies text against every registered intent and runs
// the winner. Automation failures never escape as errors to the caller:
// they come back as an apologetic reply so the conversation can continue.
func (p *Plugin) HandleMessage(ctx context.Context, text string, notify func(string)) Result {
	match := p.classify(text)
	if match == nil {
		return Result{}
	}

	logging.Infof("Dispatching message to intent %s", match.Name())

	out, err := p.run(ctx, match, &intent.Request{Text: text, Notify: notify})
	if err != nil {
		logging.Errorf("Intent %s failed: %v", match.Name(), err)
		return Result{Handled: true, Reply: errorReply}
	}
	return Result{Handled: true, Reply: out.Reply}
}

// classify returns the highest-scoring intent above the threshold, or nil.
// Ties go to registration order.
func (p *Plugin) classify(text string) intent.Intent {
	type scored struct {
		in    intent.Intent
		score float64
		order int
	}

	var candidates []scored
	for idx, in := range p.intents {
		if score := in.Classify(text); score >= classifyThreshold {
			candidates = append(candidates, scored{in: in, score: score, order: idx})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].score > candidates[b].score
	})
	return candidates[0].in
}

// run executes the intent, converting panics from the automation layer
// into plain errors.
func (p *Plugin) run(ctx context.Context, in intent.Intent, req *intent.Request) (out *intent.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("intent %s panicked: %v", in.Name(), r)
		}
	}()

	out, err = in.Execute(ctx, req)
	if err == nil && out == nil {
		err = fmt.Errorf("intent %s returned no outcome", in.Name())
	}
	return out, err
}
