package gate

import (
	"context"

	"github.com/Mithurn/JOB-EZ/internal/ai"
)

type succeededChecker interface {
	HasSucceeded(jobURL string) (bool, error)
}

type historyGate struct {
	store succeededChecker
}

// NewHistory creates a gate that rejects jobs already applied to successfully.
func NewHistory(store succeededChecker) Gate {
	return &historyGate{store: store}
}

func (g *historyGate) Name() string { return "history" }

func (g *historyGate) Check(_ context.Context, job *Job) (Decision, error) {
	applied, err := g.store.HasSucceeded(job.URL)
	if err != nil {
		return Decision{}, err
	}
	if applied {
		return Decision{Approve: false, Reason: "already applied"}, nil
	}
	return Decision{Approve: true}, nil
}

type matchGate struct {
	policy ai.GatePolicy
}

// NewMatch creates a gate that applies the confidence/score thresholds and
// red-flag phrase scan to the match result.
func NewMatch(policy ai.GatePolicy) Gate {
	return &matchGate{policy: policy}
}

func (g *matchGate) Name() string { return "match" }

func (g *matchGate) Check(_ context.Context, job *Job) (Decision, error) {
	approve, reason := ai.ShouldApply(job.Description, job.Match, g.policy)
	return Decision{Approve: approve, Reason: reason}, nil
}
