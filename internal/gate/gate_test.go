package gate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mithurn/JOB-EZ/internal/ai"
)

type stubGate struct {
	name     string
	decision Decision
	err      error
	checked  bool
}

func (s *stubGate) Name() string { return s.name }

func (s *stubGate) Check(context.Context, *Job) (Decision, error) {
	s.checked = true
	return s.decision, s.err
}

func TestRunStopsAtFirstRejection(t *testing.T) {
	first := &stubGate{name: "first", decision: Decision{Approve: false, Reason: "already applied"}}
	second := &stubGate{name: "second", decision: Decision{Approve: true}}

	ok, reason := Run(context.Background(), nil, []Gate{first, second}, &Job{URL: "https://jobs/1"})

	require.False(t, ok)
	assert.Equal(t, "already applied", reason)
	assert.False(t, second.checked)
}

func TestRunAllApprove(t *testing.T) {
	gates := []Gate{
		&stubGate{name: "a", decision: Decision{Approve: true}},
		&stubGate{name: "b", decision: Decision{Approve: true}},
	}

	ok, reason := Run(context.Background(), nil, gates, &Job{URL: "https://jobs/1"})

	require.True(t, ok)
	assert.Empty(t, reason)
}

func TestRunSkipsErroringGate(t *testing.T) {
	broken := &stubGate{name: "broken", err: errors.New("db locked")}
	after := &stubGate{name: "after", decision: Decision{Approve: true}}

	ok, _ := Run(context.Background(), nil, []Gate{broken, after}, &Job{URL: "https://jobs/1"})

	require.True(t, ok)
	assert.True(t, after.checked)
}

type stubHistory struct {
	succeeded bool
	err       error
}

func (s *stubHistory) HasSucceeded(string) (bool, error) { return s.succeeded, s.err }

func TestHistoryGate(t *testing.T) {
	job := &Job{URL: "https://jobs/1"}

	decision, err := NewHistory(&stubHistory{succeeded: true}).Check(context.Background(), job)
	require.NoError(t, err)
	assert.False(t, decision.Approve)
	assert.Equal(t, "already applied", decision.Reason)

	decision, err = NewHistory(&stubHistory{}).Check(context.Background(), job)
	require.NoError(t, err)
	assert.True(t, decision.Approve)

	_, err = NewHistory(&stubHistory{err: errors.New("db locked")}).Check(context.Background(), job)
	require.Error(t, err)
}

func TestMatchGate(t *testing.T) {
	policy := ai.GatePolicy{MinConfidence: 0.6, MinMatchScore: 60, RedFlags: ai.DefaultRedFlags()}
	g := NewMatch(policy)

	job := &Job{
		URL:         "https://jobs/1",
		Description: "A fine Go role",
		Match:       &ai.MatchResult{SelectedResume: "a.pdf", Confidence: 0.9, MatchScore: 80},
	}
	decision, err := g.Check(context.Background(), job)
	require.NoError(t, err)
	assert.True(t, decision.Approve)

	job.Match.Confidence = 0.3
	decision, err = g.Check(context.Background(), job)
	require.NoError(t, err)
	assert.False(t, decision.Approve)

	job.Match.Confidence = 0.9
	job.Description = "Great role, commission only compensation"
	decision, err = g.Check(context.Background(), job)
	require.NoError(t, err)
	assert.False(t, decision.Approve)
}
