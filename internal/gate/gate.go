// Package gate chains the go/no-go checks that run between scoring a job and
// applying to it.
package gate

import (
	"context"

	"go.uber.org/zap"

	"github.com/Mithurn/JOB-EZ/internal/ai"
)

// Job is the evaluated posting a gate decides on.
type Job struct {
	URL         string
	Title       string
	Description string
	Match       *ai.MatchResult
}

// Decision is one gate's verdict. Reason is set on rejection.
type Decision struct {
	Approve bool
	Reason  string
}

// Gate is a single go/no-go check.
type Gate interface {
	Name() string
	Check(ctx context.Context, job *Job) (Decision, error)
}

// Run executes the gates in order and stops at the first rejection. A gate
// that errors is skipped with a warning: gates are advisory and an infra
// fault must not stall the pipeline.
func Run(ctx context.Context, logger *zap.Logger, gates []Gate, job *Job) (bool, string) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, g := range gates {
		decision, err := g.Check(ctx, job)
		if err != nil {
			logger.Warn("gate check failed, skipping gate",
				zap.String("gate", g.Name()),
				zap.String("job_url", job.URL),
				zap.Error(err),
			)
			continue
		}

		if !decision.Approve {
			logger.Info("job rejected by gate",
				zap.String("gate", g.Name()),
				zap.String("job_url", job.URL),
				zap.String("reason", decision.Reason),
			)
			return false, decision.Reason
		}
	}

	return true, ""
}
