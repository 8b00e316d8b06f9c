package applicator

// Outcome is the terminal state of one application attempt. Every call to
// ApplyToJob returns exactly one of these; none of them is ever raised as an
// error to the caller.
type Outcome string

const (
	// OutcomeSuccess means the submit affordance was reached (and clicked,
	// unless running in dry-run mode).
	OutcomeSuccess Outcome = "success"
	// OutcomeSkipped means no apply affordance was found. Typically the job
	// routes to an external site or was already applied to; not a failure.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailedSubmit means the submit click itself failed.
	OutcomeFailedSubmit Outcome = "failed_submit"
	// OutcomeFailedFormError means the site reported an inline validation
	// error the heuristics could not satisfy.
	OutcomeFailedFormError Outcome = "failed_form_error"
	// OutcomeFailedStuck means a step offered no submit, next, review or
	// error indicator: nothing to click.
	OutcomeFailedStuck Outcome = "failed_stuck"
	// OutcomeFailedTooManySteps means the form did not terminate within the
	// step budget.
	OutcomeFailedTooManySteps Outcome = "failed_too_many_steps"
	// OutcomeFailedException means an unexpected browser fault was caught at
	// the job boundary.
	OutcomeFailedException Outcome = "failed_exception"
)

// Failed reports whether the outcome is one of the failure terminals.
// Skipped is deliberately not a failure.
func (o Outcome) Failed() bool {
	switch o {
	case OutcomeSuccess, OutcomeSkipped:
		return false
	default:
		return true
	}
}

// Result describes one finished application attempt.
type Result struct {
	JobURL  string
	Resume  string
	Outcome Outcome
	// Detail carries diagnostic context for failure outcomes.
	Detail string
	// Steps is how many form steps were entered before terminating.
	Steps int
}
