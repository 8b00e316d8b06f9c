// Package applicator drives one browser session through a multi-step job
// application form: find the apply affordance, fill recognized fields, attach
// the resume, then advance until submit or a terminal failure.
package applicator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Mithurn/JOB-EZ/internal/profile"
	"github.com/Mithurn/JOB-EZ/internal/utils"
)

// maxSteps bounds the form-progression loop. A real application flow is 2-4
// steps; anything past this is a loop the heuristics cannot break out of.
const maxSteps = 10

const defaultSettle = 2 * time.Second

// Applicator owns the page for the duration of an attempt. It is not safe
// for concurrent use; one session, one applicator, one job at a time.
type Applicator struct {
	page    Page
	profile map[string]string
	answers map[string]string
	dryRun  bool
	settle  time.Duration
	logger  *zap.Logger
}

// Options configures an Applicator.
type Options struct {
	// Profile maps lower-cased field keywords to fill values.
	Profile profile.Profile
	// Answers maps lower-cased question fragments to Yes/No tokens. Empty
	// means the stock defaults from profile.DefaultAnswers.
	Answers profile.Answers
	// DryRun walks the full flow but skips the final submit click.
	DryRun bool
	// Settle is the pause between form interactions. Zero means the default.
	Settle time.Duration
}

func New(page Page, opts Options, logger *zap.Logger) *Applicator {
	if logger == nil {
		logger = zap.NewNop()
	}

	settle := opts.Settle
	if settle <= 0 {
		settle = defaultSettle
	}

	answers := profile.Normalize(opts.Answers)
	if len(answers) == 0 {
		answers = profile.Normalize(profile.DefaultAnswers())
	}

	return &Applicator{
		page:    page,
		profile: profile.Normalize(opts.Profile),
		answers: answers,
		dryRun:  opts.DryRun,
		settle:  settle,
		logger:  logger,
	}
}

// ApplyToJob runs one application attempt end to end. It always terminates
// within maxSteps form iterations and always returns a Result with one of the
// seven terminal outcomes; browser faults are mapped to OutcomeFailedException
// instead of propagating.
func (a *Applicator) ApplyToJob(ctx context.Context, jobURL, resumePath string) *Result {
	result := &Result{JobURL: jobURL, Resume: resumePath}

	a.logger.Info("navigating to job", zap.String("job_url", jobURL))

	if err := a.page.Navigate(ctx, jobURL); err != nil {
		return a.exception(result, fmt.Errorf("navigate: %w", err))
	}
	a.pause(ctx)

	clicked, err := a.clickApplyAffordance(ctx)
	if err != nil {
		return a.exception(result, fmt.Errorf("probe apply affordance: %w", err))
	}
	if !clicked {
		a.logger.Info("no apply affordance found, skipping",
			zap.String("job_url", jobURL),
			zap.String("hint", "external application flow or already applied"),
		)
		result.Outcome = OutcomeSkipped
		return result
	}
	a.pause(ctx)

	for step := 1; step <= maxSteps; step++ {
		result.Steps = step
		a.logger.Debug("form step", zap.Int("step", step))

		a.fillTextFields(ctx)
		a.fillChoiceGroups(ctx)
		a.attachResume(ctx, resumePath)

		done, err := a.trySubmit(ctx, result)
		if err != nil {
			return a.exception(result, err)
		}
		if done {
			return result
		}

		advanced, err := a.advance(ctx)
		if err != nil {
			return a.exception(result, err)
		}
		if !advanced {
			return a.diagnoseStall(ctx, result)
		}

		a.pause(ctx)
	}

	result.Outcome = OutcomeFailedTooManySteps
	result.Detail = fmt.Sprintf("form did not terminate within %d steps", maxSteps)
	a.logger.Warn("step budget exceeded", zap.String("job_url", jobURL), zap.Int("max_steps", maxSteps))
	return result
}

// clickApplyAffordance walks the descriptor list in priority order and clicks
// the first visible match.
func (a *Applicator) clickApplyAffordance(ctx context.Context) (bool, error) {
	for _, affordance := range applyAffordances {
		visible, err := a.page.Visible(ctx, affordance.Selector)
		if err != nil {
			return false, fmt.Errorf("%s: %w", affordance.Name, err)
		}
		if !visible {
			continue
		}

		a.logger.Info("clicking apply affordance", zap.String("affordance", affordance.Name))
		if err := a.page.Click(ctx, affordance.Selector); err != nil {
			return false, fmt.Errorf("click %s: %w", affordance.Name, err)
		}
		return true, nil
	}

	return false, nil
}

// fillTextFields fills every visible, empty text-like input whose label
// contains a profile keyword. Already-filled fields are left untouched, so
// running the fill twice never alters a value. Per-field faults are collected
// and logged in aggregate; they never abort the step.
func (a *Applicator) fillTextFields(ctx context.Context) {
	fields, err := a.page.TextFields(ctx)
	if err != nil {
		a.logger.Warn("scanning text fields failed", zap.Error(err))
		return
	}

	var faults []error
	filled := 0
	for _, field := range fields {
		if !field.Visible || field.Value != "" {
			continue
		}

		value, ok := profile.Match(a.profile, field.Label)
		if !ok {
			continue
		}

		if err := a.page.FillField(ctx, field.Ref, value); err != nil {
			faults = append(faults, fmt.Errorf("field %q: %w", field.Label, err))
			continue
		}
		filled++
	}

	if filled > 0 {
		a.logger.Debug("filled text fields", zap.Int("count", filled))
	}
	if len(faults) > 0 {
		a.logger.Warn("some text fields could not be filled",
			zap.Int("failed", len(faults)),
			zap.Error(errors.Join(faults...)),
		)
	}
}

// fillChoiceGroups answers radio groups whose visible text contains a known
// question fragment by clicking the option labeled with the mapped token.
func (a *Applicator) fillChoiceGroups(ctx context.Context) {
	groups, err := a.page.ChoiceGroups(ctx)
	if err != nil {
		a.logger.Warn("scanning choice groups failed", zap.Error(err))
		return
	}

	var faults []error
	answered := 0
	for _, group := range groups {
		answer, ok := profile.Match(a.answers, group.Text)
		if !ok {
			continue
		}
		if !hasOption(group.Options, answer) {
			continue
		}

		if err := a.page.SelectOption(ctx, group.Ref, answer); err != nil {
			faults = append(faults, fmt.Errorf("group %q: %w", utils.TruncateForLog(group.Text, 60), err))
			continue
		}
		answered++
	}

	if answered > 0 {
		a.logger.Debug("answered choice groups", zap.Int("count", answered))
	}
	if len(faults) > 0 {
		a.logger.Warn("some choice groups could not be answered",
			zap.Int("failed", len(faults)),
			zap.Error(errors.Join(faults...)),
		)
	}
}

// attachResume uploads the resume when an empty file input is present.
// Best effort: a failed upload is logged and the step continues, since many
// forms carry the resume over from the profile anyway.
func (a *Applicator) attachResume(ctx context.Context, resumePath string) {
	empty, err := a.page.EmptyFileInput(ctx)
	if err != nil {
		a.logger.Warn("checking file input failed", zap.Error(err))
		return
	}
	if !empty {
		return
	}

	a.logger.Info("uploading resume", zap.String("resume_path", resumePath))
	if err := a.page.UploadFile(ctx, resumePath); err != nil {
		a.logger.Warn("resume upload failed", zap.Error(err))
	}
}

// trySubmit finishes the attempt when the submit affordance is visible.
// Under dry-run the click is skipped but the outcome is still Success, so the
// whole flow can be validated without sending real applications.
func (a *Applicator) trySubmit(ctx context.Context, result *Result) (bool, error) {
	visible, err := a.page.Visible(ctx, submitSelector)
	if err != nil {
		return false, fmt.Errorf("probe submit: %w", err)
	}
	if !visible {
		return false, nil
	}

	if a.dryRun {
		a.logger.Info("dry run: submit skipped", zap.String("job_url", result.JobURL))
		result.Outcome = OutcomeSuccess
		result.Detail = "dry run"
		return true, nil
	}

	a.logger.Info("submitting application", zap.String("job_url", result.JobURL))
	if err := a.page.Click(ctx, submitSelector); err != nil {
		result.Outcome = OutcomeFailedSubmit
		result.Detail = fmt.Sprintf("submit click: %v", err)
		a.logger.Error("submit failed", zap.Error(err))
		return true, nil
	}
	a.pause(ctx)

	result.Outcome = OutcomeSuccess
	return true, nil
}

// advance clicks Next, or Review when Next is absent.
func (a *Applicator) advance(ctx context.Context) (bool, error) {
	for _, selector := range []string{nextSelector, reviewSelector} {
		visible, err := a.page.Visible(ctx, selector)
		if err != nil {
			return false, fmt.Errorf("probe progression: %w", err)
		}
		if !visible {
			continue
		}
		if err := a.page.Click(ctx, selector); err != nil {
			return false, fmt.Errorf("click progression: %w", err)
		}
		return true, nil
	}
	return false, nil
}

// diagnoseStall distinguishes "the site flagged a required field" from
// "nothing left to click".
func (a *Applicator) diagnoseStall(ctx context.Context, result *Result) *Result {
	visible, err := a.page.Visible(ctx, formErrorSelector)
	if err != nil {
		return a.exception(result, fmt.Errorf("probe form error: %w", err))
	}

	if visible {
		result.Outcome = OutcomeFailedFormError
		result.Detail = "site reported a required-field error"
		a.logger.Warn("form validation error", zap.String("job_url", result.JobURL))
		return result
	}

	result.Outcome = OutcomeFailedStuck
	result.Detail = "no submit, next or review affordance found"
	a.logger.Warn("stuck: no actionable control", zap.String("job_url", result.JobURL))
	return result
}

func (a *Applicator) exception(result *Result, err error) *Result {
	result.Outcome = OutcomeFailedException
	result.Detail = err.Error()
	a.logger.Error("application attempt failed",
		zap.String("job_url", result.JobURL),
		zap.Error(err),
	)
	return result
}

func (a *Applicator) pause(ctx context.Context) {
	// Context cancellation between jobs is the caller's concern; mid-step the
	// pause just ends early.
	_ = utils.WaitFor(ctx, a.settle)
}

func hasOption(options []string, label string) bool {
	for _, option := range options {
		if option == label {
			return true
		}
	}
	return false
}
