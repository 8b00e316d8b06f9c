package applicator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Mithurn/JOB-EZ/internal/profile"
)

// fakePage scripts the browser surface. Visibility is looked up per selector;
// every mutation is recorded for assertions.
type fakePage struct {
	navErr      error
	visible     map[string]bool
	clickErr    map[string]error
	fields      []TextField
	groups      []ChoiceGroup
	emptyUpload bool

	clicks   []string
	filled   map[string]string
	selected map[string]string
	uploads  []string
}

func newFakePage() *fakePage {
	return &fakePage{
		visible:  map[string]bool{},
		clickErr: map[string]error{},
		filled:   map[string]string{},
		selected: map[string]string{},
	}
}

func (f *fakePage) Navigate(context.Context, string) error { return f.navErr }

func (f *fakePage) Visible(_ context.Context, selector string) (bool, error) {
	return f.visible[selector], nil
}

func (f *fakePage) Click(_ context.Context, selector string) error {
	if err := f.clickErr[selector]; err != nil {
		return err
	}
	f.clicks = append(f.clicks, selector)
	return nil
}

func (f *fakePage) TextFields(context.Context) ([]TextField, error) { return f.fields, nil }

func (f *fakePage) FillField(_ context.Context, ref, value string) error {
	f.filled[ref] = value
	return nil
}

func (f *fakePage) ChoiceGroups(context.Context) ([]ChoiceGroup, error) { return f.groups, nil }

func (f *fakePage) SelectOption(_ context.Context, ref, label string) error {
	f.selected[ref] = label
	return nil
}

func (f *fakePage) EmptyFileInput(context.Context) (bool, error) { return f.emptyUpload, nil }

func (f *fakePage) UploadFile(_ context.Context, path string) error {
	f.uploads = append(f.uploads, path)
	f.emptyUpload = false
	return nil
}

func newTestApplicator(page Page, opts Options) *Applicator {
	opts.Settle = time.Nanosecond
	return New(page, opts, zap.NewNop())
}

const testApplySelector = "button.jobs-apply-button"

func TestApplyToJobSkippedWithoutAffordance(t *testing.T) {
	page := newFakePage()

	result := newTestApplicator(page, Options{}).ApplyToJob(context.Background(), "https://jobs/1", "r.pdf")

	require.Equal(t, OutcomeSkipped, result.Outcome)
	assert.Empty(t, page.clicks)
	assert.False(t, result.Outcome.Failed())
}

func TestApplyToJobDryRunSubmit(t *testing.T) {
	page := newFakePage()
	page.visible[testApplySelector] = true
	page.visible[submitSelector] = true

	result := newTestApplicator(page, Options{DryRun: true}).ApplyToJob(context.Background(), "https://jobs/1", "r.pdf")

	require.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Equal(t, 1, result.Steps)
	// The apply affordance is clicked, the submit never is.
	assert.Contains(t, page.clicks, testApplySelector)
	assert.NotContains(t, page.clicks, submitSelector)
}

func TestApplyToJobRealSubmit(t *testing.T) {
	page := newFakePage()
	page.visible[testApplySelector] = true
	page.visible[submitSelector] = true

	result := newTestApplicator(page, Options{}).ApplyToJob(context.Background(), "https://jobs/1", "r.pdf")

	require.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Contains(t, page.clicks, submitSelector)
}

func TestApplyToJobSubmitClickFails(t *testing.T) {
	page := newFakePage()
	page.visible[testApplySelector] = true
	page.visible[submitSelector] = true
	page.clickErr[submitSelector] = errors.New("click intercepted")

	result := newTestApplicator(page, Options{}).ApplyToJob(context.Background(), "https://jobs/1", "r.pdf")

	require.Equal(t, OutcomeFailedSubmit, result.Outcome)
	assert.Contains(t, result.Detail, "click intercepted")
}

func TestApplyToJobFormError(t *testing.T) {
	page := newFakePage()
	page.visible[testApplySelector] = true
	page.visible[formErrorSelector] = true

	result := newTestApplicator(page, Options{}).ApplyToJob(context.Background(), "https://jobs/1", "r.pdf")

	require.Equal(t, OutcomeFailedFormError, result.Outcome)
}

func TestApplyToJobStuck(t *testing.T) {
	page := newFakePage()
	page.visible[testApplySelector] = true

	result := newTestApplicator(page, Options{}).ApplyToJob(context.Background(), "https://jobs/1", "r.pdf")

	require.Equal(t, OutcomeFailedStuck, result.Outcome)
	assert.Equal(t, 1, result.Steps)
}

func TestApplyToJobTooManySteps(t *testing.T) {
	page := newFakePage()
	page.visible[testApplySelector] = true
	// Next is always available and submit never appears: an endless form.
	page.visible[nextSelector] = true

	result := newTestApplicator(page, Options{}).ApplyToJob(context.Background(), "https://jobs/1", "r.pdf")

	require.Equal(t, OutcomeFailedTooManySteps, result.Outcome)
	assert.Equal(t, maxSteps, result.Steps)
}

func TestApplyToJobNavigationFault(t *testing.T) {
	page := newFakePage()
	page.navErr = errors.New("net::ERR_NAME_NOT_RESOLVED")

	result := newTestApplicator(page, Options{}).ApplyToJob(context.Background(), "https://jobs/1", "r.pdf")

	require.Equal(t, OutcomeFailedException, result.Outcome)
	assert.Contains(t, result.Detail, "navigate")
}

func TestApplyToJobPrefersNextOverReview(t *testing.T) {
	page := newFakePage()
	page.visible[testApplySelector] = true
	page.visible[nextSelector] = true
	page.visible[reviewSelector] = true

	newTestApplicator(page, Options{}).ApplyToJob(context.Background(), "https://jobs/1", "r.pdf")

	require.NotEmpty(t, page.clicks)
	for _, click := range page.clicks[1:] {
		assert.Equal(t, nextSelector, click)
	}
}

func TestFieldFill(t *testing.T) {
	page := newFakePage()
	page.visible[testApplySelector] = true
	page.fields = []TextField{
		{Ref: "f0", Label: "Email address", Value: "", Visible: true},
		{Ref: "f1", Label: "Phone number", Value: "already-set", Visible: true},
		{Ref: "f2", Label: "Favorite color", Value: "", Visible: true},
		{Ref: "f3", Label: "First name", Value: "", Visible: false},
	}

	opts := Options{
		Profile: profile.Profile{
			"email":      "dev@example.com",
			"phone":      "5550100",
			"first_name": "Dev",
		},
	}
	newTestApplicator(page, opts).ApplyToJob(context.Background(), "https://jobs/1", "r.pdf")

	// Only the visible, empty, recognized field gets filled: the non-empty
	// phone field and the hidden name field stay untouched.
	require.Equal(t, map[string]string{"f0": "dev@example.com"}, page.filled)
}

func TestChoiceGroupFill(t *testing.T) {
	page := newFakePage()
	page.visible[testApplySelector] = true
	page.groups = []ChoiceGroup{
		{Ref: "g0", Text: "Do you require sponsorship to work here?", Options: []string{"Yes", "No"}},
		{Ref: "g1", Text: "Are you willing to relocate?", Options: []string{"Yes", "No"}},
		{Ref: "g2", Text: "How did you hear about us?", Options: []string{"Online", "Referral"}},
	}

	opts := Options{
		Answers: profile.Answers{
			"sponsorship": "No",
			"relocate":    "Yes",
		},
	}
	newTestApplicator(page, opts).ApplyToJob(context.Background(), "https://jobs/1", "r.pdf")

	require.Equal(t, map[string]string{"g0": "No", "g1": "Yes"}, page.selected)
}

func TestChoiceGroupDefaults(t *testing.T) {
	page := newFakePage()
	page.visible[testApplySelector] = true
	page.groups = []ChoiceGroup{
		{Ref: "g0", Text: "Will you now or in the future require sponsorship?", Options: []string{"Yes", "No"}},
		{Ref: "g1", Text: "Are you willing to relocate?", Options: []string{"Yes", "No"}},
	}

	// No answers configured: the stock defaults still answer the groups.
	newTestApplicator(page, Options{}).ApplyToJob(context.Background(), "https://jobs/1", "r.pdf")

	require.Equal(t, map[string]string{"g0": "No", "g1": "Yes"}, page.selected)
}

func TestApplyAffordanceTextFallback(t *testing.T) {
	page := newFakePage()
	catchAll := "//*[contains(., 'Easy Apply')]"
	page.visible[catchAll] = true

	result := newTestApplicator(page, Options{}).ApplyToJob(context.Background(), "https://jobs/1", "r.pdf")

	// The last-resort text probe still counts as an apply affordance.
	require.NotEqual(t, OutcomeSkipped, result.Outcome)
	assert.Contains(t, page.clicks, catchAll)
}

func TestResumeUpload(t *testing.T) {
	page := newFakePage()
	page.visible[testApplySelector] = true
	page.emptyUpload = true

	newTestApplicator(page, Options{}).ApplyToJob(context.Background(), "https://jobs/1", "/data/resumes/r.pdf")

	require.Equal(t, []string{"/data/resumes/r.pdf"}, page.uploads)
}

func TestOutcomeFailed(t *testing.T) {
	failing := []Outcome{
		OutcomeFailedSubmit, OutcomeFailedFormError, OutcomeFailedStuck,
		OutcomeFailedTooManySteps, OutcomeFailedException,
	}
	for _, outcome := range failing {
		assert.True(t, outcome.Failed(), fmt.Sprintf("%s should be a failure", outcome))
	}

	assert.False(t, OutcomeSuccess.Failed())
	assert.False(t, OutcomeSkipped.Failed())
}
