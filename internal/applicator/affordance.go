package applicator

// Affordance is one probe in the ordered apply-button search. The target
// site's markup varies between layouts, so the search walks a prioritized
// descriptor list and stops at the first visible match.
type Affordance struct {
	Name     string
	Selector string
}

// applyAffordances covers the known apply-button variants, buttons first,
// then links, then text-bearing fallbacks. Order matters.
var applyAffordances = []Affordance{
	{Name: "apply button class", Selector: "button.jobs-apply-button"},
	{Name: "apply button aria", Selector: "button[aria-label*='Easy Apply']"},
	{Name: "apply button text", Selector: "//button[contains(., 'Easy Apply')]"},
	{Name: "apply link aria", Selector: "a[aria-label*='Easy Apply']"},
	{Name: "apply link text", Selector: "//a[contains(., 'Easy Apply')]"},
	{Name: "apply link data attr", Selector: "a[data-view-name='job-apply-button']"},
	{Name: "apply any aria", Selector: "*[aria-label*='Easy Apply']"},
	{Name: "apply any text", Selector: "//*[contains(., 'Easy Apply')]"},
}

const (
	submitSelector    = "button[aria-label='Submit application']"
	nextSelector      = "button[aria-label='Next']"
	reviewSelector    = "button[aria-label='Review']"
	formErrorSelector = ".artdeco-inline-feedback__message"
)
