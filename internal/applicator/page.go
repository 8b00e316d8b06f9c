package applicator

import "context"

// TextField is one visible text-like input discovered on the current form
// step. Ref is an opaque handle the page implementation resolves back to the
// concrete element.
type TextField struct {
	Ref     string
	Label   string
	Value   string
	Visible bool
}

// ChoiceGroup is one group of related boolean/choice inputs (a fieldset of
// radio buttons) with its visible text and option labels.
type ChoiceGroup struct {
	Ref     string
	Text    string
	Options []string
}

// Page is the minimal browser surface the applicator drives. The production
// implementation lives in internal/browser; tests substitute a fake.
type Page interface {
	// Navigate loads the URL and waits for the document to be ready.
	Navigate(ctx context.Context, url string) error
	// Visible reports whether the selector matches a visible element.
	// Selectors starting with "//" are XPath, everything else is CSS.
	Visible(ctx context.Context, selector string) (bool, error)
	// Click triggers the first visible element matching the selector.
	Click(ctx context.Context, selector string) error
	// TextFields enumerates the text, email and phone inputs on the page.
	TextFields(ctx context.Context) ([]TextField, error)
	// FillField types value into the field identified by ref.
	FillField(ctx context.Context, ref, value string) error
	// ChoiceGroups enumerates the radio/boolean groups on the page.
	ChoiceGroups(ctx context.Context) ([]ChoiceGroup, error)
	// SelectOption clicks the option with the given visible label inside the
	// group identified by ref.
	SelectOption(ctx context.Context, ref, label string) error
	// EmptyFileInput reports whether a file-upload control without a chosen
	// file is present.
	EmptyFileInput(ctx context.Context) (bool, error)
	// UploadFile attaches the document at path to the empty file input.
	UploadFile(ctx context.Context, path string) error
}
