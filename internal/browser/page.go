package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/Mithurn/JOB-EZ/internal/applicator"
)

// The page primitives resolve selectors in JS so CSS and XPath probes share
// one code path. Enumeration passes tag elements with data-jobez-* attributes
// so later fill/click calls can target them without re-matching.

const resolveJS = `
function __jobezResolve(sel) {
	if (sel.startsWith('//')) {
		return document.evaluate(sel, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
	}
	return document.querySelector(sel);
}
function __jobezVisible(el) {
	if (!el) return false;
	const rect = el.getBoundingClientRect();
	const style = window.getComputedStyle(el);
	return rect.width > 0 && rect.height > 0 && style.visibility !== 'hidden' && style.display !== 'none';
}
`

// Visible reports whether the selector resolves to a visible element.
func (s *Session) Visible(ctx context.Context, selector string) (bool, error) {
	script := resolveJS + fmt.Sprintf(`__jobezVisible(__jobezResolve(%s));`, jsString(selector))

	var visible bool
	if err := s.run(ctx, s.actionTimeout, chromedp.Evaluate(script, &visible)); err != nil {
		return false, fmt.Errorf("probe %q: %w", selector, err)
	}
	return visible, nil
}

// Click triggers the element behind the selector.
func (s *Session) Click(ctx context.Context, selector string) error {
	script := resolveJS + fmt.Sprintf(`(function() {
		const el = __jobezResolve(%s);
		if (!__jobezVisible(el)) return false;
		el.click();
		return true;
	})();`, jsString(selector))

	var clicked bool
	if err := s.run(ctx, s.actionTimeout, chromedp.Evaluate(script, &clicked)); err != nil {
		return fmt.Errorf("click %q: %w", selector, err)
	}
	if !clicked {
		return fmt.Errorf("click %q: element not visible", selector)
	}
	return nil
}

const textFieldsJS = resolveJS + `
(function() {
	const inputs = document.querySelectorAll("input[type='text'], input[type='email'], input[type='tel']");
	const fields = [];
	inputs.forEach(function(input, i) {
		const ref = 'f' + i;
		input.setAttribute('data-jobez-ref', ref);
		let label = '';
		if (input.id) {
			const forLabel = document.querySelector("label[for='" + CSS.escape(input.id) + "']");
			if (forLabel) label = forLabel.innerText.trim();
		}
		fields.push({
			ref: ref,
			label: label,
			value: input.value || '',
			visible: __jobezVisible(input),
		});
	});
	return fields;
})();
`

// TextFields enumerates text, email and phone inputs with their labels.
func (s *Session) TextFields(ctx context.Context) ([]applicator.TextField, error) {
	var raw []struct {
		Ref     string `json:"ref"`
		Label   string `json:"label"`
		Value   string `json:"value"`
		Visible bool   `json:"visible"`
	}
	if err := s.run(ctx, s.actionTimeout, chromedp.Evaluate(textFieldsJS, &raw)); err != nil {
		return nil, fmt.Errorf("enumerate text fields: %w", err)
	}

	fields := make([]applicator.TextField, 0, len(raw))
	for _, field := range raw {
		fields = append(fields, applicator.TextField{
			Ref:     field.Ref,
			Label:   field.Label,
			Value:   field.Value,
			Visible: field.Visible,
		})
	}
	return fields, nil
}

// FillField types value into the field tagged with ref.
func (s *Session) FillField(ctx context.Context, ref, value string) error {
	selector := fmt.Sprintf(`input[data-jobez-ref=%q]`, ref)
	if err := s.run(ctx, s.actionTimeout, chromedp.SendKeys(selector, value, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("fill field %s: %w", ref, err)
	}
	return nil
}

const choiceGroupsJS = resolveJS + `
(function() {
	const groups = [];
	document.querySelectorAll('fieldset').forEach(function(fieldset, i) {
		const ref = 'g' + i;
		fieldset.setAttribute('data-jobez-group', ref);
		const options = [];
		fieldset.querySelectorAll('label').forEach(function(label) {
			options.push(label.innerText.trim());
		});
		groups.push({
			ref: ref,
			text: fieldset.innerText || '',
			options: options,
		});
	});
	return groups;
})();
`

// ChoiceGroups enumerates the radio/boolean fieldsets on the page.
func (s *Session) ChoiceGroups(ctx context.Context) ([]applicator.ChoiceGroup, error) {
	var raw []struct {
		Ref     string   `json:"ref"`
		Text    string   `json:"text"`
		Options []string `json:"options"`
	}
	if err := s.run(ctx, s.actionTimeout, chromedp.Evaluate(choiceGroupsJS, &raw)); err != nil {
		return nil, fmt.Errorf("enumerate choice groups: %w", err)
	}

	groups := make([]applicator.ChoiceGroup, 0, len(raw))
	for _, group := range raw {
		groups = append(groups, applicator.ChoiceGroup{
			Ref:     group.Ref,
			Text:    group.Text,
			Options: group.Options,
		})
	}
	return groups, nil
}

// SelectOption clicks the option with the given visible label inside the
// group tagged with ref.
func (s *Session) SelectOption(ctx context.Context, ref, label string) error {
	script := resolveJS + fmt.Sprintf(`(function() {
		const group = document.querySelector('fieldset[data-jobez-group=' + JSON.stringify(%s) + ']');
		if (!group) return false;
		const labels = group.querySelectorAll('label');
		for (const option of labels) {
			if (option.innerText.trim() === %s && __jobezVisible(option)) {
				option.click();
				return true;
			}
		}
		return false;
	})();`, jsString(ref), jsString(label))

	var selected bool
	if err := s.run(ctx, s.actionTimeout, chromedp.Evaluate(script, &selected)); err != nil {
		return fmt.Errorf("select option %q in %s: %w", label, ref, err)
	}
	if !selected {
		return fmt.Errorf("select option %q in %s: no matching visible label", label, ref)
	}
	return nil
}

const emptyUploadSelector = `input[type="file"][data-jobez-upload="1"]`

const emptyFileInputJS = resolveJS + `
(function() {
	const inputs = document.querySelectorAll("input[type='file']");
	for (const input of inputs) {
		if (input.files && input.files.length === 0) {
			input.setAttribute('data-jobez-upload', '1');
			return true;
		}
		input.removeAttribute('data-jobez-upload');
	}
	return false;
})();
`

// EmptyFileInput reports whether an upload control without a chosen file is
// present, tagging it for the following UploadFile call.
func (s *Session) EmptyFileInput(ctx context.Context) (bool, error) {
	var found bool
	if err := s.run(ctx, s.actionTimeout, chromedp.Evaluate(emptyFileInputJS, &found)); err != nil {
		return false, fmt.Errorf("probe file input: %w", err)
	}
	return found, nil
}

// UploadFile attaches the document at path to the tagged file input.
func (s *Session) UploadFile(ctx context.Context, path string) error {
	if err := s.run(ctx, s.actionTimeout, chromedp.SetUploadFiles(emptyUploadSelector, []string{path}, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("upload %q: %w", path, err)
	}
	return nil
}

// jsString encodes s as a JS string literal.
func jsString(s string) string {
	encoded, _ := json.Marshal(s)
	return string(encoded)
}
