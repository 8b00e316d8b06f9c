package gemini

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/Mithurn/JOB-EZ/internal/ai"
	"github.com/Mithurn/JOB-EZ/internal/resume"
)

// extractJSONObject returns the first balanced JSON object found in raw.
// Models wrap responses in markdown fences or add prose around the payload,
// so a plain json.Unmarshal of the whole response is too strict.
func extractJSONObject(raw string) (string, error) {
	start := strings.IndexByte(raw, '{')
	if start == -1 {
		return "", fmt.Errorf("no JSON object in response")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("unbalanced JSON object in response")
}

// decodeObject extracts and unmarshals the first JSON object from raw into a
// generic map. This is the tolerant half of response handling; validation of
// the decoded fields is a separate, strict step.
func decodeObject(raw string) (map[string]any, error) {
	payload, err := extractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("parse response JSON: %w", err)
	}

	return data, nil
}

var requiredMatchFields = []string{"selected_resume", "confidence", "reasoning", "match_score"}

// validateMatchResult decodes the parsed response map into a MatchResult and
// enforces the response contract: all required fields present, the selected
// resume a real member of the collection (with one case-insensitive retry),
// confidence normalized into [0, 1] and match score clamped into [0, 100].
func validateMatchResult(data map[string]any, resumes *resume.Collection) (*ai.MatchResult, error) {
	for _, field := range requiredMatchFields {
		if _, ok := data[field]; !ok {
			return nil, fmt.Errorf("missing required field %q", field)
		}
	}

	var result ai.MatchResult
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &result,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("build result decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode match result: %w", err)
	}

	if resumes.Find(result.SelectedResume) == nil {
		record := resumes.FindFold(result.SelectedResume)
		if record == nil {
			return nil, fmt.Errorf("selected resume %q is not a known filename", result.SelectedResume)
		}
		result.SelectedResume = record.Filename
	}

	// Models sometimes report confidence on a 0-100 scale.
	if result.Confidence > 1.0 {
		result.Confidence /= 100.0
	}
	result.Confidence = clampFloat(result.Confidence, 0.0, 1.0)
	result.MatchScore = clampInt(result.MatchScore, 0, 100)

	if result.KeyMatches == nil {
		result.KeyMatches = []string{}
	}

	return &result, nil
}

// validateJobInfo decodes the extract-job-info response, tolerating missing
// fields since the whole operation is best-effort.
func validateJobInfo(data map[string]any) (*ai.JobInfo, error) {
	info := ai.NeutralJobInfo()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           info,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("build job info decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode job info: %w", err)
	}

	if info.KeySkills == nil {
		info.KeySkills = []string{}
	}

	return info, nil
}

func clampFloat(v, minimum, maximum float64) float64 {
	if math.IsNaN(v) {
		return minimum
	}
	return math.Min(math.Max(v, minimum), maximum)
}

func clampInt(v, minimum, maximum int) int {
	if v < minimum {
		return minimum
	}
	if v > maximum {
		return maximum
	}
	return v
}
