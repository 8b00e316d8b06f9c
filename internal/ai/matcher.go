package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Mithurn/JOB-EZ/internal/resume"
)

// ErrNoResumes is returned when a selection is requested with an empty
// candidate set. It is the only matcher fault surfaced to the caller; every
// other fault degrades to the deterministic fallback result.
var ErrNoResumes = errors.New("no resumes available for matching")

// MatchResult is the validated outcome of one resume-selection call.
// SelectedResume is always a filename present in the evaluated collection,
// Confidence is in [0, 1] and MatchScore in [0, 100].
type MatchResult struct {
	SelectedResume string   `mapstructure:"selected_resume"`
	Confidence     float64  `mapstructure:"confidence"`
	MatchScore     int      `mapstructure:"match_score"`
	Reasoning      string   `mapstructure:"reasoning"`
	KeyMatches     []string `mapstructure:"key_matches"`
}

// JobInfo is best-effort structured data pulled out of a job description.
// It is informational only and never gates the apply decision.
type JobInfo struct {
	Company         string   `mapstructure:"company"`
	Location        string   `mapstructure:"location"`
	ExperienceLevel string   `mapstructure:"experience_level"`
	KeySkills       []string `mapstructure:"key_skills"`
}

// NeutralJobInfo is what ExtractJobInfo falls back to on any fault.
func NeutralJobInfo() *JobInfo {
	return &JobInfo{
		Company:         "Unknown",
		Location:        "Not specified",
		ExperienceLevel: "Not specified",
		KeySkills:       []string{},
	}
}

// Selector picks the best-matching resume for a job description.
type Selector interface {
	SelectBestResume(ctx context.Context, jobDescription, jobTitle string, resumes *resume.Collection) (*MatchResult, error)
	ExtractJobInfo(ctx context.Context, jobDescription string) *JobInfo
}

// GatePolicy holds the thresholds and phrase blocklist for the apply gate.
type GatePolicy struct {
	MinConfidence float64
	MinMatchScore int
	RedFlags      []string
}

// DefaultRedFlags are job-description phrases that always reject, regardless
// of how well a resume matches.
func DefaultRedFlags() []string {
	return []string{"commission only", "pay to apply"}
}

// ShouldApply decides whether a job is worth applying to. It is a pure
// function of its inputs: thresholds are checked in order (confidence, then
// score), then the description is scanned for red-flag phrases
// case-insensitively. The returned reason describes the first rejection,
// or is empty on approval.
func ShouldApply(jobDescription string, result *MatchResult, policy GatePolicy) (bool, string) {
	if result == nil {
		return false, "no match result"
	}

	if result.Confidence < policy.MinConfidence {
		return false, fmt.Sprintf("confidence %.2f below threshold %.2f", result.Confidence, policy.MinConfidence)
	}

	if result.MatchScore < policy.MinMatchScore {
		return false, fmt.Sprintf("match score %d below threshold %d", result.MatchScore, policy.MinMatchScore)
	}

	description := strings.ToLower(jobDescription)
	for _, flag := range policy.RedFlags {
		flag = strings.ToLower(strings.TrimSpace(flag))
		if flag == "" {
			continue
		}
		if strings.Contains(description, flag) {
			return false, fmt.Sprintf("red flag phrase %q found in description", flag)
		}
	}

	return true, ""
}
