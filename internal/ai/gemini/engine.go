package gemini

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/Mithurn/JOB-EZ/internal/ai"
	"github.com/Mithurn/JOB-EZ/internal/resume"
	"github.com/Mithurn/JOB-EZ/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Prompt budgets keep one selection call inside a predictable token envelope.
const (
	maxDescriptionChars = 3000
	maxResumeWords      = 800
	jobInfoBudgetChars  = 2000

	fallbackConfidence = 0.5
	fallbackMatchScore = 50

	defaultMaxLogLength = 200
)

//go:embed prompt.md
var matchPromptTemplate string

//go:embed jobinfo_prompt.md
var jobInfoPromptTemplate string

// Engine is the resume-selection decision engine. One model call per job, no
// retries: a single fault falls back to the deterministic first-resume pick so
// the pipeline never stalls on a flaky model.
type Engine struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewEngine(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Engine {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// SelectBestResume asks the model to pick the strongest resume for the job
// description. The returned result always references a filename present in
// resumes. The only error is ai.ErrNoResumes; model and parsing faults are
// absorbed into the fallback result.
func (e *Engine) SelectBestResume(ctx context.Context, jobDescription, jobTitle string, resumes *resume.Collection) (*ai.MatchResult, error) {
	if resumes.Len() == 0 {
		return nil, ai.ErrNoResumes
	}

	prompt := buildMatchPrompt(jobDescription, jobTitle, resumes)

	e.logger.Debug("resume selection request",
		zap.String("job_title", jobTitle),
		zap.Int("candidates", resumes.Len()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		e.logger.Warn("model call failed, using fallback selection", zap.Error(err))
		return e.fallbackSelection(resumes), nil
	}

	e.logger.Debug("resume selection response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	data, err := decodeObject(raw)
	if err != nil {
		e.logger.Warn("model response is not parseable, using fallback selection",
			zap.Error(err),
			zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
		)
		return e.fallbackSelection(resumes), nil
	}

	result, err := validateMatchResult(data, resumes)
	if err != nil {
		e.logger.Warn("model response failed validation, using fallback selection", zap.Error(err))
		return e.fallbackSelection(resumes), nil
	}

	e.logger.Info("resume selected",
		zap.String("selected_resume", result.SelectedResume),
		zap.Float64("confidence", result.Confidence),
		zap.Int("match_score", result.MatchScore),
	)

	return result, nil
}

// ExtractJobInfo pulls structured info out of a job description. It never
// fails: any fault yields the neutral default record.
func (e *Engine) ExtractJobInfo(ctx context.Context, jobDescription string) *ai.JobInfo {
	prompt := strings.ReplaceAll(jobInfoPromptTemplate, "{{JOB_DESCRIPTION}}", truncateChars(jobDescription, jobInfoBudgetChars))

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		e.logger.Debug("job info extraction failed", zap.Error(err))
		return ai.NeutralJobInfo()
	}

	data, err := decodeObject(raw)
	if err != nil {
		e.logger.Debug("job info response is not parseable", zap.Error(err))
		return ai.NeutralJobInfo()
	}

	info, err := validateJobInfo(data)
	if err != nil {
		e.logger.Debug("job info response failed decoding", zap.Error(err))
		return ai.NeutralJobInfo()
	}

	return info
}

func (e *Engine) fallbackSelection(resumes *resume.Collection) *ai.MatchResult {
	first := resumes.First()

	e.logger.Info("fallback resume selection",
		zap.String("selected_resume", first.Filename),
	)

	return &ai.MatchResult{
		SelectedResume: first.Filename,
		Confidence:     fallbackConfidence,
		MatchScore:     fallbackMatchScore,
		Reasoning:      "Fallback selection due to LLM error",
		KeyMatches:     []string{},
	}
}

func buildMatchPrompt(jobDescription, jobTitle string, resumes *resume.Collection) string {
	jobContext := ""
	if jobTitle = strings.TrimSpace(jobTitle); jobTitle != "" {
		jobContext = fmt.Sprintf("Job Title: %s\n\n", jobTitle)
	}

	var sections strings.Builder
	for _, record := range resumes.Items {
		sections.WriteString(fmt.Sprintf("\n\n=== %s ===\n%s\n", record.Filename, truncateWords(record.Text, maxResumeWords)))
	}

	prompt := strings.ReplaceAll(matchPromptTemplate, "{{JOB_CONTEXT}}", jobContext)
	prompt = strings.ReplaceAll(prompt, "{{JOB_DESCRIPTION}}", truncateChars(jobDescription, maxDescriptionChars))
	prompt = strings.ReplaceAll(prompt, "{{RESUME_SECTIONS}}", sections.String())

	return prompt
}

// truncateChars cuts on a rune boundary so a budget never splits a multi-byte
// character into invalid UTF-8.
func truncateChars(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func truncateWords(s string, limit int) string {
	words := strings.Fields(s)
	if len(words) <= limit {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:limit], " ")
}
