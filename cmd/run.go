package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Mithurn/JOB-EZ/internal/ai"
	"github.com/Mithurn/JOB-EZ/internal/ai/gemini"
	"github.com/Mithurn/JOB-EZ/internal/applicator"
	"github.com/Mithurn/JOB-EZ/internal/browser"
	"github.com/Mithurn/JOB-EZ/internal/gate"
	"github.com/Mithurn/JOB-EZ/internal/history"
	"github.com/Mithurn/JOB-EZ/internal/jobpage"
	"github.com/Mithurn/JOB-EZ/internal/logger"
	"github.com/Mithurn/JOB-EZ/internal/resume"
	"github.com/Mithurn/JOB-EZ/internal/secrets"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"

	defaultMinConfidence = 0.6
	defaultMinMatchScore = 60
)

var errDeclined = errors.New("declined at prompt")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate the configured job postings and apply to the approved ones",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("dry-run", "n", false, "walk the full application flow but never click submit")
	runCmd.Flags().BoolP("auto-aprove", "y", false, "do not ask for confirmation before applying")

	viper.BindPFlag("apply.dry-run", runCmd.Flags().Lookup("dry-run"))
	viper.BindPFlag("apply.auto-aprove", runCmd.Flags().Lookup("auto-aprove"))
}

// run is the main command for the cli: one job at a time, end to end.
func run(_ *cobra.Command) {
	ctx := context.Background()

	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zlog.Fatal("getting a config", zap.Error(err))
	}

	zlog.Info("starting job-ez", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	zlog.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		zlog.Fatal("config is required")
	}

	if len(config.Jobs) == 0 {
		zlog.Fatal("at least one job url is required under the jobs section")
	}

	apiKey, err := resolveGeminiKey(config)
	if err != nil {
		zlog.Fatal(
			"loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY (a .env file works) or the ai.gemini.api-key-file key in the configuration file"),
		)
	}

	resumes, err := resume.LoadDir(config.ResumesDir())
	if err != nil {
		zlog.Fatal("loading resumes", zap.Error(err))
	}
	if resumes.Len() == 0 {
		zlog.Fatal("no resumes found",
			zap.String("resumes_dir", config.ResumesDir()),
			zap.String("hint", "drop documents with sidecar .txt extracts into the resumes directory"),
		)
	}

	zlog.Info("loaded resumes", zap.Int("count", resumes.Len()), zap.Strings("filenames", resumes.Filenames()))

	store, err := history.New(config.HistoryPath())
	if err != nil {
		zlog.Fatal("opening history store", zap.Error(err))
	}
	defer store.Close()

	model := ""
	maxLogLen := 0
	if config.AI != nil && config.AI.Gemini != nil {
		model = config.AI.Gemini.Model
		maxLogLen = config.AI.Gemini.MaxLogLength
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, model)
	if err != nil {
		zlog.Fatal("creating gemini generator", zap.Error(err))
	}

	engine := gemini.NewEngine(generator, logger.WithCommonFields(zlog, "gemini", generator.Model()), maxLogLen)

	headless := false
	if config.Browser != nil {
		headless = config.Browser.Headless
	}

	session, err := browser.NewSession(ctx, browser.Options{
		ProfileDir: config.ChromeProfileDir(),
		Headless:   headless,
	}, zlog)
	if err != nil {
		zlog.Fatal("starting browser session", zap.Error(err))
	}
	defer session.Close()

	applyCfg := config.Apply
	if applyCfg == nil {
		applyCfg = &ApplyConfig{}
	}

	applier := applicator.New(session, applicator.Options{
		Profile: config.Profile,
		Answers: config.Answers,
		DryRun:  viper.GetBool("apply.dry-run"),
	}, zlog)

	gates := []gate.Gate{
		gate.NewHistory(store),
		gate.NewMatch(gatePolicy(applyCfg)),
	}

	autoApprove := viper.GetBool("apply.auto-aprove")

	succeeded := 0
	for _, job := range config.Jobs {
		result, err := processJob(ctx, zlog, session, engine, applier, gates, store, resumes, job, autoApprove)
		if err != nil {
			if errors.Is(err, errDeclined) {
				zlog.Info("job skipped", zap.String("job_url", job.URL), zap.String("reason", err.Error()))
				continue
			}
			zlog.Error("job processing failed", zap.String("job_url", job.URL), zap.Error(err))
			continue
		}

		if result != nil && result.Outcome == applicator.OutcomeSuccess {
			succeeded++
		}
	}

	zlog.Info("finished", zap.Int("jobs", len(config.Jobs)), zap.Int("applied", succeeded))
}

// processJob runs the full pipeline for one posting: extract, match, gate,
// confirm, apply, record. A nil result means the job never reached the
// applicator (gate-rejected or declined).
func processJob(
	ctx context.Context,
	zlog *zap.Logger,
	session *browser.Session,
	engine *gemini.Engine,
	applier *applicator.Applicator,
	gates []gate.Gate,
	store *history.Store,
	resumes *resume.Collection,
	job *JobEntry,
	autoApprove bool,
) (*applicator.Result, error) {
	zlog.Info("processing job", zap.String("job_url", job.URL))

	if err := session.Navigate(ctx, job.URL); err != nil {
		return nil, fmt.Errorf("navigate to posting: %w", err)
	}

	html, err := session.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("read posting page: %w", err)
	}

	posting, err := jobpage.Parse(html)
	if err != nil {
		return nil, fmt.Errorf("extract posting: %w", err)
	}

	title := strings.TrimSpace(job.Title)
	if title == "" {
		title = posting.Title
	}

	info := engine.ExtractJobInfo(ctx, posting.Description)
	zlog.Info("job details",
		zap.String("title", title),
		zap.String("company", info.Company),
		zap.String("location", info.Location),
		zap.String("experience_level", info.ExperienceLevel),
		zap.Strings("key_skills", info.KeySkills),
	)

	match, err := engine.SelectBestResume(ctx, posting.Description, title, resumes)
	if err != nil {
		return nil, fmt.Errorf("select resume: %w", err)
	}

	approved, reason := gate.Run(ctx, zlog, gates, &gate.Job{
		URL:         job.URL,
		Title:       title,
		Description: posting.Description,
		Match:       match,
	})
	if !approved {
		recordAttempt(zlog, store, job.URL, match.SelectedResume, "rejected", reason)
		return nil, nil
	}

	if !autoApprove {
		if err := confirmApply(title, match); err != nil {
			return nil, err
		}
	}

	selected := resumes.Find(match.SelectedResume)
	if selected == nil {
		// SelectBestResume guarantees a valid key; this is a programming error.
		return nil, fmt.Errorf("selected resume %q is not in the collection", match.SelectedResume)
	}

	result := applier.ApplyToJob(ctx, job.URL, selected.Path)
	result.Resume = selected.Filename

	recordAttempt(zlog, store, job.URL, selected.Filename, string(result.Outcome), result.Detail)

	zlog.Info("job attempt finished",
		zap.String("job_url", job.URL),
		zap.String("resume", selected.Filename),
		zap.String("outcome", string(result.Outcome)),
		zap.String("detail", result.Detail),
		zap.Int("steps", result.Steps),
	)

	return result, nil
}

func confirmApply(title string, match *ai.MatchResult) error {
	prompt := promptui.Select{
		Label: fmt.Sprintf("Apply to %q with %s (score %d, confidence %.0f%%)?",
			title, match.SelectedResume, match.MatchScore, match.Confidence*100),
		Items: []string{PromptYes, PromptNo},
	}

	_, action, err := prompt.Run()
	if err != nil {
		return fmt.Errorf("confirmation prompt: %w", err)
	}
	if action != PromptYes {
		return errDeclined
	}

	return nil
}

func recordAttempt(zlog *zap.Logger, store *history.Store, jobURL, resumeName, outcome, detail string) {
	err := store.Record(history.Attempt{
		JobURL:  jobURL,
		Resume:  resumeName,
		Outcome: outcome,
		Detail:  detail,
	})
	if err != nil {
		zlog.Warn("recording attempt failed", zap.String("job_url", jobURL), zap.Error(err))
	}
}

func gatePolicy(cfg *ApplyConfig) ai.GatePolicy {
	policy := ai.GatePolicy{
		MinConfidence: cfg.MinConfidence,
		MinMatchScore: cfg.MinMatchScore,
		RedFlags:      cfg.RedFlags,
	}

	if policy.MinConfidence <= 0 {
		policy.MinConfidence = defaultMinConfidence
	}
	if policy.MinMatchScore <= 0 {
		policy.MinMatchScore = defaultMinMatchScore
	}
	if len(policy.RedFlags) == 0 {
		policy.RedFlags = ai.DefaultRedFlags()
	}

	return policy
}

func resolveGeminiKey(config *Config) (string, error) {
	keyFile := ""
	if config.AI != nil && config.AI.Gemini != nil {
		keyFile = strings.TrimSpace(config.AI.Gemini.APIKeyFile)
	}

	return secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: keyFile,
		Env:  "GEMINI_API_KEY",
	})
}
