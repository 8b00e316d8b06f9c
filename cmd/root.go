package cmd

import (
	"log"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "job-ez"

	defaultDataDir = "data"
)

// Config is the root configuration, read from job-ez.yaml.
type Config struct {
	DataDir string `mapstructure:"data-dir"`
	Jobs    []*JobEntry
	Browser *BrowserConfig
	Apply   *ApplyConfig
	// Profile maps field keywords to the values typed into matching inputs.
	Profile map[string]string
	// Answers maps question fragments to Yes/No tokens for radio groups.
	Answers map[string]string
	AI      *AIConfig `mapstructure:"ai"`
}

// JobEntry is one target posting.
type JobEntry struct {
	URL   string
	Title string
}

type BrowserConfig struct {
	Headless bool
}

type ApplyConfig struct {
	DryRun        bool     `mapstructure:"dry-run"`
	AutoApprove   bool     `mapstructure:"auto-aprove"`
	MinConfidence float64  `mapstructure:"min-confidence"`
	MinMatchScore int      `mapstructure:"min-match-score"`
	RedFlags      []string `mapstructure:"red-flags"`
}

type AIConfig struct {
	Gemini *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

// ResumesDir is where candidate documents (and their sidecar text) live.
func (c *Config) ResumesDir() string {
	return filepath.Join(c.dataDir(), "resumes")
}

// ChromeProfileDir is the persistent browser profile holding the login.
func (c *Config) ChromeProfileDir() string {
	return filepath.Join(c.dataDir(), "chrome_profile")
}

// HistoryPath is the attempt-history database location.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.dataDir(), "history.db")
}

func (c *Config) dataDir() string {
	if dir := strings.TrimSpace(c.DataDir); dir != "" {
		return dir
	}
	return defaultDataDir
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "job-ez picks the best-matching resume for a job posting and walks the application form for you",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is job-ez.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Local .env carries the Gemini key during development.
	_ = godotenv.Load()

	// Config is needed only for the run command.
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
