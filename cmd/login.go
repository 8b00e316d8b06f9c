package cmd

import (
	"context"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Mithurn/JOB-EZ/internal/browser"
	"github.com/Mithurn/JOB-EZ/internal/logger"
)

const (
	loginURL    = "https://www.linkedin.com/login"
	loginMarker = "/feed"
	loginWait   = 300 * time.Second
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Open a browser for a one-time manual login, persisted in the chrome profile",
	Run: func(_ *cobra.Command, _ []string) {
		login()
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().String("data-dir", defaultDataDir, "data directory holding the chrome profile")
	viper.BindPFlag("data-dir", loginCmd.Flags().Lookup("data-dir"))
}

func login() {
	ctx := context.Background()

	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config := &Config{DataDir: viper.GetString("data-dir")}

	// Login is always headed; a human has to type the credentials.
	session, err := browser.NewSession(ctx, browser.Options{
		ProfileDir: config.ChromeProfileDir(),
		Headless:   false,
	}, zlog)
	if err != nil {
		zlog.Fatal("starting browser session", zap.Error(err))
	}
	defer session.Close()

	zlog.Info("complete the login in the opened browser window",
		zap.Duration("timeout", loginWait),
	)

	if err := session.WaitForLogin(ctx, loginURL, loginMarker, loginWait); err != nil {
		zlog.Fatal("waiting for login", zap.Error(err))
	}

	zlog.Info("login saved", zap.String("profile_dir", config.ChromeProfileDir()))
}
