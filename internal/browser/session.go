// Package browser owns the Chrome session: a persistent user profile so the
// authenticated login survives restarts, automation-hiding launch flags, and
// the page primitives the applicator drives.
package browser

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/Mithurn/JOB-EZ/internal/utils"
)

const (
	defaultNavTimeout    = 60 * time.Second
	defaultActionTimeout = 10 * time.Second
	loginPollInterval    = 2 * time.Second
)

// stealthScript patches the navigator surface that job boards probe to detect
// automated sessions. Installed before any page script runs.
const stealthScript = `
Object.defineProperty(navigator, 'webdriver', { get: () => false });
window.chrome = window.chrome || { runtime: {} };
Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
`

// Options configures the browser session.
type Options struct {
	// ProfileDir is the persistent user-data directory. Created if missing.
	ProfileDir string
	Headless   bool
	// NavigationTimeout bounds each page load. Zero means the default (60s).
	NavigationTimeout time.Duration
}

// Session is one live Chrome instance with a single active page. It is owned
// by exactly one applicator at a time; nothing else may mutate page state.
type Session struct {
	ctx           context.Context
	cancel        context.CancelFunc
	allocCancel   context.CancelFunc
	navTimeout    time.Duration
	actionTimeout time.Duration
	logger        *zap.Logger
}

// NewSession launches Chrome with the persistent profile and the stealth
// init script installed. Callers must Close the session.
func NewSession(ctx context.Context, opts Options, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
	)

	if dir := strings.TrimSpace(opts.ProfileDir); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create profile dir %q: %w", dir, err)
		}
		allocOpts = append(allocOpts, chromedp.UserDataDir(dir))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	install := chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
		return err
	})
	if err := chromedp.Run(browserCtx, install); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	navTimeout := opts.NavigationTimeout
	if navTimeout <= 0 {
		navTimeout = defaultNavTimeout
	}

	logger.Info("browser session ready",
		zap.Bool("headless", opts.Headless),
		zap.String("profile_dir", opts.ProfileDir),
	)

	return &Session{
		ctx:           browserCtx,
		cancel:        cancel,
		allocCancel:   allocCancel,
		navTimeout:    navTimeout,
		actionTimeout: defaultActionTimeout,
		logger:        logger,
	}, nil
}

// Navigate loads the URL and waits for the document body to be ready.
func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, s.navTimeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	)
}

// HTML returns the rendered document, for description extraction.
func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, s.actionTimeout, chromedp.OuterHTML("html", &html)); err != nil {
		return "", fmt.Errorf("read page html: %w", err)
	}
	return html, nil
}

// Location returns the current page URL.
func (s *Session) Location(ctx context.Context) (string, error) {
	var url string
	if err := s.run(ctx, s.actionTimeout, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("read location: %w", err)
	}
	return url, nil
}

// WaitForLogin navigates to loginURL and blocks until the browser lands on a
// URL containing marker (the authenticated landing page) or timeout elapses.
// The human completes the login; this just waits for it.
func (s *Session) WaitForLogin(ctx context.Context, loginURL, marker string, timeout time.Duration) error {
	if err := s.Navigate(ctx, loginURL); err != nil {
		return err
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		current, err := s.Location(ctx)
		if err != nil {
			return err
		}
		if strings.Contains(current, marker) {
			s.logger.Info("login detected", zap.String("url", current))
			return nil
		}
		if err := utils.WaitFor(ctx, loginPollInterval); err != nil {
			return err
		}
	}

	return fmt.Errorf("login not completed within %s", timeout)
}

// Close tears down the browser and its allocator.
func (s *Session) Close() {
	s.cancel()
	s.allocCancel()
}

// run executes chromedp actions against the session's browser context with a
// bounded timeout. The caller's context is only consulted for cancellation
// between jobs; chromedp targets require the session context.
func (s *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	return chromedp.Run(runCtx, actions...)
}
