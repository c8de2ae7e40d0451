package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/rodstewart/bidctl/internal/api"
	"github.com/rodstewart/bidctl/internal/config"
	"github.com/rodstewart/bidctl/internal/logging"
	"github.com/rodstewart/bidctl/internal/session"
	"github.com/rodstewart/bidctl/internal/store"
)

var (
	cfgFile    string
	jsonOutput bool
	debugMode  bool
	flagURL    string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bidctl",
	Short: "bidctl - Browse public tenders and manage bids from the command line",
	Long: `bidctl is a command-line client for the bidding information portal.

Configure the portal address with 'bidctl config init', log in with 'bidctl login', then use
commands like 'bidctl search', 'bidctl favorites' and 'bidctl bids' to work with tenders.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default ~/.config/bidctl/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON instead of human-readable")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "portal URL (overrides config and env)")
}

// loadConfig loads the configuration from file and environment variables,
// then applies CLI flag overrides if provided.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		// A URL flag alone is enough to run without a config file
		if flagURL == "" {
			return nil, err
		}
		sessionFile, pathErr := config.DefaultSessionPath()
		if pathErr != nil {
			return nil, pathErr
		}
		if env := os.Getenv("BIDCTL_SESSION_FILE"); env != "" {
			sessionFile = env
		}
		cfg = &config.Config{
			URL:         flagURL,
			SessionFile: sessionFile,
			LogLevel:    config.DefaultLogLevel,
			Timeout:     config.DefaultTimeout,
		}
	}

	if flagURL != "" {
		cfg.URL = flagURL
	}
	return cfg, nil
}

// app bundles what every command that talks to the portal needs
type app struct {
	cfg     *config.Config
	session *session.Session
	client  *api.Client

	logoutListeners []func()
}

// newApp loads configuration, starts logging and restores the saved session
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	level := cfg.LogLevel
	if debugMode {
		level = "debug"
	}
	if err := logging.Initialize(logging.Options{Level: level, File: cfg.LogFile}); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	sess, err := session.New(session.NewFileStorage(cfg.SessionFile))
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, session: sess}
	a.client = api.NewClient(cfg.URL, sess,
		api.WithTimeout(cfg.Timeout),
		api.WithAuthFailureHook(a.sessionRejected),
	)
	return a, nil
}

// sessionRejected drops the saved session after the server refused its
// token and tells every listener that the user is now anonymous
func (a *app) sessionRejected() {
	if err := a.session.Logout(); err != nil {
		logging.Log.Warn("failed to clear rejected session", zap.Error(err))
	}
	for _, fn := range a.logoutListeners {
		fn()
	}
}

// onLogout registers fn to run when the session is rejected mid-command
func (a *app) onLogout(fn func()) {
	a.logoutListeners = append(a.logoutListeners, fn)
}

// newTenderStore returns a tender store whose favorite set is emptied when
// the session is rejected
func (a *app) newTenderStore() *store.TenderStore {
	tenders := a.newTenderStore()
	a.onLogout(tenders.ClearFavorites)
	return tenders
}

// requireLogin fails before any request when no session is held
func (a *app) requireLogin() error {
	if !a.session.IsLoggedIn() {
		return fmt.Errorf("not logged in. Run 'bidctl login' first")
	}
	return nil
}

// readLine prompts on stdout and reads one trimmed line
func readLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readSecret reads a password, masked when stdin is a terminal
func readSecret(reader *bufio.Reader, prompt string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return readLine(reader, prompt)
	}

	fmt.Print(prompt)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(secret)), nil
}
