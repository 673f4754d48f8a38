// Package cli wires the slacker commands together.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/slackerhq/slacker/internal/api"
	"github.com/slackerhq/slacker/internal/auth"
	"github.com/slackerhq/slacker/internal/config"
	"github.com/slackerhq/slacker/internal/logger"
	"github.com/slackerhq/slacker/internal/render"
	"github.com/slackerhq/slacker/internal/version"
)

// ErrAlreadyReported marks an error that was already printed through the
// formatter; the caller only sets the exit code.
var ErrAlreadyReported = errors.New("already reported")

// app carries the state shared by every command: configuration, the chosen
// formatter, and the persistent flag values.
type app struct {
	cfg       config.Config
	formatter render.Formatter
	out       io.Writer

	configPath string
	authFile   string
	output     string
	team       string
}

// client loads the stored credentials and builds an API client for the
// selected team.
func (a *app) client() (*api.Client, auth.File, error) {
	file, err := auth.Load(a.authFile)
	if err != nil {
		return nil, auth.File{}, err
	}
	creds, err := file.Credentials(a.team)
	if err != nil {
		return nil, auth.File{}, err
	}
	return a.clientFor(creds), file, nil
}

func (a *app) clientFor(creds auth.Credentials) *api.Client {
	timeout := time.Duration(a.cfg.API.TimeoutSeconds) * time.Second
	return api.NewClient(logger.Service("api"), creds, a.cfg.API.BaseURL, timeout)
}

// fail prints the message through the formatter and returns the sentinel so
// main exits nonzero without printing it again.
func (a *app) fail(format string, args ...any) error {
	a.formatter.Error(fmt.Sprintf(format, args...))
	return ErrAlreadyReported
}

// NewRootCommand builds the slacker command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{out: os.Stdout})
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "slacker",
		Short:         "Use Slack from the terminal with browser session credentials",
		Version:       version.GetInfo(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg
			logger.Init(cfg.Log.Level, cfg.Log.Format)
			if a.authFile == "" {
				a.authFile = cfg.Auth.File
			}
			f, err := render.New(a.output, a.out)
			if err != nil {
				return err
			}
			a.formatter = f
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to config.toml")
	flags.StringVar(&a.authFile, "auth-file", "", "credential file location")
	flags.StringVarP(&a.output, "output", "o", "text", "output format (text or json)")
	flags.StringVar(&a.team, "team", "", "team name when multiple teams are stored")

	root.AddCommand(
		newLoginCommand(a),
		newWhoamiCommand(a),
		newActivityCommand(a),
		newRemindersCommand(a),
		newRemindCommand(a),
		newDMsCommand(a),
		newAPICommand(a),
	)
	return root
}

// Execute runs the command tree.
func Execute() error {
	return NewRootCommand().Execute()
}
