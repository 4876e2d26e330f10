// Package commands implements the CLI commands for arieo-pkg.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.arieo.dev/arieo-pkg/internal/app"
	"go.arieo.dev/arieo-pkg/internal/build"
	"go.arieo.dev/arieo-pkg/internal/core/domain"
)

// CLI represents the command line interface for arieo-pkg.
type CLI struct {
	app       Application
	rootCmd   *cobra.Command
	overrides *domain.Overrides
	argsErr   error
}

// Application represents the application logic interface.
type Application interface {
	SetOutputMode(flag string)
	Init(ctx context.Context, opts app.InitOptions) error
	Process(ctx context.Context, opts app.ProcessOptions) error
	Plan(ctx context.Context, opts app.ProcessOptions) error
	Clean(ctx context.Context, opts app.CleanOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "arieo-pkg",
		Short:         "Resolve, build and install Arieo packages",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("manifest", "m", "", "Path to "+domain.ManifestFileName+" (default: search upwards)")
	rootCmd.PersistentFlags().StringP("output", "o", "auto", "Output mode: auto, pretty, plain, json or tui")

	c := &CLI{
		app:       a,
		rootCmd:   rootCmd,
		overrides: &domain.Overrides{},
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		output, _ := cmd.Flags().GetString("output")
		c.app.SetOutputMode(output)
	}

	rootCmd.AddCommand(c.newInitCmd())
	rootCmd.AddCommand(c.newProcessCmd())
	rootCmd.AddCommand(c.newPlanCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	if c.argsErr != nil {
		return c.argsErr
	}
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command.
// Environment overrides are taken out before cobra sees the arguments.
func (c *CLI) SetArgs(args []string) {
	overrides, rest, err := ExtractOverrides(args)
	if err != nil {
		c.argsErr = err
		return
	}
	c.overrides = overrides
	c.rootCmd.SetArgs(rest)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func manifestFlag(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("manifest")
	return path
}
