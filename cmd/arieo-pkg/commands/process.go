package commands

import (
	"github.com/spf13/cobra"
	"go.arieo.dev/arieo-pkg/internal/app"
	"go.arieo.dev/arieo-pkg/internal/core/domain"
	"go.trai.ch/zerr"
)

var errInvalidIncludeDependencies = zerr.New("invalid --include-dependencies value, expected 'yes' or 'no'")

func (c *CLI) newProcessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Build and install packages from the resolve file",
		Long: `Build and install packages in resolved order.

Environment overrides are passed as --env{NAME}=VALUE. A bracketed list
(--env{NAME}=[a, b]) or a repeated name runs every package once per value.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := c.processOptions(cmd)
			if err != nil {
				return err
			}
			opts.Yes, _ = cmd.Flags().GetBool("yes")
			return c.app.Process(cmd.Context(), opts)
		},
	}
	addSelectionFlags(cmd)
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (c *CLI) newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what process would run without running it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := c.processOptions(cmd)
			if err != nil {
				return err
			}
			return c.app.Plan(cmd.Context(), opts)
		},
	}
	addSelectionFlags(cmd)
	return cmd
}

func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("package", "p", nil, "Process only the named packages (repeatable)")
	cmd.Flags().StringP("stage", "s", string(domain.StageBuildAndInstall), "Stage to run: build, install or build_and_install")
	cmd.Flags().String("include-dependencies", "yes", "Also process dependencies of the named packages: yes or no")
}

func (c *CLI) processOptions(cmd *cobra.Command) (app.ProcessOptions, error) {
	packages, _ := cmd.Flags().GetStringSlice("package")
	stageFlag, _ := cmd.Flags().GetString("stage")
	includeFlag, _ := cmd.Flags().GetString("include-dependencies")

	stage, err := domain.ParseStage(stageFlag)
	if err != nil {
		return app.ProcessOptions{}, err
	}

	var include bool
	switch includeFlag {
	case "yes":
		include = true
	case "no":
		include = false
	default:
		err := zerr.Wrap(errInvalidIncludeDependencies, "failed to parse flags")
		return app.ProcessOptions{}, zerr.With(err, "value", includeFlag)
	}

	return app.ProcessOptions{
		Manifest:            manifestFlag(cmd),
		Packages:            packages,
		Stage:               stage,
		IncludeDependencies: include,
		Overrides:           c.overrides,
	}, nil
}
