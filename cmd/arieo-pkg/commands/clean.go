package commands

import (
	"github.com/spf13/cobra"
	"go.arieo.dev/arieo-pkg/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove build trees and installed packages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			install, _ := cmd.Flags().GetBool("install")
			all, _ := cmd.Flags().GetBool("all")

			opts := app.CleanOptions{Manifest: manifestFlag(cmd)}

			switch {
			case all:
				opts.Build = true
				opts.Install = true
			case install:
				opts.Install = true
			default:
				opts.Build = true
			}

			return c.app.Clean(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolP("install", "i", false, "Remove the install folder and the resolve file")
	cmd.Flags().BoolP("all", "a", false, "Remove build and install folders")

	return cmd
}
