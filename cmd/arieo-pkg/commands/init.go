package commands

import (
	"github.com/spf13/cobra"
	"go.arieo.dev/arieo-pkg/internal/app"
)

func (c *CLI) newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Fetch package sources and write the resolve file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			jobs, _ := cmd.Flags().GetInt("jobs")
			noFetch, _ := cmd.Flags().GetBool("no-fetch")
			return c.app.Init(cmd.Context(), app.InitOptions{
				Manifest: manifestFlag(cmd),
				Jobs:     jobs,
				NoFetch:  noFetch,
			})
		},
	}
	cmd.Flags().IntP("jobs", "j", app.DefaultJobs, "Number of sources fetched concurrently")
	cmd.Flags().Bool("no-fetch", false, "Resolve against sources already on disk")
	return cmd
}
