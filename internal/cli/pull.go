package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPullCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "pull",
		Short:   "Download the configured model artifact into the cache and print its path",
		Example: "  llmsvc pull --cache-dir /models",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			log := newLogger(cfg, cmd.ErrOrStderr())
			path, err := newProvisioner(cfg, log).EnsureArtifact(cmd.Context(), cfg.RepoID, cfg.ModelFile, cfg.CacheDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
