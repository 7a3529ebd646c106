package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vaeleborne/rcpy/internal/config"
)

func newInitConfigCmd() *cobra.Command {
	var (
		path  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write a starter config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				path = config.Path()
			}
			if path == "" {
				return errors.New("cannot determine config path; pass --path")
			}
			if err := config.Save(path, config.Example(), force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "config file to write (default: $XDG_CONFIG_HOME/rcpy/config.toml)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
