package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"blogauto/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				sim, err := cfg.Presence.Simulator()
				if err != nil {
					return err
				}
				return json.NewEncoder(out).Encode(map[string]any{
					"path":     path,
					"addr":     cfg.Server.Addr,
					"database": cfg.Database.Path,
					"log":      cfg.Logging.Level,
					"presence": map[string]any{
						"sync_interval":     sim.SyncInterval.String(),
						"display_name":      sim.DisplayName,
						"self_id":           sim.SelfID,
						"roster":            sim.Roster,
						"spawn_probability": sim.SpawnProbability,
					},
				})
			}

			if path == "" {
				path = "(none, using defaults)"
			}
			fmt.Fprintf(out, "Config: %s\n%s\n", path, cfg.Summary())
			return nil
		},
	}

	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = config.DefaultConfigPath()
			}
			force, _ := cmd.Flags().GetBool("force")

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().Bool("force", false, "Overwrite an existing file")
	return cmd
}
