package main

import (
	"fmt"

	"github.com/sandeepkv93/habitd/internal/backup"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) exportCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON backup named habit-tracker-data-YYYY-MM-DD.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = a.cfg.ExportDir
			}
			path, err := backup.WriteFile(dir, a.tracker.Snapshot(), a.tracker.Now())
			if err != nil {
				return err
			}
			a.logger.Info("exported backup", zap.String("path", path))
			fmt.Fprintf(a.out, "exported to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "target directory (defaults to export_dir)")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace all habits and history with a JSON backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := backup.Load(args[0])
			if err != nil {
				return err
			}
			summary := fmt.Sprintf("%d habit(s), %d day(s) of completions", len(payload.Habits), len(payload.Completions))
			if !yes && !a.confirm(fmt.Sprintf("import %s, replacing all current data?", summary)) {
				fmt.Fprintln(a.out, "import cancelled")
				return nil
			}
			a.tracker.Replace(payload.Snapshot())
			if err := a.save(cmd.Context(), "import"); err != nil {
				return err
			}
			a.logger.Info("imported backup", zap.String("path", args[0]), zap.Int("habits", len(payload.Habits)))
			fmt.Fprintf(a.out, "imported %s\n", summary)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
