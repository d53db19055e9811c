package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fastygo/focusflow/domain"
	"github.com/fastygo/focusflow/internal/config"
	"github.com/fastygo/focusflow/internal/services"
	"github.com/fastygo/focusflow/pkg/logger"
	"github.com/fastygo/focusflow/usecase/tracker"
)

type rootOptions struct {
	storePath string
	asJSON    bool
	verbose   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "focusctl",
		Short:         "Inspect and edit the focusflow store offline",
		Long:          "focusctl works directly on the store file. Stop the server first: the store is locked while it runs.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.storePath, "store", "", "store file (default STORE_PATH)")
	rootCmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print JSON instead of text")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log tracker activity to stderr")

	rootCmd.AddCommand(
		statusCmd(opts),
		listCmd(opts),
		addCmd(opts),
		checkCmd(opts),
		timerCmd(opts),
		deleteCmd(opts),
		exportCmd(opts),
		importCmd(opts),
		unlockNextCmd(opts),
		newDayCmd(opts),
	)
	return rootCmd
}

// withTracker opens the store, catches the tracker up to now and runs fn.
func withTracker(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, tr *tracker.Tracker) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.storePath != "" {
		cfg.Store.Path = opts.storePath
	}

	log := zap.NewNop()
	if opts.verbose {
		if log, err = logger.New(logger.Config{Level: "debug", Encoding: "console", Stderr: true}); err != nil {
			return err
		}
		defer log.Sync()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	tr, store, err := services.OpenTracker(ctx, cfg, nil, log)
	if err != nil {
		return err
	}
	defer store.Close()

	if _, err := tr.Resume(ctx); err != nil {
		return err
	}
	return fn(ctx, tr)
}

func statusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show profile, counters and progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cmd, opts, func(_ context.Context, tr *tracker.Tracker) error {
				stats := tr.Stats()
				profile := tr.Profile()
				out := cmd.OutOrStdout()
				if opts.asJSON {
					return writeJSON(out, map[string]interface{}{"profile": profile, "stats": stats})
				}
				fmt.Fprintf(out, "%s  level %d  (%d/%d XP)\n", profile.Name, stats.Level, stats.XP, stats.XPToNextLevel)
				fmt.Fprintf(out, "Today:     %d/%d tasks (%d%%), %d completed today\n",
					stats.CompletedTasks, stats.TotalTasks, stats.ProgressPercentage, stats.DailyTasksCompleted)
				fmt.Fprintf(out, "Lifetime:  %d tasks, %s focused\n",
					stats.LifetimeTasksCompleted, time.Duration(stats.TotalSecondsSpent)*time.Second)
				fmt.Fprintf(out, "Streak:    best %d\n", stats.MaxStreak)
				fmt.Fprintf(out, "Trophies:  %d/%d\n", stats.EarnedAchievements, stats.TotalAchievements)
				return nil
			})
		},
	}
}

func listCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tasks, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cmd, opts, func(_ context.Context, tr *tracker.Tracker) error {
				tasks := tr.Tasks()
				if opts.asJSON {
					return writeJSON(cmd.OutOrStdout(), tasks)
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tDONE\tSTREAK\tTIMER\tTITLE")
				for _, task := range tasks {
					fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", task.ID, checkMark(task), task.Streak, timerLabel(task), task.Title)
				}
				return w.Flush()
			})
		},
	}
}

func addCmd(opts *rootOptions) *cobra.Command {
	var hours, minutes, seconds int
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a task; any duration makes it a timer task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cmd, opts, func(ctx context.Context, tr *tracker.Tracker) error {
				task, err := tr.AddTask(ctx, strings.Join(args, " "), hours, minutes, seconds)
				if err != nil {
					return err
				}
				return printTask(cmd.OutOrStdout(), opts, task, tracker.Outcome{})
			})
		},
	}
	cmd.Flags().IntVarP(&hours, "hours", "H", 0, "timer hours")
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "timer minutes")
	cmd.Flags().IntVarP(&seconds, "seconds", "s", 0, "timer seconds")
	return cmd
}

func checkCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check [id]",
		Short: "Toggle the check mark of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cmd, opts, func(ctx context.Context, tr *tracker.Tracker) error {
				task, out, err := tr.ToggleCheck(ctx, args[0])
				if err != nil {
					return err
				}
				return printTask(cmd.OutOrStdout(), opts, task, out)
			})
		},
	}
}

func timerCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "timer [id]",
		Short: "Start or pause the timer of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cmd, opts, func(ctx context.Context, tr *tracker.Tracker) error {
				task, out, err := tr.ToggleTimer(ctx, args[0])
				if err != nil {
					return err
				}
				return printTask(cmd.OutOrStdout(), opts, task, out)
			})
		},
	}
}

func deleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cmd, opts, func(ctx context.Context, tr *tracker.Tracker) error {
				if err := tr.DeleteTask(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func exportCmd(opts *rootOptions) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a backup document",
		Long:  "Write a backup document to stdout, to --out, or with --out=. to a dated file in the current directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cmd, opts, func(_ context.Context, tr *tracker.Tracker) error {
				snap := tr.Export()
				if outPath == "" {
					return writeJSON(cmd.OutOrStdout(), snap)
				}
				if outPath == "." {
					outPath = domain.BackupFileName(time.Now())
				}
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				if err := writeJSON(f, snap); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d tasks to %s\n", len(snap.Tasks), outPath)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file")
	return cmd
}

func importCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Replace all state with a backup document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return withTracker(cmd, opts, func(ctx context.Context, tr *tracker.Tracker) error {
				if err := tr.Import(ctx, data); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d tasks\n", len(tr.Tasks()))
				return nil
			})
		},
	}
}

func unlockNextCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:    "unlock-next",
		Short:  "Force-unlock the next locked achievement",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cmd, opts, func(ctx context.Context, tr *tracker.Tracker) error {
				ev, err := tr.UnlockNext(ctx)
				if err != nil {
					return err
				}
				if ev == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "every achievement is already unlocked")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "unlocked %s %s\n", ev.Icon, ev.Title)
				return nil
			})
		},
	}
}

func newDayCmd(opts *rootOptions) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:    "new-day",
		Short:  "Force a day rollover",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cmd, opts, func(ctx context.Context, tr *tracker.Tracker) error {
				if _, err := tr.ProcessNewDay(ctx, days); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "rolled over %d day(s)\n", days)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 1, "days passed")
	return cmd
}

func printTask(w io.Writer, opts *rootOptions, task domain.Task, out tracker.Outcome) error {
	if opts.asJSON {
		return writeJSON(w, map[string]interface{}{"task": task, "completed": out.Completed, "unlocked": out.Unlocked})
	}
	fmt.Fprintf(w, "%s  %s  %s  streak %d  %s\n", task.ID, checkMark(task), timerLabel(task), task.Streak, task.Title)
	for _, ev := range out.Completed {
		fmt.Fprintf(w, "+%d XP", ev.XPGained)
		if ev.LeveledUp {
			fmt.Fprintf(w, ", level %d!", ev.Level)
		}
		fmt.Fprintln(w)
	}
	for _, ev := range out.Unlocked {
		fmt.Fprintf(w, "achievement unlocked: %s %s\n", ev.Icon, ev.Title)
	}
	return nil
}

func checkMark(task domain.Task) string {
	if task.IsChecked {
		return "[x]"
	}
	return "[ ]"
}

func timerLabel(task domain.Task) string {
	if !task.HasTimer() {
		return "-"
	}
	label := (time.Duration(task.Remaining()) * time.Second).String()
	if task.IsRunning {
		label += " running"
	}
	return label
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
