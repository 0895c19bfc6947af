package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sandeepkv93/habitd/internal/model"
	"github.com/sandeepkv93/habitd/internal/tracker"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List habits with streaks and completion rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := a.tracker.HabitStats()
			if len(stats) == 0 {
				fmt.Fprintln(a.out, "no habits yet")
				return nil
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "NAME", "CATEGORY", "SCHEDULE", "STREAK", "RATE", "TODAY")
			for _, s := range stats {
				today := "-"
				switch {
				case s.DoneToday:
					today = "done"
				case s.DueToday:
					today = "due"
				}
				t.Row(
					s.Habit.ID,
					s.Habit.Name,
					s.Habit.Category.Label(),
					s.Habit.ScheduleText(),
					strconv.Itoa(s.CurrentStreak),
					strconv.Itoa(s.CompletionRate)+"%",
					today,
				)
			}
			fmt.Fprintln(a.out, t.Render())
			return nil
		},
	}
}

func (a *app) addCmd() *cobra.Command {
	var (
		category    string
		frequency   string
		days        []int
		target      string
		unit        string
		description string
	)
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a habit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h := model.Habit{
				Name:        strings.Join(args, " "),
				Description: description,
				Category:    model.Category(category).Normalize(),
				Frequency:   model.Frequency(strings.ToLower(frequency)),
				CustomDays:  days,
				Unit:        unit,
			}
			if len(days) > 0 && !cmd.Flags().Changed("frequency") {
				h.Frequency = model.FrequencyCustom
			}
			if strings.TrimSpace(target) != "" {
				v, err := decimal.NewFromString(strings.TrimSpace(target))
				if err != nil || !v.IsPositive() {
					return fmt.Errorf("--target must be a positive number, got %q", target)
				}
				h.Target = &v
			}
			created, err := a.tracker.AddHabit(h)
			if err != nil {
				return err
			}
			if err := a.save(cmd.Context(), "create"); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "added %s %s (%s)\n", created.ID, created.Name, created.ScheduleText())
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", string(model.CategoryOther), "health, productivity, learning, mindfulness, social, creativity or other")
	cmd.Flags().StringVar(&frequency, "frequency", string(model.FrequencyDaily), "daily, weekly or custom")
	cmd.Flags().IntSliceVar(&days, "days", nil, "weekdays for custom habits, 0=Sun..6=Sat")
	cmd.Flags().StringVar(&target, "target", "", "informational goal, e.g. 8")
	cmd.Flags().StringVar(&unit, "unit", "", "unit of the target, e.g. glasses")
	cmd.Flags().StringVar(&description, "description", "", "markdown description")
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID|NAME",
		Short: "Delete a habit and its completion history",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.resolve(args)
			if err != nil {
				return err
			}
			if !yes && !a.confirm(fmt.Sprintf("delete %q and all its history?", h.Name)) {
				fmt.Fprintln(a.out, "delete cancelled")
				return nil
			}
			a.tracker.DeleteHabit(h.ID)
			if err := a.save(cmd.Context(), "delete"); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "deleted %s\n", h.Name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func (a *app) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done ID|NAME",
		Short: "Toggle today's completion of a habit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.resolve(args)
			if err != nil {
				return err
			}
			done, err := a.tracker.Toggle(h.ID)
			if err != nil {
				return err
			}
			if err := a.save(cmd.Context(), "toggle"); err != nil {
				return err
			}
			if done {
				fmt.Fprintf(a.out, "completed %s (streak %d)\n", h.Name, a.tracker.CurrentStreak(h.ID))
			} else {
				fmt.Fprintf(a.out, "unchecked %s\n", h.Name)
			}
			return nil
		},
	}
}

func (a *app) markAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mark-all",
		Short: "Mark every habit due today as complete",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n := a.tracker.MarkAllDue()
			if n == 0 {
				fmt.Fprintln(a.out, "no habits due today")
				return nil
			}
			if err := a.save(cmd.Context(), "mark_all"); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "marked %d habit(s) complete\n", n)
			return nil
		},
	}
}

func (a *app) statsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print aggregate statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.tracker.Summary()
			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			}
			printSummary(a, s)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}

func printSummary(a *app, s tracker.Summary) {
	fmt.Fprintf(a.out, "today:            %d/%d (%d%%)\n", s.Today.Completed, s.Today.Due, s.Today.Percent)
	fmt.Fprintf(a.out, "longest streak:   %d\n", s.LongestCurrentStreak)
	fmt.Fprintf(a.out, "completion rate:  %d%%\n", s.OverallCompletionRate)
	fmt.Fprintf(a.out, "tracking days:    %d\n", s.TotalTrackingDays)
	if len(s.Categories) > 0 {
		fmt.Fprintln(a.out, "categories:")
		for _, c := range s.Categories {
			fmt.Fprintf(a.out, "  %-17s %d\n", c.Label, c.Count)
		}
	}
}

func (a *app) resolve(args []string) (model.Habit, error) {
	ref := strings.Join(args, " ")
	h, ok := a.tracker.Find(ref)
	if !ok {
		return model.Habit{}, fmt.Errorf("%w: no single habit matches %q", tracker.ErrHabitNotFound, ref)
	}
	return h, nil
}
