package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"voidlauncher/internal/app"
	"voidlauncher/internal/config"
	"voidlauncher/internal/infrastructure/logging"
	"voidlauncher/internal/rules"
	"voidlauncher/internal/services"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and wires the engine. The caller must defer Close.
func newApp() (*app.App, error) {
	cfg, err := config.ReadFromFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	logger := logging.NewLevelLogger(os.Stderr, cfg.Logging.Level)
	a, err := app.New(cfg, app.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("initializing engine: %w", err)
	}
	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "voidlauncher",
	Short: "Usage tracking and auto-hide engine for the void launcher",
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show today's screen time and unlocks",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := context.Background()

		if !a.Tracker.HasUsagePermission() {
			fmt.Println("Usage data source is not accessible; all totals read as zero.")
		}

		fmt.Printf("Screen time: %s\n", services.FormatDuration(a.Tracker.TotalScreenTime(ctx)))
		fmt.Printf("Unlocks:     %d\n", a.Tracker.ScreenUnlockCount(ctx))
		fmt.Printf("Reset hour:  %02d:00\n", a.Tracker.ResetHour(ctx))

		records := a.Tracker.AllAppUsage(ctx)
		if len(records) == 0 {
			return nil
		}
		fmt.Println()
		for _, rec := range records {
			fmt.Printf("%-40s %10s %4d opens\n",
				rec.PackageName, services.FormatDuration(rec.TimeSpentMs), rec.OpenCount)
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show archived daily history",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		weekly, _ := cmd.Flags().GetBool("weekly")
		monthly, _ := cmd.Flags().GetBool("monthly")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := context.Background()

		switch {
		case weekly:
			summaries, err := a.History.WeeklySummaries(ctx, 26)
			if err != nil {
				return err
			}
			for _, s := range summaries {
				fmt.Printf("%-10s %10s total, %8s/day, %4d unlocks (%d days)\n",
					s.WeekLabel, services.FormatDuration(s.TotalScreenTime),
					services.FormatDuration(s.AvgScreenTime), s.TotalUnlocks, s.DaysCount)
			}
		case monthly:
			summaries, err := a.History.MonthlySummaries(ctx, 12)
			if err != nil {
				return err
			}
			for _, s := range summaries {
				fmt.Printf("%-10s %10s total, %8s/day, %4d unlocks (%d days)\n",
					s.MonthLabel, services.FormatDuration(s.TotalScreenTime),
					services.FormatDuration(s.AvgScreenTime), s.TotalUnlocks, s.DaysCount)
			}
		default:
			entries, err := a.History.DailyHistory(ctx, days)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Printf("%s  %10s  %4d unlocks  %d apps\n",
					e.Date, services.FormatDuration(e.ScreenTimeMs), e.UnlockCount, len(e.AppUsage))
			}
		}
		return nil
	},
}

// rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage auto-hide rules",
}

var rulesGetCmd = &cobra.Command{
	Use:   "get PACKAGE",
	Short: "Show the rules for a package",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ruleSet, ok, err := a.AutoHide.Rules(context.Background(), args[0])
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("no rules")
			return nil
		}
		printRules(args[0], ruleSet)
		return nil
	},
}

var rulesSetCmd = &cobra.Command{
	Use:   "set PACKAGE",
	Short: "Set the rules for a package",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		windows, _ := cmd.Flags().GetStringArray("window")
		maxOpens, _ := cmd.Flags().GetInt("max-opens")
		maxMinutes, _ := cmd.Flags().GetInt("max-minutes")

		ruleSet := rules.AutoHideRules{
			MaxOpens:  maxOpens,
			MaxTimeMs: int64(maxMinutes) * 60_000,
		}
		for _, w := range windows {
			rule, err := parseWindow(w)
			if err != nil {
				return err
			}
			ruleSet.TimeRules = append(ruleSet.TimeRules, rule)
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.AutoHide.SetRules(context.Background(), args[0], ruleSet); err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", args[0], ruleSet.Summary())
		return nil
	},
}

var rulesDeleteCmd = &cobra.Command{
	Use:   "delete PACKAGE",
	Short: "Remove the rules for a package",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.AutoHide.ClearRules(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed rules for %s\n", args[0])
		return nil
	},
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every package with rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		all, err := a.AutoHide.AllRules(context.Background())
		if err != nil {
			return err
		}
		if len(all) == 0 {
			fmt.Println("no rules configured")
			return nil
		}

		pkgs := make([]string, 0, len(all))
		for pkg := range all {
			pkgs = append(pkgs, pkg)
		}
		sort.Strings(pkgs)
		for _, pkg := range pkgs {
			fmt.Printf("%-40s %s\n", pkg, all[pkg].Summary())
		}
		return nil
	},
}

// prefs command
var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show launcher preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := context.Background()

		fmt.Printf("Font size: %g\n", a.Launcher.FontSize(ctx))
		fmt.Printf("Homepage:  %s\n", strings.Join(a.Launcher.HomepageApps(ctx), ", "))
		hidden := a.Launcher.HiddenApps(ctx)
		if len(hidden) == 0 {
			fmt.Println("Hidden:    (none)")
		} else {
			fmt.Printf("Hidden:    %s\n", strings.Join(hidden, ", "))
		}
		return nil
	},
}

var prefsHomepageCmd = &cobra.Command{
	Use:   "homepage [PACKAGE...]",
	Short: "Replace the homepage app list",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Launcher.SaveHomepageApps(context.Background(), args); err != nil {
			return err
		}
		fmt.Printf("Homepage set to %d apps\n", len(args))
		return nil
	},
}

var prefsHiddenCmd = &cobra.Command{
	Use:   "hidden [PACKAGE...]",
	Short: "Replace the manually hidden app list",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Launcher.SaveHiddenApps(context.Background(), args); err != nil {
			return err
		}
		fmt.Printf("Hidden set to %d apps\n", len(args))
		return nil
	},
}

var prefsFontSizeCmd = &cobra.Command{
	Use:   "fontsize SIZE",
	Short: "Set the launcher font size",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		size, err := strconv.ParseFloat(args[0], 64)
		if err != nil || size <= 0 {
			return fmt.Errorf("font size must be a positive number, got %q", args[0])
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Launcher.SaveFontSize(context.Background(), size); err != nil {
			return err
		}
		fmt.Printf("Font size set to %g\n", size)
		return nil
	},
}

// screen command: the entry points the platform's screen events call into.
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Feed screen events into the tracker",
}

var screenOnCmd = &cobra.Command{
	Use:   "on",
	Short: "Record a screen-on (unlock) event",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Tracker.TrackScreenOn(context.Background()); err != nil {
			return err
		}
		fmt.Printf("Unlocks today: %d\n", a.Tracker.ScreenUnlockCount(context.Background()))
		return nil
	},
}

var screenOffCmd = &cobra.Command{
	Use:   "off",
	Short: "Record a screen-off event",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Tracker.TrackScreenOff(context.Background())
	},
}

var rolloverCmd = &cobra.Command{
	Use:   "rollover",
	Short: "Run the daily rollover check",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		rolled, err := a.Tracker.CheckRollover(context.Background())
		if err != nil {
			return err
		}
		if rolled {
			fmt.Println("Rolled over: previous day archived, counters reset.")
		} else {
			fmt.Println("No rollover due.")
		}
		return nil
	},
}

var resetHourCmd = &cobra.Command{
	Use:   "resethour [HOUR]",
	Short: "Show or set the rolling-day reset hour",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := context.Background()

		if len(args) == 0 {
			fmt.Printf("Reset hour: %02d:00\n", a.Tracker.ResetHour(ctx))
			return nil
		}

		hour, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("hour must be a number 0-23, got %q", args[0])
		}
		if err := a.Tracker.SetResetHour(ctx, hour); err != nil {
			return err
		}
		fmt.Printf("Reset hour set to %02d:00\n", hour)
		return nil
	},
}

// printRules renders one rule set.
func printRules(pkg string, ruleSet rules.AutoHideRules) {
	fmt.Printf("%s: %s\n", pkg, ruleSet.Summary())
	for _, tr := range ruleSet.TimeRules {
		fmt.Printf("  window %s\n", tr)
	}
	if ruleSet.MaxOpens > 0 {
		fmt.Printf("  max opens/day %d\n", ruleSet.MaxOpens)
	}
	if ruleSet.MaxTimeMs > 0 {
		fmt.Printf("  max time/day %s\n", services.FormatDuration(ruleSet.MaxTimeMs))
	}
}

// parseWindow parses "HH:MM-HH:MM" into a time rule.
func parseWindow(s string) (rules.TimeRule, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return rules.TimeRule{}, fmt.Errorf("window must look like HH:MM-HH:MM, got %q", s)
	}

	start, err := time.Parse("15:04", parts[0])
	if err != nil {
		return rules.TimeRule{}, fmt.Errorf("bad window start %q: %w", parts[0], err)
	}
	end, err := time.Parse("15:04", parts[1])
	if err != nil {
		return rules.TimeRule{}, fmt.Errorf("bad window end %q: %w", parts[1], err)
	}

	return rules.TimeRule{
		StartHour:   start.Hour(),
		StartMinute: start.Minute(),
		EndHour:     end.Hour(),
		EndMinute:   end.Minute(),
	}, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "voidlauncher.toml", "path to the config file")

	historyCmd.Flags().Int("days", 7, "number of days to show")
	historyCmd.Flags().Bool("weekly", false, "show weekly summaries")
	historyCmd.Flags().Bool("monthly", false, "show monthly summaries")

	rulesSetCmd.Flags().StringArray("window", nil, "hide window HH:MM-HH:MM, repeatable; wraps past midnight when start > end")
	rulesSetCmd.Flags().Int("max-opens", 0, "hide after this many opens per day, 0 = unlimited")
	rulesSetCmd.Flags().Int("max-minutes", 0, "hide after this many minutes per day, 0 = unlimited")

	rulesCmd.AddCommand(rulesGetCmd, rulesSetCmd, rulesDeleteCmd, rulesListCmd)
	prefsCmd.AddCommand(prefsHomepageCmd, prefsHiddenCmd, prefsFontSizeCmd)
	screenCmd.AddCommand(screenOnCmd, screenOffCmd)

	rootCmd.AddCommand(statsCmd, historyCmd, rulesCmd, prefsCmd, screenCmd, rolloverCmd, resetHourCmd)
}
