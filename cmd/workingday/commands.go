package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/username/working-day-service/internal/assemble"
	"github.com/username/working-day-service/internal/daemon"
	"github.com/username/working-day-service/pkg/dateutil"
	"github.com/username/working-day-service/pkg/workingday"
)

const dateHelp = "DATE is YYYY-MM-DD, YYYY/MM/DD or 'today'"

func checkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check DATE",
		Short: "Report whether DATE is a working day",
		Long:  "Report whether DATE is a working day. " + dateHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateArg(args[0])
			if err != nil {
				return err
			}
			return a.withService(cmd, func(svc *workingday.Service) error {
				status := "non-working"
				if svc.IsWorkingDay(date) {
					status = "working"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", dateutil.DateKey(date), date.Weekday(), status)
				return nil
			})
		},
	}
}

func nextCmd(a *app) *cobra.Command {
	return dateCmd(a, "next DATE", "Print the first working day after DATE", (*workingday.Service).NextWorkingDay)
}

func prevCmd(a *app) *cobra.Command {
	return dateCmd(a, "prev DATE", "Print the last working day before DATE", (*workingday.Service).PreviousWorkingDay)
}

func dateCmd(a *app, use, short string, step func(*workingday.Service, time.Time) time.Time) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  short + ". " + dateHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateArg(args[0])
			if err != nil {
				return err
			}
			return a.withService(cmd, func(svc *workingday.Service) error {
				fmt.Fprintln(cmd.OutOrStdout(), dateutil.DateKey(step(svc, date)))
				return nil
			})
		},
	}
}

func addCmd(a *app) *cobra.Command {
	return countCmd(a, "add N DATE", "Print the date N working days after DATE", (*workingday.Service).AddWorkingDays)
}

func subtractCmd(a *app) *cobra.Command {
	return countCmd(a, "subtract N DATE", "Print the date N working days before DATE", (*workingday.Service).SubtractWorkingDays)
}

func countCmd(a *app, use, short string, move func(*workingday.Service, int, time.Time) time.Time) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  short + ". " + dateHelp,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid count %q: %w", args[0], err)
			}
			date, err := parseDateArg(args[1])
			if err != nil {
				return err
			}
			return a.withService(cmd, func(svc *workingday.Service) error {
				fmt.Fprintln(cmd.OutOrStdout(), dateutil.DateKey(move(svc, n, date)))
				return nil
			})
		},
	}
}

func watchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep sources refreshed and log today's status periodically",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			assembly, err := assemble.Build(cmd.Context(), a.cfg.Sources, a.logger)
			if err != nil {
				return fmt.Errorf("failed to build sources: %w", err)
			}

			d := daemon.NewDaemon(assembly, a.cfg.Daemon.GetReportInterval(), a.logger)
			return d.Start()
		},
	}
}

// withService builds the configured sources, runs f and releases the sources
func (a *app) withService(cmd *cobra.Command, f func(*workingday.Service) error) error {
	assembly, err := assemble.Build(cmd.Context(), a.cfg.Sources, a.logger)
	if err != nil {
		return fmt.Errorf("failed to build sources: %w", err)
	}
	defer assembly.Close()

	return f(assembly.Service)
}

func parseDateArg(arg string) (time.Time, error) {
	if strings.EqualFold(arg, "today") {
		return dateutil.Today(), nil
	}
	date, err := dateutil.ParseDate(arg)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", arg, err)
	}
	return date, nil
}
