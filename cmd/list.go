package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-reminder/internal/model"
	"github.com/Tiliavir/trivial-reminder/internal/timecalc"
)

var (
	listToday bool
	listWeek  bool
	listAll   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List reminders",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listToday, "today", false, "Show today's reminders")
	listCmd.Flags().BoolVar(&listWeek, "week", false, "Show this week's reminders")
	listCmd.Flags().BoolVar(&listAll, "all", false, "Show every upcoming reminder")
	listCmd.MarkFlagsMutuallyExclusive("today", "week", "all")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	t := now(cfg)

	store := openStore(cfg)
	defer store.Close()

	var (
		reminders []model.Reminder
		err       error
	)
	switch {
	case listAll:
		reminders, err = store.Upcoming(cmd.Context(), t)
	case listWeek:
		from, to := timecalc.WeekRange(t)
		fmt.Printf("Week %s\n", timecalc.ISOWeekLabel(t))
		reminders, err = store.Range(cmd.Context(), from, to)
	default:
		// Default to today (covers --today and the bare command).
		reminders, err = store.Range(cmd.Context(), timecalc.StartOfDay(t), timecalc.EndOfDay(t))
	}
	if err != nil {
		exit(2, err)
	}

	printList(os.Stdout, reminders, t)
	return nil
}

// printList groups reminders by due date and prints them.
func printList(w io.Writer, reminders []model.Reminder, now time.Time) {
	if len(reminders) == 0 {
		fmt.Fprintln(w, "No reminders found.")
		return
	}

	var currentDay string
	for _, r := range reminders {
		at := r.At.In(now.Location())
		day := at.Format("2006-01-02")
		if day != currentDay {
			fmt.Fprintln(w, day)
			currentDay = day
		}
		fmt.Fprintf(w, "%s  %s  (%s)  [%s]\n", at.Format("15:04"), r.Text, relative(at, now), shortID(r.ID))
	}
}

// relative describes at as seen from now, e.g. "in 2h 5m" or "3d 1h ago".
func relative(at, now time.Time) string {
	d := int64(at.Sub(now).Seconds())
	switch {
	case d > 0:
		return "in " + timecalc.FormatDuration(d)
	case d < 0:
		return timecalc.FormatDuration(-d) + " ago"
	default:
		return "now"
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
