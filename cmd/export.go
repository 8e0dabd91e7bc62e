package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/trivial-reminder/internal/model"
	"github.com/Tiliavir/trivial-reminder/internal/timecalc"
)

var (
	exportFormat string
	exportAll    bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export this week's reminders to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, yaml, md")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Export every upcoming reminder instead of this week's")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	t := now(cfg)

	store := openStore(cfg)
	defer store.Close()

	var (
		reminders []model.Reminder
		err       error
	)
	if exportAll {
		reminders, err = store.Upcoming(cmd.Context(), t)
	} else {
		from, to := timecalc.WeekRange(t)
		reminders, err = store.Range(cmd.Context(), from, to)
	}
	if err != nil {
		exit(2, err)
	}

	if err := writeExport(os.Stdout, exportFormat, reminders, t); err != nil {
		exit(2, err)
	}
	return nil
}

func writeExport(w io.Writer, format string, reminders []model.Reminder, now time.Time) error {
	if reminders == nil {
		reminders = []model.Reminder{}
	}
	switch format {
	case "json":
		data, err := json.MarshalIndent(reminders, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reminders); err != nil {
			return fmt.Errorf("error encoding YAML: %w", err)
		}
		return enc.Close()
	case "md":
		printList(w, reminders, now)
	case "csv":
		return printCSV(w, reminders)
	default:
		return fmt.Errorf("unknown export format %q (use csv, json, yaml or md)", format)
	}
	return nil
}

func printCSV(w io.Writer, reminders []model.Reminder) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "date", "time", "text", "input"}); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	for _, r := range reminders {
		row := []string{r.ID, r.At.Format("2006-01-02"), r.At.Format("15:04"), r.Text, r.Input}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("error writing CSV: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
