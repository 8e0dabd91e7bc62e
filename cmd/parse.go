package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-reminder/internal/matcher"
)

var parseCmd = &cobra.Command{
	Use:   "parse <text...>",
	Short: "Show how reminder text is interpreted without storing it",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	log := newLogger()
	defer func() { _ = log.Sync() }()

	t := now(cfg)
	text := strings.Join(args, " ")

	res, err := loadEngine(cfg, log).Match(text, t)
	if err != nil {
		exit(1, matchError(text, err))
	}
	printResult(os.Stdout, res)
	return nil
}

func printResult(w io.Writer, res matcher.Result) {
	fmt.Fprintf(w, "Template: %s\n", res.Template)
	f := res.Fields
	if f.Duration != nil {
		fmt.Fprintf(w, "  Duration: %d\n", *f.Duration)
	}
	if f.Unit != nil {
		fmt.Fprintf(w, "  Unit:     %s\n", *f.Unit)
	}
	if f.Date != nil {
		fmt.Fprintf(w, "  Date:     %s\n", f.Date.Format("2006-01-02"))
	}
	if f.Time != nil {
		fmt.Fprintf(w, "  Time:     %s\n", f.Time)
	}
	fmt.Fprintf(w, "Due:  %s\n", res.At.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(w, "Text: %s\n", res.Text)
}
