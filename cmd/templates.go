package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-reminder/internal/dictionary"
	"github.com/Tiliavir/trivial-reminder/internal/template"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the loaded templates in matching order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printTemplates(os.Stdout, loadDefinitions(loadConfig()).Templates)
		return nil
	},
}

var definitionsReplacements bool

var definitionsCmd = &cobra.Command{
	Use:   "definitions",
	Short: "Show the definitions (or replacements) dictionary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		set := loadDefinitions(loadConfig())
		d := set.Definitions
		if definitionsReplacements {
			d = set.Replacements
		}
		printDictionary(os.Stdout, d)
		return nil
	},
}

func init() {
	definitionsCmd.Flags().BoolVar(&definitionsReplacements, "replacements", false, "Show the replacements dictionary instead")
}

func printTemplates(w io.Writer, templates []*template.Template) {
	for i, t := range templates {
		direction := "-"
		if t.IsAddition() {
			direction = "+"
		}
		fmt.Fprintf(w, "%3d  %s  %s\n", i+1, direction, t.Pattern())
	}
}

func printDictionary(w io.Writer, d *dictionary.Dictionary) {
	for _, key := range d.Keys() {
		fmt.Fprintf(w, "%-20s", key)
		for i, s := range d.Synonyms(key) {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			fmt.Fprint(w, s)
		}
		fmt.Fprintln(w)
	}
}
