package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:     "edit <id> <text...>",
	Short:   "Replace the text of a reminder, keeping its due time",
	Example: `  trm edit 0b7c1f52 call mom and dad`,
	Args:    cobra.MinimumNArgs(2),
	RunE:    runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store := openStore(cfg)
	defer store.Close()

	text := strings.TrimSpace(strings.Join(args[1:], " "))
	if text == "" {
		exit(1, fmt.Errorf("reminder text must not be empty"))
	}

	r, err := findReminder(cmd.Context(), store, args[0])
	if err != nil {
		exit(1, err)
	}
	r.Text = text
	if err := store.Save(cmd.Context(), r); err != nil {
		exit(2, err)
	}

	fmt.Printf("Updated reminder %s\n", r.ID)
	fmt.Printf("  %s  %s\n", r.At.Format("2006-01-02 15:04"), r.Text)
	return nil
}
