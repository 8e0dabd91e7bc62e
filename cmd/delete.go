package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-reminder/internal/model"
	"github.com/Tiliavir/trivial-reminder/internal/storage"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a reminder by id or unique id prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store := openStore(cfg)
	defer store.Close()

	r, err := findReminder(cmd.Context(), store, args[0])
	if err != nil {
		exit(1, err)
	}
	if err := store.Delete(cmd.Context(), r.ID); err != nil {
		exit(2, err)
	}
	fmt.Printf("Deleted reminder %s\n", r.ID)
	return nil
}

// findReminder expands an id prefix as printed by 'trm list' into the
// stored reminder.
func findReminder(ctx context.Context, store storage.Store, prefix string) (model.Reminder, error) {
	if prefix == "" {
		return model.Reminder{}, fmt.Errorf("%w: empty id", storage.ErrNotFound)
	}
	all, err := store.Upcoming(ctx, time.Time{})
	if err != nil {
		return model.Reminder{}, err
	}
	var matches []model.Reminder
	for _, r := range all {
		if r.ID == prefix {
			return r, nil
		}
		if strings.HasPrefix(r.ID, prefix) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 0:
		return model.Reminder{}, fmt.Errorf("%w: %s", storage.ErrNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return model.Reminder{}, fmt.Errorf("id prefix %q is ambiguous (%d reminders)", prefix, len(matches))
	}
}
