package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/trivial-reminder/internal/matcher"
	"github.com/Tiliavir/trivial-reminder/internal/model"
)

var addCmd = &cobra.Command{
	Use:   "add <text...>",
	Short: "Interpret reminder text and store the reminder",
	Example: `  trm add in 3 days at 14:00 call mom
  trm add tomorrow at 9 dentist`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	log := newLogger()
	defer func() { _ = log.Sync() }()

	t := now(cfg)
	text := strings.Join(args, " ")

	res, err := loadEngine(cfg, log).Match(text, t)
	if err != nil {
		exit(1, matchError(text, err))
	}

	store := openStore(cfg)
	defer store.Close()

	r := model.NewReminder(res.Text, res.At, text, res.Template, t)
	if err := store.Save(cmd.Context(), r); err != nil {
		exit(2, err)
	}
	log.Debug("reminder stored", zap.String("id", r.ID), zap.Time("at", r.At))

	fmt.Printf("Added reminder %s\n", r.ID)
	fmt.Printf("  %s  %s (%s)\n", r.At.Format("2006-01-02 15:04"), r.Text, relative(r.At, t))
	return nil
}

// matchError turns matcher failures into user-facing messages.
func matchError(text string, err error) error {
	var (
		unit     *matcher.InvalidUnitError
		duration *matcher.InvalidDurationError
	)
	switch {
	case errors.Is(err, matcher.ErrNoTemplateMatched):
		return fmt.Errorf("could not interpret %q: no template matches (see 'trm templates')", text)
	case errors.As(err, &unit), errors.As(err, &duration):
		return fmt.Errorf("could not interpret %q: %w", text, err)
	default:
		return err
	}
}
