package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/trivial-reminder/internal/storage"
)

var dueWatch bool

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "Show reminders due this minute",
	Long: `Show reminders due in the current minute. Exits with status 1 when
nothing is due, so it can drive notifications from cron.

With --watch, trm keeps running and checks once per minute.`,
	Args: cobra.NoArgs,
	RunE: runDue,
}

func init() {
	dueCmd.Flags().BoolVar(&dueWatch, "watch", false, "Keep checking every minute until interrupted")
}

func runDue(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	log := newLogger()
	defer func() { _ = log.Sync() }()

	store := openStore(cfg)
	defer store.Close()

	if !dueWatch {
		n, err := printDue(cmd.Context(), store, now(cfg))
		if err != nil {
			exit(2, err)
		}
		if n == 0 {
			fmt.Println("Nothing due.")
			os.Exit(1)
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	for {
		t := now(cfg)
		if n, err := printDue(ctx, store, t); err != nil {
			log.Warn("checking due reminders failed", zap.Error(err))
		} else {
			log.Debug("checked due reminders", zap.Time("at", t), zap.Int("due", n))
		}

		// Wake up at the start of the next minute.
		next := t.Truncate(time.Minute).Add(time.Minute)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Until(next)):
		}
	}
}

func printDue(ctx context.Context, store storage.Store, t time.Time) (int, error) {
	due, err := store.Due(ctx, t)
	if err != nil {
		return 0, err
	}
	for _, r := range due {
		fmt.Printf("%s  %s\n", r.At.In(t.Location()).Format("15:04"), r.Text)
	}
	return len(due), nil
}
