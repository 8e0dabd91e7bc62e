package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Tiliavir/trivial-reminder/internal/model"
	"github.com/Tiliavir/trivial-reminder/internal/timecalc"
)

// reminderRow is the database representation of a reminder. Times are
// stored in UTC so that string comparison in SQLite orders them correctly.
type reminderRow struct {
	ID        string    `gorm:"primaryKey"`
	Text      string    `gorm:"not null"`
	At        time.Time `gorm:"index;not null"`
	Input     string    `gorm:"type:text"`
	Template  string
	CreatedAt time.Time
}

// TableName specifies the table name for reminderRow
func (reminderRow) TableName() string {
	return "reminders"
}

func toRow(r model.Reminder) reminderRow {
	return reminderRow{
		ID:        r.ID,
		Text:      r.Text,
		At:        r.At.UTC(),
		Input:     r.Input,
		Template:  r.Template,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

func (row reminderRow) toModel(loc *time.Location) model.Reminder {
	return model.Reminder{
		ID:        row.ID,
		Text:      row.Text,
		At:        row.At.In(loc),
		Input:     row.Input,
		Template:  row.Template,
		CreatedAt: row.CreatedAt.In(loc),
	}
}

// SQLStore keeps reminders in a SQLite database.
type SQLStore struct {
	db  *gorm.DB
	loc *time.Location
}

// OpenSQL opens (and migrates) the SQLite database at path. Reminders read
// back are expressed in loc.
func OpenSQL(path string, loc *time.Location) (*SQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}
	if err := db.AutoMigrate(&reminderRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate reminders table: %w", err)
	}
	if loc == nil {
		loc = time.Local
	}
	return &SQLStore{db: db, loc: loc}, nil
}

func (s *SQLStore) Save(ctx context.Context, r model.Reminder) error {
	row := toRow(r)
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("failed to save reminder %s: %w", r.ID, err)
	}
	return nil
}

func (s *SQLStore) Range(ctx context.Context, from, to time.Time) ([]model.Reminder, error) {
	return s.find(ctx, "at >= ? AND at <= ?", from.UTC(), to.UTC())
}

func (s *SQLStore) Upcoming(ctx context.Context, from time.Time) ([]model.Reminder, error) {
	return s.find(ctx, "at >= ?", from.UTC())
}

func (s *SQLStore) Due(ctx context.Context, now time.Time) ([]model.Reminder, error) {
	start := timecalc.At(now, now.Hour(), now.Minute())
	return s.find(ctx, "at >= ? AND at < ?", start.UTC(), start.Add(time.Minute).UTC())
}

func (s *SQLStore) find(ctx context.Context, query string, args ...any) ([]model.Reminder, error) {
	var rows []reminderRow
	if err := s.db.WithContext(ctx).Where(query, args...).Order("at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	out := make([]model.Reminder, len(rows))
	for i, row := range rows {
		out[i] = row.toModel(s.loc)
	}
	return out, nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&reminderRow{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete reminder %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}
