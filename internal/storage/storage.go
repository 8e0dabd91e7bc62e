package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/Tiliavir/trivial-reminder/internal/model"
	"github.com/Tiliavir/trivial-reminder/internal/timecalc"
)

// ErrNotFound is returned when a reminder id is unknown.
var ErrNotFound = errors.New("reminder not found")

// Store persists reminders.
type Store interface {
	// Save stores r, replacing any reminder with the same ID.
	Save(ctx context.Context, r model.Reminder) error
	// Range returns reminders due in [from, to], ordered by due time.
	Range(ctx context.Context, from, to time.Time) ([]model.Reminder, error)
	// Upcoming returns every reminder due at or after from.
	Upcoming(ctx context.Context, from time.Time) ([]model.Reminder, error)
	// Due returns reminders due within the wall-clock minute of now.
	Due(ctx context.Context, now time.Time) ([]model.Reminder, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// BaseDir returns the root data directory (~/.trm).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".trm"), nil
}

// dayFilePath returns the path for the given date's JSON file.
func dayFilePath(base string, t time.Time) string {
	return filepath.Join(base, t.Format("2006"), t.Format("01"), t.Format("02")+".json")
}

// LoadDay loads the DayFile for the given date. Returns an empty DayFile if not found.
func LoadDay(base string, t time.Time) (model.DayFile, error) {
	path := dayFilePath(base, t)
	df, err := loadFile(path)
	if os.IsNotExist(err) {
		return model.DayFile{Date: t.Format("2006-01-02"), Reminders: []model.Reminder{}}, nil
	}
	return df, err
}

func loadFile(path string) (model.DayFile, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return model.DayFile{}, err
	}
	if err != nil {
		return model.DayFile{}, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var df model.DayFile
	if err := json.Unmarshal(data, &df); err != nil {
		// Back up corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return model.DayFile{}, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	return df, nil
}

// SaveDay atomically writes a DayFile for the given date.
func SaveDay(base string, t time.Time, df model.DayFile) error {
	path := dayFilePath(base, t)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(df, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// UpdateReminder replaces or appends a reminder in the DayFile for the given date.
func UpdateReminder(base string, day time.Time, r model.Reminder) error {
	df, err := LoadDay(base, day)
	if err != nil {
		return err
	}
	for i, e := range df.Reminders {
		if e.ID == r.ID {
			df.Reminders[i] = r
			return SaveDay(base, day, df)
		}
	}
	df.Reminders = append(df.Reminders, r)
	return SaveDay(base, day, df)
}

// LoadRange loads all reminders filed on the days in [from, to] inclusive.
func LoadRange(base string, from, to time.Time) ([]model.Reminder, error) {
	var reminders []model.Reminder
	for d := timecalc.StartOfDay(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		df, err := LoadDay(base, d)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, df.Reminders...)
	}
	return reminders, nil
}

// dayFiles lists every day file below base.
func dayFiles(base string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(base, "[0-9][0-9][0-9][0-9]", "[0-9][0-9]", "[0-9][0-9].json"))
	if err != nil {
		return nil, fmt.Errorf("storage error listing day files: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

// FileStore keeps one JSON file per due day below a base directory.
type FileStore struct {
	base string
}

// NewFileStore returns a FileStore rooted at base.
func NewFileStore(base string) *FileStore {
	return &FileStore{base: base}
}

// Save files r under the day it is due.
func (s *FileStore) Save(_ context.Context, r model.Reminder) error {
	return UpdateReminder(s.base, r.At, r)
}

func (s *FileStore) Range(ctx context.Context, from, to time.Time) ([]model.Reminder, error) {
	all, err := LoadRange(s.base, from, to)
	if err != nil {
		return nil, err
	}
	return within(all, from, to), ctx.Err()
}

func (s *FileStore) Upcoming(ctx context.Context, from time.Time) ([]model.Reminder, error) {
	paths, err := dayFiles(s.base)
	if err != nil {
		return nil, err
	}
	var out []model.Reminder
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		df, err := loadFile(p)
		if err != nil {
			return nil, err
		}
		for _, r := range df.Reminders {
			if !r.At.Before(from) {
				out = append(out, r)
			}
		}
	}
	sortByDue(out)
	return out, nil
}

func (s *FileStore) Due(_ context.Context, now time.Time) ([]model.Reminder, error) {
	df, err := LoadDay(s.base, now)
	if err != nil {
		return nil, err
	}
	var due []model.Reminder
	for _, r := range df.Reminders {
		if timecalc.SameMinute(r.At.In(now.Location()), now) {
			due = append(due, r)
		}
	}
	sortByDue(due)
	return due, nil
}

// Delete removes the reminder with the given id from whichever day file holds it.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	paths, err := dayFiles(s.base)
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		df, err := loadFile(p)
		if err != nil {
			return err
		}
		for i, r := range df.Reminders {
			if r.ID != id {
				continue
			}
			df.Reminders = append(df.Reminders[:i], df.Reminders[i+1:]...)
			day, err := time.ParseInLocation("2006-01-02", df.Date, time.Local)
			if err != nil {
				return fmt.Errorf("storage error: bad date %q in %s: %w", df.Date, p, err)
			}
			return SaveDay(s.base, day, df)
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Close is a no-op; files are closed after every operation.
func (s *FileStore) Close() error { return nil }

func within(rs []model.Reminder, from, to time.Time) []model.Reminder {
	var out []model.Reminder
	for _, r := range rs {
		if !r.At.Before(from) && !r.At.After(to) {
			out = append(out, r)
		}
	}
	sortByDue(out)
	return out
}

func sortByDue(rs []model.Reminder) {
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].At.Before(rs[j].At) })
}
