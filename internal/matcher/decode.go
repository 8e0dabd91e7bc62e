package matcher

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/trivial-reminder/internal/dictionary"
)

// Canonical definition keys for relative dates.
const (
	Today            = "today"
	Tomorrow         = "tomorrow"
	DayAfterTomorrow = "day-after-tomorrow"
)

var relativeDays = map[string]int{
	Today:            0,
	Tomorrow:         1,
	DayAfterTomorrow: 2,
}

var dateLayouts = []string{"2006-01-02", "02-01-2006", "02.01.2006"}

var timeLayouts = []string{"15:04", "15"}

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func decodeDuration(token string, defs *dictionary.Dictionary) (int, bool) {
	n, err := strconv.Atoi(defs.Resolve(token))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func decodeUnit(token string, defs *dictionary.Dictionary) (string, bool) {
	return defs.Resolve(token), true
}

// decodeDate returns a calendar day (midnight in now's location).
func decodeDate(token string, defs *dictionary.Dictionary, now time.Time) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if d, err := time.ParseInLocation(layout, token, now.Location()); err == nil {
			return d, true
		}
	}
	offset, ok := relativeDays[defs.Resolve(token)]
	if !ok {
		return time.Time{}, false
	}
	return time.Date(now.Year(), now.Month(), now.Day()+offset, 0, 0, 0, 0, now.Location()), true
}

func decodeTime(token string) (Clock, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, token); err == nil {
			return Clock{Hour: t.Hour(), Minute: t.Minute()}, true
		}
	}
	return Clock{}, false
}

// decodeText joins tokens, replacing each through the replacements dictionary.
func decodeText(tokens []string, repl *dictionary.Dictionary) (string, bool) {
	if len(tokens) == 0 {
		return "", false
	}
	words := make([]string, len(tokens))
	for i, tok := range tokens {
		words[i] = repl.Resolve(tok)
	}
	return strings.Join(words, " "), true
}
