package matcher_test

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Tiliavir/trivial-reminder/internal/dictionary"
	"github.com/Tiliavir/trivial-reminder/internal/matcher"
	"github.com/Tiliavir/trivial-reminder/internal/template"
)

const testTemplates = `in [DURATION] [UNIT] at [TIME] [TEXT];+
[DURATION] [UNIT] after [DATE] [TEXT];+
[DURATION] [UNIT] before [DATE] [TEXT];-
in [DURATION] [UNIT] [TEXT];+
[DATE] at [TIME] [TEXT]
at [TIME] [TEXT]
on [DATE] [TEXT]
next [UNIT] [TEXT];+
`

const testDefinitions = `minute=minute,minutes,min
hour=hour,hours
day=day,days
week=week,weeks
month=month,months
year=year,years
today=today,later
tomorrow=tomorrow,tmrw
day-after-tomorrow=overmorrow
1=a,an,one
`

const testReplacements = `mom=mum,mommy
`

func newEngine(t *testing.T, templates string, opts ...matcher.Option) *matcher.Engine {
	t.Helper()
	tpls, err := template.Parse(strings.NewReader(templates))
	require.NoError(t, err)
	defs, err := dictionary.Parse(strings.NewReader(testDefinitions))
	require.NoError(t, err)
	repl, err := dictionary.Parse(strings.NewReader(testReplacements))
	require.NoError(t, err)
	return matcher.New(tpls, defs, repl, opts...)
}

func date(y int, m time.Month, d, hour, minute int) time.Time {
	return time.Date(y, m, d, hour, minute, 0, 0, time.UTC)
}

func TestMatch(t *testing.T) {
	e := newEngine(t, testTemplates, matcher.WithFillerWords("o'clock"))
	now := date(2024, 1, 10, 9, 15)

	tests := []struct {
		name     string
		text     string
		now      time.Time
		wantAt   time.Time
		wantText string
	}{
		{"duration with time", "in 3 days at 14:00 call mom", now, date(2024, 1, 13, 14, 0), "call mom"},
		{"after date", "3 days after 2024-01-10 pay rent", now, date(2024, 1, 13, 12, 0), "pay rent"},
		{"before date", "3 days before 2024-01-10 pay rent", now, date(2024, 1, 7, 12, 0), "pay rent"},
		{"relative date", "tomorrow at 9 call mum", date(2024, 6, 1, 20, 0), date(2024, 6, 2, 9, 0), "call mom"},
		{"day after tomorrow", "overmorrow at 07:30 gym", now, date(2024, 1, 12, 7, 30), "gym"},
		{"time only", "at 18:30 water plants", now, date(2024, 1, 10, 18, 30), "water plants"},
		{"dashed date", "on 24-12-2024 buy presents", now, date(2024, 12, 24, 12, 0), "buy presents"},
		{"dotted date", "on 24.12.2024 buy presents", now, date(2024, 12, 24, 12, 0), "buy presents"},
		{"number word", "in an hour stretch", now, date(2024, 1, 10, 13, 0), "stretch"},
		{"unit without duration", "next week review", now, date(2024, 1, 17, 12, 0), "review"},
		{"filler word", "at 14 o'clock call mom", now, date(2024, 1, 10, 14, 0), "call mom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.Match(tt.text, tt.now)
			require.NoError(t, err)
			assert.True(t, tt.wantAt.Equal(res.At), "At = %v, want %v", res.At, tt.wantAt)
			assert.Equal(t, tt.wantText, res.Text)
		})
	}
}

func TestMatchFields(t *testing.T) {
	e := newEngine(t, testTemplates)
	res, err := e.Match("in 3 days at 14:00 call mom", date(2024, 1, 10, 9, 0))
	require.NoError(t, err)

	f := res.Fields
	require.NotNil(t, f.Duration)
	require.NotNil(t, f.Unit)
	require.NotNil(t, f.Time)
	require.NotNil(t, f.Text)
	assert.Nil(t, f.Date)
	assert.Equal(t, 3, *f.Duration)
	assert.Equal(t, "day", *f.Unit)
	assert.Equal(t, matcher.Clock{Hour: 14}, *f.Time)
	assert.Equal(t, "14:00", f.Time.String())
	assert.Equal(t, "call mom", *f.Text)
	assert.Equal(t, "in [DURATION] [UNIT] at [TIME] [TEXT];+", res.Template)
}

func TestMatchFirstTemplateWins(t *testing.T) {
	now := date(2024, 1, 10, 9, 0)
	text := "in 2 days pay rent"

	forward := newEngine(t, "in [DURATION] [UNIT] [TEXT];+\nin [DURATION] [UNIT] [TEXT];-\n")
	res, err := forward.Match(text, now)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 1, 12, 12, 0), res.At)

	backward := newEngine(t, "in [DURATION] [UNIT] [TEXT];-\nin [DURATION] [UNIT] [TEXT];+\n")
	res, err = backward.Match(text, now)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 1, 8, 12, 0), res.At)
}

func TestMatchInvalidUnit(t *testing.T) {
	e := newEngine(t, testTemplates)
	_, err := e.Match("in 3 fortnights call", date(2024, 1, 10, 9, 0))

	var iu *matcher.InvalidUnitError
	require.True(t, errors.As(err, &iu), "err = %v", err)
	assert.Equal(t, "fortnights", iu.Unit)
}

func TestMatchInvalidDuration(t *testing.T) {
	e := newEngine(t, testTemplates)
	tests := []struct {
		text string
		want string
	}{
		{"in several days call mom", "several"},
		{"in -3 days call mom", "-3"},
		{"in 99999999999999999 years call mom", "99999999999999999"},
		{"3 days after 2024-01-10 pay rent", ""},
	}
	for _, tt := range tests {
		res, err := e.Match(tt.text, date(2024, 1, 10, 9, 0))
		if tt.want == "" {
			assert.NoError(t, err, tt.text)
			continue
		}
		var id *matcher.InvalidDurationError
		require.True(t, errors.As(err, &id), "Match(%q) = %v, %v", tt.text, res.At, err)
		assert.Equal(t, tt.want, id.Duration)
	}
}

func TestMatchNoTemplate(t *testing.T) {
	e := newEngine(t, testTemplates)
	for _, text := range []string{"buy milk", "", "on tomorrow"} {
		_, err := e.Match(text, date(2024, 1, 10, 9, 0))
		assert.True(t, errors.Is(err, matcher.ErrNoTemplateMatched), "Match(%q) err = %v", text, err)
	}
}

func TestMatchRequiresTemporalField(t *testing.T) {
	now := date(2024, 1, 10, 9, 0)

	alone := newEngine(t, "remind [TIME] [TEXT]\n")
	_, err := alone.Match("remind later buy milk", now)
	assert.ErrorIs(t, err, matcher.ErrNoTemplateMatched)

	withFallback := newEngine(t, "remind [TIME] [TEXT]\nremind [DATE] [TEXT]\n")
	res, err := withFallback.Match("remind later buy milk", now)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 1, 10, 12, 0), res.At)
	assert.Equal(t, "buy milk", res.Text)
	assert.Equal(t, "remind [DATE] [TEXT];-", res.Template)
}

func TestMatchRequiresText(t *testing.T) {
	e := newEngine(t, "at [TIME]\n")
	_, err := e.Match("at 10 ", date(2024, 1, 10, 9, 0))
	assert.ErrorIs(t, err, matcher.ErrNoTemplateMatched)
}

// Literal words are removed wherever they occur, including inside the text.
func TestMatchStripsLiteralsGlobally(t *testing.T) {
	e := newEngine(t, testTemplates)
	res, err := e.Match("at 9 look at stars", date(2024, 1, 10, 9, 0))
	require.NoError(t, err)
	assert.Equal(t, "look stars", res.Text)
	assert.Equal(t, date(2024, 1, 10, 9, 0), res.At)
}

func TestMatchKeepsLocation(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	e := newEngine(t, testTemplates)
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, loc)

	res, err := e.Match("tomorrow at 10:15 standup", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 2, 10, 15, 0, 0, loc), res.At)
	assert.Equal(t, loc, res.At.Location())
}

func TestMatchConcurrent(t *testing.T) {
	e := newEngine(t, testTemplates)
	now := date(2024, 1, 10, 9, 0)

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.Match("in 3 days at 14:00 call mom", now)
			if err != nil {
				errs <- err
				return
			}
			if !res.At.Equal(date(2024, 1, 13, 14, 0)) {
				errs <- errors.New("unexpected result " + res.At.String())
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestMatchLogsAttempts(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := newEngine(t, testTemplates, matcher.WithLogger(zap.New(core)))

	_, err := e.Match("at 18:30 water plants", date(2024, 1, 10, 9, 0))
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("template rejected").Len())
	accepted := logs.FilterMessage("template accepted").All()
	require.Len(t, accepted, 1)
	assert.Equal(t, "at [TIME] [TEXT];-", accepted[0].ContextMap()["template"])
}

func TestTemplatesKeepOrder(t *testing.T) {
	e := newEngine(t, testTemplates)
	tpls := e.Templates()
	require.Len(t, tpls, 8)
	assert.Equal(t, "in [DURATION] [UNIT] at [TIME] [TEXT];+", tpls[0].String())
	assert.Equal(t, "next [UNIT] [TEXT];+", tpls[7].String())
}
