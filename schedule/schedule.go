// Package schedule decides when a post becomes visible. Authors write publish
// times as wall-clock datetimes in the site's configured IANA timezone; this
// package converts them to UTC instants and gates visibility against an
// injected clock, an early-visibility margin, and the draft flag.
//
// Nothing here returns an error. A bad datetime or an unknown timezone on one
// post is never worth failing a whole site over, so every failure mode
// degrades to a best-effort UTC interpretation and a warn log. The worst
// outcome is a post appearing a few hours off schedule.
package schedule

import (
	"time"

	"github.com/rs/zerolog"
)

// maxIterations caps the fixed-point correction loop in resolve. Normal
// inputs converge in two or three passes; only wall-clock times that do not
// exist (the DST spring-forward gap) oscillate between the two candidate
// offsets and run the loop out. Raising this does not help those inputs,
// it only delays returning the best available guess.
const maxIterations = 25

const (
	msPerSecond = int64(1000)
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

var logger = zerolog.Nop()

// SetLogger installs the logger used for degraded-mode warnings.
// The zero state is a no-op logger, which keeps tests quiet.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// Record is the slice of a content item the publication filter looks at.
type Record struct {
	Draft       bool
	PubDatetime string
}

// Env carries the site-wide evaluation context into IsPublished. NowMs is
// injected rather than read from the wall clock so callers stay deterministic
// under test and safe to run in parallel.
type Env struct {
	DevMode  bool
	Timezone string
	MarginMs int64
	NowMs    int64
}

// IsPublished reports whether a record is visible at env.NowMs.
//
// Drafts are never visible, regardless of time or mode. In dev mode every
// non-draft record is visible immediately so authors can preview scheduled
// posts. In production the publish instant is resolved in env.Timezone and
// pulled back by env.MarginMs, which lets a post surface slightly ahead of
// its nominal time to absorb cache latency.
func IsPublished(rec Record, env Env) bool {
	if rec.Draft {
		return false
	}
	if env.DevMode {
		return true
	}
	publishMs := ResolveUTCMillis(rec.PubDatetime, env.Timezone)
	return env.NowMs > publishMs-env.MarginMs
}

// wallClock holds the six civil time fields of a local datetime.
type wallClock struct {
	year, month, day     int
	hour, minute, second int
}

func wallClockOf(t time.Time) wallClock {
	return wallClock{
		year:   t.Year(),
		month:  int(t.Month()),
		day:    t.Day(),
		hour:   t.Hour(),
		minute: t.Minute(),
		second: t.Second(),
	}
}

// asUTCMillis treats the fields as if they were UTC, which is both the
// iteration seed and the degraded-mode fallback value.
func (w wallClock) asUTCMillis() int64 {
	return time.Date(w.year, time.Month(w.month), w.day, w.hour, w.minute, w.second, 0, time.UTC).UnixMilli()
}

// parseLayouts are tried in order against incoming datetime strings.
// A bare date means midnight.
var parseLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseWallClock(s string) (wallClock, bool) {
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return wallClockOf(t), true
		}
	}
	return wallClock{}, false
}

// ResolveUTCMillis converts a wall-clock datetime in the named IANA timezone
// to a UTC millisecond timestamp.
//
// Degraded modes, in order: a string carrying its own offset (RFC 3339) is
// trusted as-is; a string that parses into six civil fields but names an
// unresolvable zone is interpreted as UTC; a string that does not parse at
// all resolves to the epoch, which errs toward showing the post rather than
// hiding it forever. None of these paths fail.
func ResolveUTCMillis(localDateTime, zone string) int64 {
	wc, ok := parseWallClock(localDateTime)
	if !ok {
		if t, err := time.Parse(time.RFC3339, localDateTime); err == nil {
			return t.UnixMilli()
		}
		logger.Warn().Str("datetime", localDateTime).Msg("unparseable publish datetime, treating as epoch")
		return 0
	}
	return resolve(wc, zone)
}

// ResolveTimeUTCMillis resolves a time.Time whose civil fields are to be
// reinterpreted as wall-clock time in the named zone. The value's own
// location is deliberately ignored.
func ResolveTimeUTCMillis(t time.Time, zone string) int64 {
	return resolve(wallClockOf(t), zone)
}

// resolve finds the UTC instant whose representation in zone has exactly the
// target civil fields, by fixed-point iteration against the Go runtime's own
// tz database instead of a hand-maintained offset table.
//
// The delta uses coarse approximations (months as 30 days, years as 365);
// that only affects how fast the loop converges, since every pass re-checks
// the real formatted fields. Two wall-clock edge cases exist: a time inside
// the spring-forward gap never converges and returns whichever side of the
// gap the loop last visited, and a time inside the fall-back overlap settles
// on the earlier (daylight-saving) of its two UTC candidates, because the
// UTC seed approaches it from below. Both are deterministic.
func resolve(wc wallClock, zone string) int64 {
	guess := wc.asUTCMillis()

	loc, err := time.LoadLocation(zone)
	if err != nil {
		logger.Warn().Str("timezone", zone).Err(err).Msg("unresolvable timezone, interpreting publish datetime as UTC")
		return guess
	}

	for i := 0; i < maxIterations; i++ {
		got := wallClockOf(time.UnixMilli(guess).In(loc))
		if got == wc {
			return guess
		}
		guess -= approxDeltaMillis(got, wc)
	}
	return guess
}

// approxDeltaMillis estimates how far got is ahead of want, field by field.
func approxDeltaMillis(got, want wallClock) int64 {
	days := int64(got.year-want.year)*365 +
		int64(got.month-want.month)*30 +
		int64(got.day-want.day)
	return days*msPerDay +
		int64(got.hour-want.hour)*msPerHour +
		int64(got.minute-want.minute)*msPerMinute +
		int64(got.second-want.second)*msPerSecond
}
