// Package announce renders Discord announcement text from a template and the
// slot collections selected for today and tomorrow.
package announce

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"streamsched/internal/config"
	"streamsched/internal/configsvc"
	"streamsched/internal/schedule"
)

// AutoTimezoneText replaces [timezone] when Discord timestamps are used.
const AutoTimezoneText = "``Times auto-adjust to your timezone!``"

// DefaultTimestampFormat is the Discord style used when none is set.
const DefaultTimestampFormat = "t"

// Message is a rendered announcement.
type Message struct {
	Template string `json:"template"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Today    string `json:"today"`
	Tomorrow string `json:"tomorrow"`
}

// Options controls timestamp generation. Zero values use the template's
// settings, the local zone and the current time.
type Options struct {
	Location      *time.Location
	Now           time.Time
	UseTimestamps *bool
	// TimestampFormat overrides the template's style.
	TimestampFormat string
	// DefaultFormat is used when neither the override nor the template sets one.
	DefaultFormat string
}

// OptionsFor builds options from the application settings. A timezone that
// cannot be loaded falls back to the local zone and is reported.
func OptionsFor(settings config.Announce) (Options, error) {
	loc, err := LoadLocation(settings.Timezone)
	opts := Options{Location: loc, DefaultFormat: settings.TimestampFormat}
	if !settings.UseTimestamps {
		off := false
		opts.UseTimestamps = &off
	}
	return opts, err
}

// Render fills the template's placeholders using the collections that the
// document's schedule types select.
func Render(doc configsvc.Document, tpl configsvc.Template, snap schedule.Snapshot, opts Options) Message {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.In(loc)

	useTimestamps := tpl.UseTimestamp
	if opts.UseTimestamps != nil {
		useTimestamps = *opts.UseTimestamps
	}
	format := firstNonEmpty(opts.TimestampFormat, tpl.TimestampFormat, opts.DefaultFormat, DefaultTimestampFormat)

	today := dayStart(now)
	tomorrow := today.AddDate(0, 0, 1)

	// Documents saved without a type fall back to the default pairing.
	todayType := firstNonEmpty(doc.Schedule.Today.Type, string(schedule.Normal))
	tomorrowType := firstNonEmpty(doc.Schedule.Tomorrow.Type, string(schedule.Work))
	todaySlots := snap[schedule.KeyFor(schedule.Today, schedule.Type(todayType))]
	tomorrowSlots := snap[schedule.KeyFor(schedule.Tomorrow, schedule.Type(tomorrowType))]

	todayText := FormatSlots(todaySlots, today, useTimestamps, format)
	tomorrowText := FormatSlots(tomorrowSlots, tomorrow, useTimestamps, format)

	timezoneText := AutoTimezoneText
	if !useTimestamps {
		timezoneText = "``" + doc.Timezone + "``"
	}

	caser := cases.Title(language.English)
	pairs := []string{
		"{{link}}", doc.Channel.Link,
		"{{channel}}", doc.Channel.Name,
		"{{timezone}}", doc.Timezone,
		"{{today_type}}", caser.String(todayType),
		"{{tomorrow_type}}", caser.String(tomorrowType),
		"{{schedule}}", todayText,
		"{{today_schedule}}", todayText,
		"{{tomorrow_schedule}}", tomorrowText,
		"[today]", todayText,
		"[tomorrow]", tomorrowText,
		"[timezone]", timezoneText,
		"[link]", doc.Channel.Link,
	}
	title := strings.NewReplacer(pairs...).Replace(tpl.Title)
	body := strings.NewReplacer(append(pairs, "[title]", title)...).Replace(tpl.Message)
	return Message{
		Template: tpl.Name,
		Title:    title,
		Body:     body,
		Today:    todayText,
		Tomorrow: tomorrowText,
	}
}

// Text is the message as posted: the title in bold, a blank line, then the
// body. An empty title leaves just the body.
func (m Message) Text() string {
	title := strings.TrimSpace(m.Title)
	if title == "" {
		return m.Body
	}
	return "**" + title + "**\n\n" + m.Body
}

// FormatSlots renders one line per slot. With timestamps, each parsable range
// becomes a pair of Discord timestamps anchored on date; a range ending
// before its start or exactly at midnight ends on the following day.
func FormatSlots(slots []schedule.Slot, date time.Time, useTimestamps bool, format string) string {
	lines := make([]string, 0, len(slots))
	for _, slot := range slots {
		lines = append(lines, formatSlot(slot, date, useTimestamps, format))
	}
	return strings.Join(lines, "\n")
}

func formatSlot(slot schedule.Slot, date time.Time, useTimestamps bool, format string) string {
	plain := fmt.Sprintf("• **%s** - %s: %s", slot.Time, slot.Title, slot.Desc)
	if !useTimestamps {
		return plain
	}
	start, end, err := schedule.ParseRange(slot.Time)
	if err != nil {
		return plain
	}
	startAt := at(date, start)
	endDate := date
	if end.Hour24() < start.Hour24() || (end.Hour24() == 0 && end.Minute == 0) {
		endDate = date.AddDate(0, 0, 1)
	}
	endAt := at(endDate, end)
	return fmt.Sprintf("• %s to %s - **%s**: %s", Timestamp(startAt, format), Timestamp(endAt, format), slot.Title, slot.Desc)
}

// Timestamp renders a Discord timestamp tag.
func Timestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// Heading renders "Today: Normal" style labels for a day's schedule.
func Heading(day schedule.Day, typ string) string {
	caser := cases.Title(language.English)
	return caser.String(string(day)) + ": " + caser.String(typ)
}

// LoadLocation resolves a timezone name or US abbreviation such as CST,
// falling back to the local zone when it cannot be loaded.
func LoadLocation(name string) (*time.Location, error) {
	loc, err := config.LoadTimezone(name)
	if err != nil {
		return time.Local, err
	}
	return loc, nil
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func at(date time.Time, c schedule.ClockTime) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, c.Hour24(), c.Minute, 0, 0, date.Location())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
