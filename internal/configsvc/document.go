// Package configsvc stores the overlay configuration document: channel,
// theme, timezone, export scope, per-day schedule type, and Discord
// templates. The document is unrelated to slot data. It lives in a JSON file
// that POST /api/config overwrites wholesale with the bytes it received; the
// typed Document is only a read view of the fields the daemon uses, so keys
// it does not know survive a save untouched.
package configsvc

import "encoding/json"

// Document is the typed view of the configuration document.
type Document struct {
	Channel     Channel         `json:"channel"`
	Theme       string          `json:"theme"`
	Timezone    string          `json:"timezone"`
	ExportScope string          `json:"exportScope" validate:"omitempty,oneof=today full"`
	Schedule    Schedule        `json:"schedule"`
	Discord     Discord         `json:"discord"`
	Layout      json.RawMessage `json:"layout,omitempty"`
}

// Channel identifies the streamer's channel.
type Channel struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// Schedule selects the schedule type shown for each day.
type Schedule struct {
	Today    DaySchedule `json:"today"`
	Tomorrow DaySchedule `json:"tomorrow"`
}

// DaySchedule is one day's type and heading.
type DaySchedule struct {
	Type  string `json:"type" validate:"omitempty,oneof=normal work"`
	Title string `json:"title"`
}

// Discord holds announcement templates.
type Discord struct {
	Templates       []Template `json:"templates" validate:"dive"`
	CurrentTemplate int        `json:"currentTemplate" validate:"min=0"`
}

// Template is one announcement template. Title and Message may use the
// [title], [today], [tomorrow], [timezone] and [link] placeholders or the
// {{channel}}, {{link}}, {{timezone}}, {{today_type}}, {{tomorrow_type}},
// {{schedule}}, {{today_schedule}} and {{tomorrow_schedule}} set.
type Template struct {
	Name            string `json:"name"`
	Title           string `json:"title"`
	Message         string `json:"message"`
	UseTimestamp    bool   `json:"useTimestamp"`
	TimestampFormat string `json:"timestampFormat" validate:"omitempty,oneof=t T d D f F R"`
}

// ExportScopeOrDefault returns the export scope, treating empty as "full".
func (d Document) ExportScopeOrDefault() string {
	if d.ExportScope == "" {
		return "full"
	}
	return d.ExportScope
}

// ActiveTemplate returns the current Discord template, if any.
func (d Document) ActiveTemplate() (Template, bool) {
	if len(d.Discord.Templates) == 0 {
		return Template{}, false
	}
	idx := d.Discord.CurrentTemplate
	if idx < 0 || idx >= len(d.Discord.Templates) {
		idx = 0
	}
	return d.Discord.Templates[idx], true
}

// Result reports the outcome of a save.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
