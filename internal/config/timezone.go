package config

import (
	"fmt"
	"strings"
	"time"
	// Zone lookups must not depend on the host's zoneinfo files.
	_ "time/tzdata"
)

// timezoneAliases maps the US abbreviations people type into
// announce.timezone to zones that observe daylight saving. The tz database
// entries named EST and MST are fixed offsets, so the alias wins.
var timezoneAliases = map[string]string{
	"EST":  "America/New_York",
	"EDT":  "America/New_York",
	"CST":  "America/Chicago",
	"CDT":  "America/Chicago",
	"MST":  "America/Denver",
	"MDT":  "America/Denver",
	"PST":  "America/Los_Angeles",
	"PDT":  "America/Los_Angeles",
	"AKST": "America/Anchorage",
	"HST":  "Pacific/Honolulu",
}

// LoadTimezone resolves an IANA zone name or one of the US abbreviations
// above. "Local" and the empty string select the host zone.
func LoadTimezone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.Local, nil
	}
	if alias, ok := timezoneAliases[strings.ToUpper(name)]; ok {
		name = alias
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}
