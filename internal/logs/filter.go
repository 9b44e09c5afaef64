package logs

import (
	"encoding/json"
	"strings"

	"streamsched/internal/logging"
)

// Filter selects log lines. The zero value matches everything.
type Filter struct {
	Component  string
	Collection string
}

func (f Filter) empty() bool {
	return f.Component == "" && f.Collection == ""
}

// Match reports whether line passes the filter. JSON records are matched on
// their fields; console lines on the "component:" prefix and "[collection]"
// suffix the console handler writes.
func (f Filter) Match(line string) bool {
	if f.empty() {
		return true
	}
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "{") {
		var record map[string]any
		if err := json.Unmarshal([]byte(trimmed), &record); err == nil {
			return f.matchField(record, logging.FieldComponent, f.Component) &&
				f.matchField(record, logging.FieldCollection, f.Collection)
		}
	}
	if f.Component != "" && !strings.Contains(line, " "+f.Component+": ") {
		return false
	}
	if f.Collection != "" && !strings.Contains(line, "["+f.Collection+"]") {
		return false
	}
	return true
}

func (f Filter) matchField(record map[string]any, key, want string) bool {
	if want == "" {
		return true
	}
	value, ok := record[key].(string)
	return ok && strings.EqualFold(value, want)
}
