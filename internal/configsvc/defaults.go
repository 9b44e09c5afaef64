package configsvc

import (
	"encoding/json"
	"sync"
)

var (
	defaultRawOnce sync.Once
	defaultRaw     json.RawMessage
)

// DefaultRaw is Default encoded the way GET /api/config serves it.
func DefaultRaw() json.RawMessage {
	defaultRawOnce.Do(func() {
		data, err := json.MarshalIndent(Default(), "", "  ")
		if err != nil {
			panic("configsvc: encode default document: " + err.Error())
		}
		defaultRaw = append(data, '\n')
	})
	return append(json.RawMessage(nil), defaultRaw...)
}

// Default returns the document served when no file exists.
func Default() Document {
	return Document{
		Channel: Channel{
			Name: "Audacious Gabe",
			Link: "https://www.twitch.tv/audaciousgabe",
		},
		Theme:       "twilight",
		Timezone:    "EST",
		ExportScope: "full",
		Schedule: Schedule{
			Today:    DaySchedule{Type: "normal", Title: "Today's Stream"},
			Tomorrow: DaySchedule{Type: "work", Title: "Tomorrow's Stream"},
		},
		Discord: Discord{
			Templates: []Template{
				{
					Name:            "Stream Starting Soon",
					Title:           "🔴 Stream Starting Soon! 🔴",
					Message:         "@everyone Hey folks! Stream is starting soon!\n\n🎮 **Today's Schedule:**\n[today]\n\n📺 Join us at: [link]",
					UseTimestamp:    true,
					TimestampFormat: "R",
				},
				{
					Name:            "Stream Live",
					Title:           "🔴 WE'RE LIVE! 🔴",
					Message:         "@everyone We're live right now!\n\n🎮 **Today's Schedule:**\n[today]\n\n📺 Watch at: [link]",
					UseTimestamp:    true,
					TimestampFormat: "t",
				},
				{
					Name:            "Schedule Update",
					Title:           "📅 Schedule Update 📅",
					Message:         "Hey everyone! Here's our streaming schedule:\n\n**Today:**\n[today]\n\n**Tomorrow:**\n[tomorrow]\n\n[timezone]",
					UseTimestamp:    true,
					TimestampFormat: "f",
				},
				{
					Name:            "Custom Stream Schedule",
					Title:           "Doubling our Usual Hours! ✨👏",
					Message:         "@Twitch Enjoyers : [title]\n\nI will be streaming on Twitch ``Today`` from:\n\n[today]\n\n``Tomorrow`` I'll be streaming from:\n\n[tomorrow]\n\n[timezone]\n\n[link]",
					UseTimestamp:    true,
					TimestampFormat: "t",
				},
			},
			CurrentTemplate: 3,
		},
	}
}
