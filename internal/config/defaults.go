package config

const (
	defaultDataDir         = "~/.local/share/streamsched"
	defaultLogDir          = "~/.local/share/streamsched/logs"
	defaultConfigFile      = "~/.local/share/streamsched/config.json"
	defaultAPIBind         = "127.0.0.1:5555"
	defaultEditorVariant   = EditorVariantPicker
	defaultExportScope     = ""
	defaultRateLimit       = 120
	defaultTimezone        = "EST"
	defaultTimestampFormat = "t"
	defaultWebhookTimeout  = 10
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"

	databaseFileName = "streamsched.db"
	lockFileName     = "streamschedd.lock"
	logFileName      = "streamsched.log"
)

// Editor variants.
const (
	EditorVariantPicker   = "picker"
	EditorVariantFreeText = "freetext"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
			ConfigFile: defaultConfigFile,
			APIBind:    defaultAPIBind,
		},
		Editor: Editor{
			Variant: defaultEditorVariant,
		},
		Overlay: Overlay{
			ExportScope: defaultExportScope,
			RateLimit:   defaultRateLimit,
		},
		Announce: Announce{
			Timezone:        defaultTimezone,
			TimestampFormat: defaultTimestampFormat,
			UseTimestamps:   true,
			WebhookTimeout:  defaultWebhookTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
