package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	apiTokenEnv = "STREAMSCHED_API_TOKEN"
	webhookEnv  = "STREAMSCHED_DISCORD_WEBHOOK"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeEditor()
	c.normalizeOverlay()
	c.normalizeAnnounce()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ConfigFile) == "" {
		c.Paths.ConfigFile = defaultConfigFile
	}
	if c.Paths.ConfigFile, err = expandPath(c.Paths.ConfigFile); err != nil {
		return fmt.Errorf("paths.config_file: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	if c.Paths.APIToken == "" {
		if value, ok := os.LookupEnv(apiTokenEnv); ok {
			c.Paths.APIToken = strings.TrimSpace(value)
		}
	}
	return nil
}

func (c *Config) normalizeEditor() {
	variant := strings.ToLower(strings.TrimSpace(c.Editor.Variant))
	switch variant {
	case "", EditorVariantPicker:
		variant = EditorVariantPicker
	case "free-text", "free_text", "text":
		variant = EditorVariantFreeText
	}
	c.Editor.Variant = variant
}

func (c *Config) normalizeOverlay() {
	c.Overlay.ExportScope = strings.ToLower(strings.TrimSpace(c.Overlay.ExportScope))
	if c.Overlay.RateLimit < 0 {
		c.Overlay.RateLimit = 0
	}
}

func (c *Config) normalizeAnnounce() {
	c.Announce.Timezone = strings.TrimSpace(c.Announce.Timezone)
	if c.Announce.Timezone == "" {
		c.Announce.Timezone = defaultTimezone
	}
	c.Announce.TimestampFormat = strings.TrimSpace(c.Announce.TimestampFormat)
	if c.Announce.TimestampFormat == "" {
		c.Announce.TimestampFormat = defaultTimestampFormat
	}
	c.Announce.WebhookURL = strings.TrimSpace(c.Announce.WebhookURL)
	if c.Announce.WebhookURL == "" {
		if value, ok := os.LookupEnv(webhookEnv); ok {
			c.Announce.WebhookURL = strings.TrimSpace(value)
		}
	}
	if c.Announce.WebhookTimeout <= 0 {
		c.Announce.WebhookTimeout = defaultWebhookTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
