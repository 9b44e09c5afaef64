package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
)

// Discord timestamp styles accepted by announce.timestamp_format.
var timestampFormats = map[string]struct{}{
	"t": {}, "T": {}, "d": {}, "D": {}, "f": {}, "F": {}, "R": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateEditor(); err != nil {
		return err
	}
	if err := c.validateOverlay(); err != nil {
		return err
	}
	if err := c.validateAnnounce(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.ConfigFile == "" {
		return errors.New("paths.config_file must be set")
	}
	if _, _, err := net.SplitHostPort(c.Paths.APIBind); err != nil {
		return fmt.Errorf("paths.api_bind %q: %w", c.Paths.APIBind, err)
	}
	return nil
}

func (c *Config) validateEditor() error {
	switch c.Editor.Variant {
	case EditorVariantPicker, EditorVariantFreeText:
		return nil
	default:
		return fmt.Errorf("editor.variant must be %q or %q, got %q", EditorVariantPicker, EditorVariantFreeText, c.Editor.Variant)
	}
}

func (c *Config) validateOverlay() error {
	switch c.Overlay.ExportScope {
	case "", "today", "full":
		return nil
	default:
		return fmt.Errorf("overlay.export_scope must be empty, \"today\" or \"full\", got %q", c.Overlay.ExportScope)
	}
}

func (c *Config) validateAnnounce() error {
	if _, ok := timestampFormats[c.Announce.TimestampFormat]; !ok {
		return fmt.Errorf("announce.timestamp_format %q is not a Discord timestamp style", c.Announce.TimestampFormat)
	}
	if _, err := LoadTimezone(c.Announce.Timezone); err != nil {
		return fmt.Errorf("announce.timezone: %w", err)
	}
	if c.Announce.WebhookURL != "" {
		u, err := url.Parse(c.Announce.WebhookURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("announce.webhook_url %q must be an http(s) URL", c.Announce.WebhookURL)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}
