package config

import (
	"fmt"
	"strconv"
	"time"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "TEXTCORE_"

// envSetter applies one environment value.
type envSetter func(c *Config, v string) error

var envSettings = map[string]envSetter{
	"TAB_SIZE":         intSetting(func(c *Config) *int { return &c.Editor.TabSize }),
	"USE_TABS":         boolSetting(func(c *Config) *bool { return &c.Editor.UseTabs }),
	"AUTO_INDENT":      boolSetting(func(c *Config) *bool { return &c.Editor.AutoIndent }),
	"WORD_WRAP":        boolSetting(func(c *Config) *bool { return &c.Editor.WordWrap }),
	"WRAP_COLUMN":      intSetting(func(c *Config) *int { return &c.Editor.WrapColumn }),
	"CAMEL_CASE_WORDS": boolSetting(func(c *Config) *bool { return &c.Editor.CamelCaseWords }),
	"READ_ONLY":        boolSetting(func(c *Config) *bool { return &c.Editor.ReadOnly }),
	"HISTORY_LIMIT":    intSetting(func(c *Config) *int { return &c.Editor.HistoryLimit }),
	"SYNTAX":           stringSetting(func(c *Config) *string { return &c.Editor.Syntax }),
	"CASE_SENSITIVE":   boolSetting(func(c *Config) *bool { return &c.Search.CaseSensitive }),
	"WHOLE_WORDS":      boolSetting(func(c *Config) *bool { return &c.Search.WholeWords }),
	"LOG_LEVEL":        stringSetting(func(c *Config) *string { return &c.Log.Level }),
	"LOG_FILE":         stringSetting(func(c *Config) *string { return &c.Log.File }),
	"BLINK_INTERVAL": func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		c.Editor.BlinkInterval = Duration(d)
		return nil
	},
}

// ApplyEnv overrides settings from TEXTCORE_* variables found by lookup
// (normally os.LookupEnv).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for name, set := range envSettings {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		if err := set(c, v); err != nil {
			return fmt.Errorf("%w: %s%s=%q: %v", ErrInvalid, EnvPrefix, name, v, err)
		}
	}
	return nil
}

func intSetting(field func(*Config) *int) envSetter {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func boolSetting(field func(*Config) *bool) envSetter {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}

func stringSetting(field func(*Config) *string) envSetter {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}
