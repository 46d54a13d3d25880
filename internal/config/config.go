package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/textcore/internal/logging"
)

// Config is the full settings tree.
type Config struct {
	Editor EditorConfig      `toml:"editor" yaml:"editor"`
	Search SearchConfig      `toml:"search" yaml:"search"`
	Log    LogConfig         `toml:"log" yaml:"log"`
	Keys   map[string]string `toml:"keys" yaml:"keys"`
}

// EditorConfig holds editing behaviour.
type EditorConfig struct {
	TabSize        int      `toml:"tab_size" yaml:"tab_size"`
	UseTabs        bool     `toml:"use_tabs" yaml:"use_tabs"`
	AutoIndent     bool     `toml:"auto_indent" yaml:"auto_indent"`
	WordWrap       bool     `toml:"word_wrap" yaml:"word_wrap"`
	WrapColumn     int      `toml:"wrap_column" yaml:"wrap_column"` // 0 wraps at the viewport width
	SplitChars     string   `toml:"split_chars" yaml:"split_chars"`
	CamelCaseWords bool     `toml:"camel_case_words" yaml:"camel_case_words"`
	ReadOnly       bool     `toml:"read_only" yaml:"read_only"`
	HistoryLimit   int      `toml:"history_limit" yaml:"history_limit"`
	BlinkInterval  Duration `toml:"blink_interval" yaml:"blink_interval"` // 0 disables blinking
	Syntax         string   `toml:"syntax" yaml:"syntax"`                 // language name or path to a .lua script
}

// SearchConfig holds the default search options.
type SearchConfig struct {
	CaseSensitive bool `toml:"case_sensitive" yaml:"case_sensitive"`
	WholeWords    bool `toml:"whole_words" yaml:"whole_words"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
	File  string `toml:"file" yaml:"file"` // empty disables logging
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			TabSize:       4,
			AutoIndent:    true,
			SplitChars:    " -\t",
			HistoryLimit:  1000,
			BlinkInterval: Duration(530 * time.Millisecond),
		},
		Log: LogConfig{
			Level: "info",
		},
		Keys: map[string]string{},
	}
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Editor.TabSize < 1 || c.Editor.TabSize > 16 {
		add("editor.tab_size must be between 1 and 16, got %d", c.Editor.TabSize)
	}
	if c.Editor.WrapColumn < 0 {
		add("editor.wrap_column must not be negative, got %d", c.Editor.WrapColumn)
	}
	if c.Editor.HistoryLimit < 0 {
		add("editor.history_limit must not be negative, got %d", c.Editor.HistoryLimit)
	}
	if c.Editor.BlinkInterval < 0 {
		add("editor.blink_interval must not be negative, got %s", c.Editor.BlinkInterval)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		add("log.level: %v", err)
	}
	for key, action := range c.Keys {
		if key == "" || action == "" {
			add("keys: empty binding %q = %q", key, action)
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// LogLevel returns the parsed log level, defaulting to info.
func (c *Config) LogLevel() logging.Level {
	level, _ := logging.ParseLevel(c.Log.Level)
	return level
}

// Duration is a time.Duration written as "530ms" in config files.
type Duration time.Duration

// Std returns the standard library value.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String formats the duration like time.Duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a string like \"500ms\"", node.Line)
	}
	return d.UnmarshalText([]byte(node.Value))
}
