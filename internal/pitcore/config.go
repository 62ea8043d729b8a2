package pitcore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// Config is the merged view of the global ~/.pitconfig and the repository's
// .pit/config. Local values override global ones key-by-key.
type Config struct {
	file *ini.File
}

// LoadConfig reads and merges the global and local INI config files.
// Missing files are treated as empty.
func (r *Repository) LoadConfig() (*Config, error) {
	sources := make([]any, 0, 2)
	if global := globalConfigPath(); global != "" {
		sources = append(sources, global)
	}
	sources = append(sources, r.configPath())

	// ini applies later sources over earlier ones, giving the local
	// repository config the last word.
	file, err := ini.LooseLoad(sources[0], sources[1:]...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &Config{file: file}, nil
}

// globalConfigPath returns ~/.pitconfig, or "" when the home directory
// cannot be determined.
func globalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pitconfig")
}

// Identity returns the configured user name and email. Both must be set;
// absence is ErrNoIdentity.
func (c *Config) Identity() (name, email string, err error) {
	user := c.file.Section("user")
	name = user.Key("name").String()
	email = user.Key("email").String()
	if name == "" || email == "" {
		return "", "", fmt.Errorf("%w: set user.name and user.email", ErrNoIdentity)
	}
	return name, email, nil
}

// Alias returns the expansion tokens for a command alias, or nil when the
// name is not aliased.
func (c *Config) Alias(name string) []string {
	value := c.file.Section("alias").Key(name).String()
	if value == "" {
		return nil
	}
	return strings.Fields(value)
}

// DiffTool returns the [diff] tool command template, or "".
func (c *Config) DiffTool() string {
	return c.file.Section("diff").Key("tool").String()
}

// MergeTool returns the [merge] tool command template, or "".
func (c *Config) MergeTool() string {
	return c.file.Section("merge").Key("tool").String()
}

// Get looks up a dotted "section.key" in the merged config.
func (c *Config) Get(key string) (string, error) {
	section, option, ok := strings.Cut(key, ".")
	if !ok {
		return "", fmt.Errorf("invalid config key %q: expected section.key", key)
	}
	return c.file.Section(section).Key(option).String(), nil
}

// SetConfig writes a dotted "section.key" value to the repository's local
// config file, creating the section as needed.
func (r *Repository) SetConfig(key, value string) error {
	section, option, ok := strings.Cut(key, ".")
	if !ok {
		return fmt.Errorf("invalid config key %q: expected section.key", key)
	}

	file, err := ini.LooseLoad(r.configPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	file.Section(section).Key(option).SetValue(value)

	if err := file.SaveTo(r.configPath()); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}
