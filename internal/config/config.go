package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

var (
	embeddedOnce sync.Once
	embedded     Config
	embeddedErr  error
)

// DefaultYAML returns a copy of the embedded default configuration.
func DefaultYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default parses the embedded default configuration. It is the single
// source of default settings and themes.
func Default() (Config, error) {
	embeddedOnce.Do(func() {
		if len(embeddedDefaultConfig) == 0 {
			embeddedErr = errors.New("embedded default config is empty")
			return
		}
		embedded, embeddedErr = Parse(embeddedDefaultConfig)
		if embeddedErr == nil && (embedded.Theme.Default == "" || len(embedded.Themes) == 0) {
			embeddedErr = errors.New("default config is missing required theme defaults")
		}
	})
	return embedded.clone(), embeddedErr
}

// Parse decodes one configuration document. Unknown keys are rejected so
// typos surface instead of being ignored.
func Parse(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Load returns the defaults merged with the file at path. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, fmt.Errorf("load default config: %w", err)
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	user, err := Parse(data)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return Merge(cfg, user), nil
}

// Merge overlays the set fields of override onto base. Themes merge per
// color; a theme unknown to base starts from base's default theme.
func Merge(base, override Config) Config {
	out := base.clone()
	if override.App.Name != "" {
		out.App.Name = override.App.Name
	}
	if override.App.Description != "" {
		out.App.Description = override.App.Description
	}
	out.Render = mergeRender(out.Render, override.Render)
	if override.Theme.Default != "" {
		out.Theme.Default = override.Theme.Default
	}
	for name, th := range override.Themes {
		b, ok := out.Themes[name]
		if !ok {
			b = base.Themes[base.Theme.Default]
		}
		out.Themes[name] = mergeTheme(b, th)
	}
	return out
}

func mergeRender(base, o RenderConfig) RenderConfig {
	if o.ShowIcon != nil {
		base.ShowIcon = o.ShowIcon
	}
	if o.HideIcon != nil {
		base.HideIcon = o.HideIcon
	}
	if o.ShowLevel != nil {
		base.ShowLevel = o.ShowLevel
	}
	if o.MaxStringLength != nil {
		base.MaxStringLength = o.MaxStringLength
	}
	if o.SortObjects != nil {
		base.SortObjects = o.SortObjects
	}
	if o.Properties != nil {
		base.Properties = append([]string(nil), o.Properties...)
	}
	if o.CollapseMsg != nil {
		base.CollapseMsg = o.CollapseMsg
	}
	if o.Transform != nil {
		base.Transform = o.Transform
	}
	if o.DecodeNested != nil {
		base.DecodeNested = o.DecodeNested
	}
	if o.Output != nil {
		base.Output = o.Output
	}
	return base
}

func mergeTheme(base, o ThemeConfig) ThemeConfig {
	pick := func(b, v ColorValue) ColorValue {
		if v != "" {
			return v
		}
		return b
	}
	return ThemeConfig{
		Syntax:     pick(base.Syntax, o.Syntax),
		String:     pick(base.String, o.String),
		Number:     pick(base.Number, o.Number),
		Boolean:    pick(base.Boolean, o.Boolean),
		Key:        pick(base.Key, o.Key),
		Keyword:    pick(base.Keyword, o.Keyword),
		Disclosure: pick(base.Disclosure, o.Disclosure),
		FocusFG:    pick(base.FocusFG, o.FocusFG),
		FocusBG:    pick(base.FocusBG, o.FocusBG),
		HelpKey:    pick(base.HelpKey, o.HelpKey),
		HelpValue:  pick(base.HelpValue, o.HelpValue),
	}
}

// SelectedTheme returns the theme named by Theme.Default.
func (c Config) SelectedTheme() (ThemeConfig, error) {
	return c.ThemeByName(c.Theme.Default)
}

// ThemeByName looks a theme up by name.
func (c Config) ThemeByName(name string) (ThemeConfig, error) {
	th, ok := c.Themes[name]
	if !ok {
		return ThemeConfig{}, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(c.ThemeNames(), ", "))
	}
	return th, nil
}

// ThemeNames lists the configured themes in sorted order.
func (c Config) ThemeNames() []string {
	names := make([]string, 0, len(c.Themes))
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// YAML encodes the configuration with two-space indentation.
func (c Config) YAML() (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (c Config) clone() Config {
	out := c
	out.Render.Properties = append([]string(nil), c.Render.Properties...)
	if c.Render.Properties == nil {
		out.Render.Properties = nil
	}
	out.Themes = make(map[string]ThemeConfig, len(c.Themes))
	for k, v := range c.Themes {
		out.Themes[k] = v
	}
	return out
}
