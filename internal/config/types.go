// Package config holds the renderjson configuration file schema, the
// embedded defaults and the merge rules applied to user files.
package config

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the whole configuration file.
type Config struct {
	App    AppConfig              `yaml:"app"`
	Render RenderConfig           `yaml:"render"`
	Theme  ThemeSelection         `yaml:"theme"`
	Themes map[string]ThemeConfig `yaml:"themes"`
}

// AppConfig holds application metadata. Description may use text/template
// with .name and .version.
type AppConfig struct {
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// RenderConfig mirrors the renderer options. Pointer fields distinguish
// "unset" from zero values when merging.
type RenderConfig struct {
	ShowIcon        *string  `yaml:"show_icon,omitempty"`
	HideIcon        *string  `yaml:"hide_icon,omitempty"`
	ShowLevel       *Scalar  `yaml:"show_level,omitempty"`
	MaxStringLength *Scalar  `yaml:"max_string_length,omitempty"`
	SortObjects     *bool    `yaml:"sort_objects,omitempty"`
	Properties      []string `yaml:"properties,omitempty"`
	CollapseMsg     *string  `yaml:"collapse_msg,omitempty"`
	Transform       *string  `yaml:"transform,omitempty"`
	DecodeNested    *bool    `yaml:"decode_nested,omitempty"`
	Output          *string  `yaml:"output,omitempty"`
}

// ThemeSelection names the theme used by default.
type ThemeSelection struct {
	Default string `yaml:"default,omitempty"`
}

// ThemeConfig assigns a color to each renderer class. An empty color
// leaves that class unstyled.
type ThemeConfig struct {
	Syntax     ColorValue `yaml:"syntax"`
	String     ColorValue `yaml:"string"`
	Number     ColorValue `yaml:"number"`
	Boolean    ColorValue `yaml:"boolean"`
	Key        ColorValue `yaml:"key"`
	Keyword    ColorValue `yaml:"keyword"`
	Disclosure ColorValue `yaml:"disclosure"`
	FocusFG    ColorValue `yaml:"focus_fg"`
	FocusBG    ColorValue `yaml:"focus_bg"`
	HelpKey    ColorValue `yaml:"help_key"`
	HelpValue  ColorValue `yaml:"help_value"`
}

// Scalar keeps the literal text of a YAML scalar, so show_level accepts
// both 3 and "all".
type Scalar string

func (s *Scalar) UnmarshalYAML(value *yaml.Node) error {
	*s = Scalar(value.Value)
	return nil
}

func (s Scalar) MarshalYAML() (interface{}, error) {
	return scalarNode(string(s)), nil
}

// ColorValue stores a color token (ANSI number, hex or name) and marshals
// numerics as YAML ints.
type ColorValue string

func (c *ColorValue) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		*c = ""
		return nil
	}
	*c = ColorValue(value.Value)
	return nil
}

func (c ColorValue) MarshalYAML() (interface{}, error) {
	return scalarNode(string(c)), nil
}

func scalarNode(s string) *yaml.Node {
	if _, err := strconv.Atoi(s); err == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: s}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
