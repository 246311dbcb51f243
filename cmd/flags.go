package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

// choiceValue is a string flag restricted to a fixed set of values.
type choiceValue struct {
	target  *string
	choices []string
}

var _ pflag.Value = (*choiceValue)(nil)

func newChoiceValue(target *string, def string, choices ...string) *choiceValue {
	*target = def
	return &choiceValue{target: target, choices: choices}
}

func (c *choiceValue) String() string {
	if c.target == nil {
		return ""
	}
	return *c.target
}

func (c *choiceValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if !slices.Contains(c.choices, s) {
		return fmt.Errorf("must be one of %s", strings.Join(c.choices, "|"))
	}
	*c.target = s
	return nil
}

func (c *choiceValue) Type() string { return "string" }

// stringFlag returns a pointer to the flag's value if the user set it.
func stringFlag(fs *pflag.FlagSet, name string) *string {
	if !fs.Changed(name) {
		return nil
	}
	v, err := fs.GetString(name)
	if err != nil {
		return nil
	}
	return &v
}

// boolFlag returns a pointer to the flag's value if the user set it.
func boolFlag(fs *pflag.FlagSet, name string) *bool {
	if !fs.Changed(name) {
		return nil
	}
	v, err := fs.GetBool(name)
	if err != nil {
		return nil
	}
	return &v
}

// renderFlagsFrom collects the render overrides the user actually passed.
func renderFlagsFrom(fs *pflag.FlagSet) renderFlags {
	f := renderFlags{
		showIcon:     stringFlag(fs, "show-icon"),
		hideIcon:     stringFlag(fs, "hide-icon"),
		showLevel:    stringFlag(fs, "show-level"),
		maxString:    stringFlag(fs, "max-string"),
		sortObjects:  boolFlag(fs, "sort"),
		collapseMsg:  stringFlag(fs, "collapse-msg"),
		transform:    stringFlag(fs, "transform"),
		decodeNested: boolFlag(fs, "decode-nested"),
	}
	if fs.Changed("properties") {
		if props, err := fs.GetStringSlice("properties"); err == nil {
			f.properties = props
			if f.properties == nil {
				f.properties = []string{}
			}
		}
	}
	return f
}
