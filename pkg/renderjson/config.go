package renderjson

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/go-logr/logr"
)

const (
	// All expands every level when passed to SetShowToLevel.
	All = math.MaxInt
	// Unlimited disables string truncation when passed to SetMaxStringLength.
	Unlimited = math.MaxInt

	// DefaultShowIcon and DefaultHideIcon are the stock disclosure glyphs.
	DefaultShowIcon = "⊕"
	DefaultHideIcon = "⊖"
)

// ErrInvalidOption is wrapped by every configuration error.
var ErrInvalidOption = errors.New("invalid renderjson option")

// Replacer remaps a child value before it is rendered. holder is the array or
// object that contains the child, key is the int index or string key.
type Replacer func(holder any, key any, value any) any

// Icon is the label of a disclosure affordance: plain text or a pre-built node.
type Icon struct {
	text string
	el   Node
}

// TextIcon returns an icon showing s.
func TextIcon(s string) Icon { return Icon{text: s} }

// NodeIcon returns an icon showing a copy of n.
func NodeIcon(n Node) Icon { return Icon{el: n} }

// String returns the icon text, or the text content of a node icon.
func (i Icon) String() string {
	if i.el != nil {
		return textContent(i.el)
	}
	return i.text
}

// node returns a fresh node for one anchor; node icons are cloned since a
// node can only have one parent.
func (i Icon) node() Node {
	if i.el != nil {
		return cloneNode(i.el)
	}
	return NewText(i.text)
}

func toIcon(v any) (Icon, error) {
	switch t := v.(type) {
	case Icon:
		return t, nil
	case string:
		return TextIcon(t), nil
	case Node:
		if isNilPointer(t) {
			return Icon{}, fmt.Errorf("%w: icon node is nil", ErrInvalidOption)
		}
		return NodeIcon(t), nil
	case fmt.Stringer:
		return TextIcon(t.String()), nil
	default:
		return Icon{}, fmt.Errorf("%w: icon must be a string or Node, got %T", ErrInvalidOption, v)
	}
}

// DefaultCollapseMsg is the stock caption: "1 item", "N items".
func DefaultCollapseMsg(n int) string {
	if n == 1 {
		return "1 item"
	}
	return strconv.Itoa(n) + " items"
}

func identityReplacer(_ any, _ any, v any) any { return v }

// Options is an immutable snapshot of the rendering configuration.
type Options struct {
	Show            Icon
	Hide            Icon
	ShowToLevel     int
	MaxStringLength int
	SortObjects     bool
	PropertyList    []string
	Replacer        Replacer
	CollapseMsg     func(int) string
	Logger          logr.Logger
}

// DefaultOptions returns the stock configuration: collapsed, no truncation,
// insertion order keys.
func DefaultOptions() Options {
	return Options{
		Show:            TextIcon(DefaultShowIcon),
		Hide:            TextIcon(DefaultHideIcon),
		ShowToLevel:     0,
		MaxStringLength: Unlimited,
		Replacer:        identityReplacer,
		CollapseMsg:     DefaultCollapseMsg,
		Logger:          logr.Discard(),
	}
}

// Validate reports configuration errors in a hand-built snapshot.
func (o Options) Validate() error {
	var errs []error
	if o.CollapseMsg == nil {
		errs = append(errs, fmt.Errorf("%w: collapse message generator is nil", ErrInvalidOption))
	}
	if o.ShowToLevel < 0 {
		errs = append(errs, fmt.Errorf("%w: show level %d is negative", ErrInvalidOption, o.ShowToLevel))
	}
	if o.MaxStringLength < 0 {
		errs = append(errs, fmt.Errorf("%w: max string length %d is negative", ErrInvalidOption, o.MaxStringLength))
	}
	return errors.Join(errs...)
}

// Config is a mutable configuration store with chained setters. Each Render
// call works on a snapshot, so changing the store afterwards does not affect
// trees already built. An invalid argument leaves the option unchanged and
// is reported by Err right away; Render refuses to run while Err is non-nil.
type Config struct {
	mu   sync.RWMutex
	opts Options
	errs []error
}

var defaultConfig = NewConfig()

// Default returns the process-wide configuration used by Render.
func Default() *Config {
	return defaultConfig
}

// NewConfig returns an independent store holding DefaultOptions.
func NewConfig() *Config {
	return &Config{opts: DefaultOptions()}
}

func (c *Config) update(fn func(o *Options) error) *Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := fn(&c.opts); err != nil {
		c.errs = append(c.errs, err)
	}
	return c
}

// Err returns the configuration errors recorded so far.
func (c *Config) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return errors.Join(c.errs...)
}

// ClearErr forgets recorded configuration errors.
func (c *Config) ClearErr() *Config {
	c.mu.Lock()
	c.errs = nil
	c.mu.Unlock()
	return c
}

// SetIcons sets the show and hide affordances. Each may be a string, an Icon
// or a Node.
func (c *Config) SetIcons(show, hide any) *Config {
	return c.update(func(o *Options) error {
		s, err := toIcon(show)
		if err != nil {
			return fmt.Errorf("show icon: %w", err)
		}
		h, err := toIcon(hide)
		if err != nil {
			return fmt.Errorf("hide icon: %w", err)
		}
		o.Show, o.Hide = s, h
		return nil
	})
}

// SetShowToLevel sets how many levels are expanded when the tree is built.
// Use All to expand everything.
func (c *Config) SetShowToLevel(level int) *Config {
	return c.update(func(o *Options) error {
		if level < 0 {
			return fmt.Errorf("%w: show level %d is negative", ErrInvalidOption, level)
		}
		o.ShowToLevel = level
		return nil
	})
}

// SetMaxStringLength truncates longer strings behind a disclosure.
// Use Unlimited to turn truncation off.
func (c *Config) SetMaxStringLength(length int) *Config {
	return c.update(func(o *Options) error {
		if length < 0 {
			return fmt.Errorf("%w: max string length %d is negative", ErrInvalidOption, length)
		}
		o.MaxStringLength = length
		return nil
	})
}

// SetSortObjects sorts object keys when enabled.
func (c *Config) SetSortObjects(sorted bool) *Config {
	return c.update(func(o *Options) error {
		o.SortObjects = sorted
		return nil
	})
}

// SetReplacer installs a value transformer; nil restores the identity.
func (c *Config) SetReplacer(fn Replacer) *Config {
	return c.update(func(o *Options) error {
		if fn == nil {
			fn = identityReplacer
		}
		o.Replacer = fn
		return nil
	})
}

// SetCollapseMsg sets the caption generator for collapsed containers.
func (c *Config) SetCollapseMsg(fn func(int) string) *Config {
	return c.update(func(o *Options) error {
		if fn == nil {
			return fmt.Errorf("%w: collapse message generator is nil", ErrInvalidOption)
		}
		o.CollapseMsg = fn
		return nil
	})
}

// SetPropertyList restricts and orders the object keys that are rendered.
// nil renders all keys.
func (c *Config) SetPropertyList(keys []string) *Config {
	return c.update(func(o *Options) error {
		if keys == nil {
			o.PropertyList = nil
			return nil
		}
		o.PropertyList = append([]string{}, keys...)
		return nil
	})
}

// SetShowByDefault expands everything (true) or nothing (false).
// Prefer SetShowToLevel.
func (c *Config) SetShowByDefault(show bool) *Config {
	if show {
		return c.SetShowToLevel(All)
	}
	return c.SetShowToLevel(0)
}

// SetLogger sets the logger used while rendering.
func (c *Config) SetLogger(lgr logr.Logger) *Config {
	return c.update(func(o *Options) error {
		o.Logger = lgr
		return nil
	})
}

// Options returns a snapshot of the current configuration.
func (c *Config) Options() Options {
	c.mu.RLock()
	defer c.mu.RUnlock()
	o := c.opts
	if o.PropertyList != nil {
		o.PropertyList = append([]string{}, o.PropertyList...)
	}
	return o
}

// Render renders v with a snapshot of c.
func (c *Config) Render(v any) (*Tree, error) {
	if err := c.Err(); err != nil {
		return nil, err
	}
	return c.Options().Render(v)
}

// Render renders v with the default configuration.
func Render(v any) (*Tree, error) {
	return Default().Render(v)
}

// ParseLevel parses a show level: a non-negative integer or "all".
func ParseLevel(s string) (int, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return All, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: show level %q: want a non-negative integer or \"all\"", ErrInvalidOption, s)
	}
	return n, nil
}

// ParseMaxStringLength parses a string limit: a non-negative integer or "none".
func ParseMaxStringLength(s string) (int, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "none") {
		return Unlimited, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: max string length %q: want a non-negative integer or \"none\"", ErrInvalidOption, s)
	}
	return n, nil
}
