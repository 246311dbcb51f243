package renderjson

import (
	"testing"

	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	o := NewConfig().Options()
	assert.Equal(t, DefaultShowIcon, o.Show.String())
	assert.Equal(t, DefaultHideIcon, o.Hide.String())
	assert.Equal(t, 0, o.ShowToLevel)
	assert.Equal(t, Unlimited, o.MaxStringLength)
	assert.False(t, o.SortObjects)
	assert.Nil(t, o.PropertyList)
	assert.Equal(t, "x", o.Replacer(nil, "k", "x"))
	assert.Equal(t, "0 items", o.CollapseMsg(0))
	assert.Equal(t, "1 item", o.CollapseMsg(1))
	assert.Equal(t, "3 items", o.CollapseMsg(3))
	assert.NoError(t, o.Validate())
}

func TestConfig_SettersChain(t *testing.T) {
	cfg := NewConfig()
	same := cfg.SetIcons("+", "-").
		SetShowToLevel(2).
		SetMaxStringLength(10).
		SetSortObjects(true).
		SetPropertyList([]string{"a"}).
		SetCollapseMsg(func(int) string { return "…" })
	assert.Same(t, cfg, same)
	require.NoError(t, cfg.Err())

	o := cfg.Options()
	assert.Equal(t, "+", o.Show.String())
	assert.Equal(t, "-", o.Hide.String())
	assert.Equal(t, 2, o.ShowToLevel)
	assert.Equal(t, 10, o.MaxStringLength)
	assert.True(t, o.SortObjects)
	assert.Equal(t, []string{"a"}, o.PropertyList)
	assert.Equal(t, "…", o.CollapseMsg(5))
}

func TestConfig_InvalidSettersFailImmediately(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*Config) *Config
	}{
		{"negative level", func(c *Config) *Config { return c.SetShowToLevel(-1) }},
		{"negative length", func(c *Config) *Config { return c.SetMaxStringLength(-5) }},
		{"nil caption", func(c *Config) *Config { return c.SetCollapseMsg(nil) }},
		{"bad show icon", func(c *Config) *Config { return c.SetIcons(42, "-") }},
		{"bad hide icon", func(c *Config) *Config { return c.SetIcons("+", nil) }},
		{"nil node icon", func(c *Config) *Config { return c.SetIcons((*Element)(nil), "-") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			before := cfg.Options()
			tt.apply(cfg)

			err := cfg.Err()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidOption)

			after := cfg.Options()
			assert.Equal(t, before.ShowToLevel, after.ShowToLevel)
			assert.Equal(t, before.MaxStringLength, after.MaxStringLength)
			assert.Equal(t, before.Show.String(), after.Show.String())
			assert.NotNil(t, after.CollapseMsg)

			_, renderErr := cfg.Render([]any{1})
			assert.ErrorIs(t, renderErr, ErrInvalidOption)

			cfg.ClearErr()
			_, renderErr = cfg.Render([]any{1})
			assert.NoError(t, renderErr)
		})
	}
}

func TestConfig_ShowByDefault(t *testing.T) {
	cfg := NewConfig().SetShowByDefault(true)
	assert.Equal(t, All, cfg.Options().ShowToLevel)
	cfg.SetShowByDefault(false)
	assert.Equal(t, 0, cfg.Options().ShowToLevel)
}

func TestConfig_NilReplacerIsIdentity(t *testing.T) {
	cfg := NewConfig().SetReplacer(nil)
	require.NoError(t, cfg.Err())
	assert.Equal(t, 3, cfg.Options().Replacer(nil, 0, 3))
}

func TestConfig_OptionsSnapshotIsCopied(t *testing.T) {
	cfg := NewConfig().SetPropertyList([]string{"a", "b"})
	snap := cfg.Options()
	snap.PropertyList[0] = "changed"
	assert.Equal(t, []string{"a", "b"}, cfg.Options().PropertyList)

	cfg.SetPropertyList(nil)
	assert.Nil(t, cfg.Options().PropertyList)
	assert.Equal(t, []string{"changed", "b"}, snap.PropertyList)
}

func TestConfig_LoggerReceivesRenderEvents(t *testing.T) {
	var messages []string
	lgr := funcr.New(func(prefix, args string) {
		messages = append(messages, args)
	}, funcr.Options{Verbosity: 2})

	tree, err := NewConfig().SetLogger(lgr).Render([]any{1})
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "rendering value")

	tree.Disclosures()[0].Show()
	require.Len(t, messages, 2)
	assert.Contains(t, messages[1], "built disclosure content")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"3", 3, false},
		{"all", All, false},
		{" ALL ", All, false},
		{"-1", 0, true},
		{"some", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOption)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMaxStringLength(t *testing.T) {
	n, err := ParseMaxStringLength("none")
	require.NoError(t, err)
	assert.Equal(t, Unlimited, n)

	n, err = ParseMaxStringLength("40")
	require.NoError(t, err)
	assert.Equal(t, 40, n)

	_, err = ParseMaxStringLength("many")
	assert.ErrorIs(t, err, ErrInvalidOption)
}
