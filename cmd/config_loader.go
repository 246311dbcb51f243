package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/template"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/renderjson/internal/config"
	"github.com/oakwood-commons/renderjson/internal/transform"
	"github.com/oakwood-commons/renderjson/pkg/renderjson"
	"github.com/oakwood-commons/renderjson/pkg/settings"
)

// resolveConfigPath returns the explicit path if set, otherwise the XDG path
// ($XDG_CONFIG_HOME/renderjson/config.yaml) or ~/.config/renderjson/config.yaml
// if present.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	xdg := os.Getenv("XDG_CONFIG_HOME")
	candidate := ""
	if xdg != "" {
		candidate = filepath.Join(xdg, settings.CliBinaryName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", settings.CliBinaryName, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// loadMergedConfig returns the embedded defaults merged with the user file
// and with the app description template expanded.
func loadMergedConfig(cfgPath string) (config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return cfg, err
	}
	cfg.App.Description = processTemplateString(cfg.App.Description, buildData(cfg))
	return cfg, nil
}

func buildData(cfg config.Config) map[string]any {
	name := cfg.App.Name
	if name == "" {
		name = settings.CliBinaryName
	}
	return map[string]any{
		"name":       name,
		"version":    settings.VersionInformation.BuildVersion,
		"commit":     settings.VersionInformation.Commit,
		"build_time": settings.VersionInformation.BuildTime,
		"go_version": runtime.Version(),
	}
}

// processTemplateString processes a template string, returning the original string if templating fails.
func processTemplateString(text string, data map[string]any) string {
	if !strings.Contains(text, "{{") {
		return text
	}

	tmpl, err := template.New("config").Parse(text)
	if err != nil {
		return text
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return text
	}
	return buf.String()
}

// collapseMsgFromTemplate compiles a caption template. The template sees
// .Count; an execution error falls back to the default caption.
func collapseMsgFromTemplate(text string) (func(int) string, error) {
	tmpl, err := template.New("collapse_msg").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("collapse message template: %w", err)
	}
	return func(n int) string {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, struct{ Count int }{n}); err != nil {
			return renderjson.DefaultCollapseMsg(n)
		}
		return buf.String()
	}, nil
}

// renderFlags are the command-line overrides of the render block. Nil or
// empty fields leave the configured value in place.
type renderFlags struct {
	showIcon     *string
	hideIcon     *string
	showLevel    *string
	maxString    *string
	sortObjects  *bool
	properties   []string
	collapseMsg  *string
	transform    *string
	decodeNested *bool
}

// apply overlays the flags onto rc.
func (f renderFlags) apply(rc config.RenderConfig) config.RenderConfig {
	if f.showIcon != nil {
		rc.ShowIcon = f.showIcon
	}
	if f.hideIcon != nil {
		rc.HideIcon = f.hideIcon
	}
	if f.showLevel != nil {
		v := config.Scalar(*f.showLevel)
		rc.ShowLevel = &v
	}
	if f.maxString != nil {
		v := config.Scalar(*f.maxString)
		rc.MaxStringLength = &v
	}
	if f.sortObjects != nil {
		rc.SortObjects = f.sortObjects
	}
	if f.properties != nil {
		rc.Properties = f.properties
	}
	if f.collapseMsg != nil {
		rc.CollapseMsg = f.collapseMsg
	}
	if f.transform != nil {
		rc.Transform = f.transform
	}
	if f.decodeNested != nil {
		rc.DecodeNested = f.decodeNested
	}
	return rc
}

// buildRenderer turns the merged render block into a renderer configuration.
// The transformer is nil when no expression is configured.
func buildRenderer(rc config.RenderConfig, lgr logr.Logger) (*renderjson.Config, *transform.Transformer, error) {
	rcfg := renderjson.NewConfig().SetLogger(lgr)

	show, hide := renderjson.DefaultShowIcon, renderjson.DefaultHideIcon
	if rc.ShowIcon != nil {
		show = *rc.ShowIcon
	}
	if rc.HideIcon != nil {
		hide = *rc.HideIcon
	}
	rcfg.SetIcons(show, hide)

	if rc.ShowLevel != nil {
		level, err := renderjson.ParseLevel(string(*rc.ShowLevel))
		if err != nil {
			return nil, nil, fmt.Errorf("show level: %w", err)
		}
		rcfg.SetShowToLevel(level)
	}
	if rc.MaxStringLength != nil {
		n, err := renderjson.ParseMaxStringLength(string(*rc.MaxStringLength))
		if err != nil {
			return nil, nil, fmt.Errorf("max string length: %w", err)
		}
		rcfg.SetMaxStringLength(n)
	}
	if rc.SortObjects != nil {
		rcfg.SetSortObjects(*rc.SortObjects)
	}
	if len(rc.Properties) > 0 {
		rcfg.SetPropertyList(rc.Properties)
	}
	if rc.CollapseMsg != nil && strings.TrimSpace(*rc.CollapseMsg) != "" {
		msg, err := collapseMsgFromTemplate(*rc.CollapseMsg)
		if err != nil {
			return nil, nil, err
		}
		rcfg.SetCollapseMsg(msg)
	}

	var tr *transform.Transformer
	if rc.Transform != nil && strings.TrimSpace(*rc.Transform) != "" {
		var err error
		tr, err = transform.New(*rc.Transform)
		if err != nil {
			return nil, nil, fmt.Errorf("transform: %w", err)
		}
		rcfg.SetReplacer(tr.Replacer(lgr))
	}

	if err := rcfg.Err(); err != nil {
		return nil, nil, err
	}
	return rcfg, tr, nil
}
