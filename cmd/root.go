package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/renderjson/internal/config"
	"github.com/oakwood-commons/renderjson/internal/page"
	"github.com/oakwood-commons/renderjson/internal/ui"
	"github.com/oakwood-commons/renderjson/pkg/loader"
	"github.com/oakwood-commons/renderjson/pkg/logger"
	"github.com/oakwood-commons/renderjson/pkg/renderjson"
	"github.com/oakwood-commons/renderjson/pkg/settings"
)

// errShowHelp is returned by loadInput when no input is provided and help should be shown.
var errShowHelp = errors.New("no input provided")

// rootOptions holds the flag values of one command tree.
type rootOptions struct {
	params *settings.Run

	configFile   string
	themeName    string
	title        string
	cssFile      string
	preambleFile string
	verbosity    int

	// Render overrides; only read when the flag was set.
	showIcon     string
	hideIcon     string
	showLevel    string
	maxString    string
	sortObjects  bool
	properties   []string
	collapseMsg  string
	transform    string
	decodeNested bool
}

// NewRootCommand builds the renderjson command tree.
func NewRootCommand() *cobra.Command {
	o := &rootOptions{params: settings.NewCliParams()}

	cfg, _ := loadMergedConfig(resolveConfigPath(""))
	name := cfg.App.Name
	if name == "" {
		name = settings.CliBinaryName
	}

	cmd := &cobra.Command{
		Use:   settings.CliBinaryName + " [file]",
		Short: fmt.Sprintf("%s - collapsible JSON tree renderer", name),
		Long:  cfg.App.Description,
		Example: "\n  renderjson data.json\n  curl -s https://api.example.com/items | renderjson -i\n" +
			"  renderjson config.yaml --show-level all --sort\n" +
			"  renderjson token.jwt --output page --preamble notes.md > token.html\n" +
			"  renderjson data.json --transform 'key == \"password\" ? \"***\" : value'\n",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.setupLogging(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := o.run(cmd, args)
			if errors.Is(err, errShowHelp) {
				return cmd.Help()
			}
			return err
		},
	}
	cmd.Version = versionString()
	cmd.SetVersionTemplate("{{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.StringVar(&o.configFile, "config-file", "", "path to a YAML config file (render options, themes)")
	pf.CountVarP(&o.verbosity, "verbosity", "v", "log verbosity; repeat for more detail")
	pf.Var(newChoiceValue(&o.params.LogFormat, logger.FormatJSON, logger.FormatJSON, logger.FormatConsole), "log-format", "log format: json|console")
	pf.BoolVarP(&o.params.IsQuiet, "quiet", "q", false, "only log errors")

	f := cmd.Flags()
	f.VarP(newChoiceValue(&o.params.Output, settings.OutputText, settings.ValidOutputs...), "output", "o", "output: "+strings.Join(settings.ValidOutputs, "|"))
	f.BoolVarP(&o.params.Interactive, "interactive", "i", false, "browse the tree in an interactive TUI")
	f.BoolVar(&o.params.NoColor, "no-color", false, "disable color output")
	f.StringVar(&o.themeName, "theme", "", "theme name (default from config; see 'renderjson config themes')")
	f.StringVar(&o.title, "title", "", "title for the TUI and HTML page (default: input file name)")
	f.StringVar(&o.cssFile, "css", "", "stylesheet file for --output page")
	f.StringVar(&o.preambleFile, "preamble", "", "markdown file rendered above the tree for --output page")

	f.StringVar(&o.showIcon, "show-icon", "", "expand glyph (default from config)")
	f.StringVar(&o.hideIcon, "hide-icon", "", "collapse glyph (default from config)")
	f.StringVar(&o.showLevel, "show-level", "", "levels expanded up front: a number or 'all'")
	f.StringVar(&o.maxString, "max-string", "", "longest string shown inline: a number or 'none'")
	f.BoolVar(&o.sortObjects, "sort", false, "sort object keys")
	f.StringSliceVar(&o.properties, "properties", nil, "only show these object keys (comma separated)")
	f.StringVar(&o.collapseMsg, "collapse-msg", "", "caption template for collapsed containers; .Count is the size")
	f.StringVar(&o.transform, "transform", "", "CEL expression over value, key and holder applied to every value")
	f.BoolVar(&o.decodeNested, "decode-nested", false, "decode strings holding JSON or YAML documents")

	cmd.AddCommand(newVersionCommand(), newConfigCommand(o))
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

func (o *rootOptions) setupLogging(cmd *cobra.Command) error {
	o.params.MinLogLevel = int8(-o.verbosity)
	if o.params.IsQuiet {
		o.params.MinLogLevel = 2
	}
	lgr, err := logger.Setup(logger.Options{
		Level:  o.params.MinLogLevel,
		Format: o.params.LogFormat,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	lgr = logger.WithValues(lgr, "command", cmd.Name())
	ctx := logger.WithLogger(cmd.Context(), lgr)
	cmd.SetContext(settings.IntoContext(ctx, o.params))
	return nil
}

func (o *rootOptions) run(cmd *cobra.Command, args []string) error {
	lgr := *logger.FromContext(cmd.Context())
	if len(args) == 1 {
		o.params.InputPath = args[0]
	}

	cfg, err := loadMergedConfig(resolveConfigPath(o.configFile))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cmd.Flags().Changed("output") && cfg.Render.Output != nil {
		if err := newChoiceValue(&o.params.Output, o.params.Output, settings.ValidOutputs...).Set(*cfg.Render.Output); err != nil {
			return fmt.Errorf("config render.output: %w", err)
		}
	}

	rc := renderFlagsFrom(cmd.Flags()).apply(cfg.Render)
	rcfg, tr, err := buildRenderer(rc, lgr)
	if err != nil {
		return err
	}

	root, err := o.loadInput(cmd.InOrStdin(), lgr)
	if err != nil {
		return err
	}
	if rc.DecodeNested != nil && *rc.DecodeNested {
		root = loader.RecursiveDecode(root)
	}

	tree, err := rcfg.Render(root)
	if err != nil {
		return err
	}
	if tr != nil && tr.Failures() > 0 {
		lgr.Info("some values could not be transformed", "failures", tr.Failures(), "expression", tr.Expression())
	}

	themeName := o.themeName
	if themeName == "" {
		themeName = cfg.Theme.Default
	}
	themeCfg, err := cfg.ThemeByName(themeName)
	if err != nil {
		return err
	}
	theme := ui.ThemeFromConfig(themeCfg)

	if o.params.Interactive {
		progOpts, cleanup := programOptions(o.params.FromStdin())
		defer cleanup()
		return ui.Run(tree, ui.RunOptions{
			Title:   o.displayTitle(),
			Theme:   theme,
			NoColor: o.params.NoColor,
		}, progOpts...)
	}
	return o.writeOutput(cmd.OutOrStdout(), tree, theme)
}

// loadInput reads the document from the file argument or from stdin.
func (o *rootOptions) loadInput(stdin io.Reader, lgr logr.Logger) (any, error) {
	if !o.params.FromStdin() {
		lgr.V(1).Info("loading input", "path", o.params.InputPath)
		root, err := loader.LoadFile(o.params.InputPath)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", o.params.InputPath, err)
		}
		return root, nil
	}
	if isTerminalReader(stdin) {
		return nil, errShowHelp
	}
	lgr.V(1).Info("loading input", "path", "stdin")
	root, err := loader.LoadReader(stdin)
	if err != nil {
		return nil, fmt.Errorf("load stdin: %w", err)
	}
	return root, nil
}

func (o *rootOptions) displayTitle() string {
	if o.title != "" {
		return o.title
	}
	if o.params.FromStdin() {
		return "stdin"
	}
	return filepath.Base(o.params.InputPath)
}

func (o *rootOptions) writeOutput(w io.Writer, tree *renderjson.Tree, theme ui.Theme) error {
	switch o.params.Output {
	case settings.OutputHTML:
		if err := renderjson.WriteHTML(w, tree.Root); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w)
		return err
	case settings.OutputPage:
		opts, err := page.LoadOptions(o.displayTitle(), o.preambleFile, o.cssFile)
		if err != nil {
			return err
		}
		return page.Write(w, tree.Root, opts)
	default:
		noColor := o.params.NoColor || os.Getenv("NO_COLOR") != "" || !isTerminalWriter(w)
		p := ui.Painter{Styles: ui.NewStyles(theme), NoColor: noColor}
		text := p.Text(tree.Root)
		if noColor {
			_, err := fmt.Fprintln(w, text)
			return err
		}
		_, err := lipgloss.Fprintln(w, text)
		return err
	}
}

// versionString builds a human-readable version string for CLI output and Cobra's --version flag.
func versionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s, go %s)",
		settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime, runtime.Version())
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print renderjson version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), versionString())
			return err
		},
	}
}

// newConfigCommand groups configuration-related subcommands.
func newConfigCommand(o *rootOptions) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Show the merged configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(resolveConfigPath(o.configFile))
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "default",
		Short: "Print the built-in configuration with comments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write(config.DefaultYAML())
			return err
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "themes",
		Short: "List available themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(resolveConfigPath(o.configFile))
			if err != nil {
				return err
			}
			for _, name := range cfg.ThemeNames() {
				marker := " "
				if name == cfg.Theme.Default {
					marker = "*"
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, name); err != nil {
					return err
				}
			}
			return nil
		},
	})
	return cfgCmd
}
