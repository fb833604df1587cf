package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"livehl/internal/config"
	"livehl/internal/lang"
	"livehl/internal/log"
	"livehl/internal/readfile"
	"livehl/internal/tracing"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Query the terminal background before any bubbletea program owns the
	// input, otherwise the OSC 11 reply can leak into the viewer.
	_ = lipgloss.HasDarkBackground()
}

var version = "dev"

// app carries what the persistent pre-run prepared for a subcommand.
type app struct {
	cfgFile string
	langTag string

	cfg      config.Config
	tracer   *tracing.Provider
	closeLog func()
}

func newRootCmd() *cobra.Command {
	a := &app{}
	v := viper.New()

	root := &cobra.Command{
		Use:           "livehl",
		Short:         "Incremental tree-sitter syntax highlighting in the terminal",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(v)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ./.livehl.yaml, then ~/.config/livehl/config.yaml)")
	flags.StringVarP(&a.langTag, "lang", "l", "", "language override (for example: go, rust, markdown)")
	flags.String("theme", "", "chroma style name (for example: nord, dracula, monokai)")
	flags.String("log", "", "write debug logs to this file")
	flags.String("log-level", "", "minimum log level: debug, info, warn, error")

	_ = v.BindPFlag("theme", flags.Lookup("theme"))
	_ = v.BindPFlag("log.path", flags.Lookup("log"))
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))

	root.AddCommand(newViewCmd(a), newRenderCmd(a), newLanguagesCmd())
	return root
}

func (a *app) setup(v *viper.Viper) error {
	cfg, err := config.Load(v, a.cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	if cfg.Log.Path != "" {
		closeLog, err := log.InitWithTeaLog(cfg.Log.Path, "livehl")
		if err != nil {
			return fmt.Errorf("opening log %s: %w", cfg.Log.Path, err)
		}
		a.closeLog = closeLog
		level, _ := log.ParseLevel(cfg.Log.Level)
		log.SetMinLevel(level)
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("creating tracer: %w", err)
	}
	a.tracer = provider
	return nil
}

func (a *app) teardown() error {
	var err error
	if a.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = a.tracer.Shutdown(ctx)
		a.tracer = nil
	}
	if a.closeLog != nil {
		log.SetOutput(nil)
		a.closeLog()
		a.closeLog = nil
	}
	return err
}

// load reads path, or stdin for "-", and picks its language.
func (a *app) load(cmd *cobra.Command, path string) (string, lang.ID, error) {
	var (
		text string
		err  error
	)
	if path == "-" {
		text, err = readStdin(cmd)
	} else {
		text, err = readfile.ReadNormalized(path)
	}
	if err != nil {
		return "", "", err
	}

	if a.langTag != "" {
		return text, lang.FromName(a.langTag), nil
	}
	return text, lang.DetectWithShebang(path, readfile.FirstLine(text)), nil
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
}

// Main is the process entry point.
func Main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "livehl: %v\n", err)
		os.Exit(1)
	}
}
