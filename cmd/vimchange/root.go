package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dshills/vimchange/internal/config"
	"github.com/dshills/vimchange/internal/engine"
	"github.com/dshills/vimchange/internal/log"
)

// envPrefix namespaces environment overrides, e.g. VIMCHANGE_LOG_LEVEL.
const envPrefix = "VIMCHANGE"

// Viper keys mirrored from the config file.
const (
	keyWordChars = "editor.word_chars"
	keyRegister  = "editor.default_register"
	keyClipboard = "editor.clipboard"
	keyLogLevel  = "log.level"
	keyLogFile   = "log.file"
	keyLogFormat = "log.format"
)

// cli carries state shared by the subcommands of one invocation.
type cli struct {
	v        *viper.Viper
	cfgFile  string
	cfg      config.Config
	closeLog func()
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	c := &cli{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "vimchange",
		Short: "Apply vim change operations to text",
		Long: `vimchange runs vim's change operator (cw, c$, ci(, cap, ...) at one or
more cursors over a buffer and prints the result. Changes can be applied
one at a time, from a Lua script or interactively in the terminal.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.initConfig,
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.closeLog != nil {
				c.closeLog()
			}
		},
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.cfgFile, "config", "c", "", "config file (.toml, .yaml)")
	flags.String("word-chars", "", "extra characters counted as word characters")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-file", "", "log file (default stderr)")
	_ = c.v.BindPFlag(keyWordChars, flags.Lookup("word-chars"))
	_ = c.v.BindPFlag(keyLogLevel, flags.Lookup("log-level"))
	_ = c.v.BindPFlag(keyLogFile, flags.Lookup("log-file"))

	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	c.v.AutomaticEnv()

	rootCmd.AddCommand(
		newApplyCmd(c),
		newScriptCmd(c),
		newEditCmd(c),
	)
	return rootCmd
}

// initConfig loads the config file and layers environment and flag
// overrides on top of it.
func (c *cli) initConfig(cmd *cobra.Command, _ []string) error {
	cfg := config.Defaults()
	if c.cfgFile != "" {
		loaded, err := config.Load(c.cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	c.v.SetDefault(keyWordChars, cfg.Editor.WordChars)
	c.v.SetDefault(keyRegister, cfg.Editor.DefaultRegister)
	c.v.SetDefault(keyClipboard, cfg.Editor.Clipboard)
	c.v.SetDefault(keyLogLevel, cfg.Log.Level)
	c.v.SetDefault(keyLogFile, cfg.Log.File)
	c.v.SetDefault(keyLogFormat, cfg.Log.Format)

	cfg.Editor.WordChars = c.v.GetString(keyWordChars)
	cfg.Editor.DefaultRegister = c.v.GetString(keyRegister)
	cfg.Editor.Clipboard = c.v.GetBool(keyClipboard)
	cfg.Log.Level = c.v.GetString(keyLogLevel)
	cfg.Log.File = c.v.GetString(keyLogFile)
	cfg.Log.Format = c.v.GetString(keyLogFormat)
	if cfg.Log.Level == "" {
		cfg.Log.Level = config.DefaultLogLevel
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	c.cfg = cfg

	opts, err := cfg.LogOptions()
	if err != nil {
		return err
	}
	opts.Writer = cmd.ErrOrStderr()
	closeLog, err := log.Init(opts)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	c.closeLog = closeLog
	log.Debug(log.CatConfig, "configuration loaded", "file", c.cfgFile, "word_chars", cfg.Editor.WordChars)
	return nil
}

// newEngine builds a session over content using the loaded configuration.
func (c *cli) newEngine(content string) *engine.Engine {
	return engine.New(engine.WithConfig(c.cfg), engine.WithContent(content))
}
