// Package config loads vimchange settings.
//
// Settings come from three layers, higher overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Flags and environment   │  ← bound by the CLI through viper
//	├─────────────────────────────┤
//	│  2. Config file             │  ← vimchange.toml or vimchange.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Usage
//
//	cfg, err := config.Load("vimchange.toml")
//	if err != nil {
//	    return err
//	}
//	eng := engine.New(engine.WithConfig(cfg))
//
// Watch reloads a file after it changes:
//
//	err := config.Watch(ctx, path, config.DefaultWatchDebounce, func(cfg config.Config, err error) {
//	    if err == nil {
//	        eng.SetClassifier(charclass.Classifier{WordChars: cfg.Editor.WordChars})
//	    }
//	})
//
// # File format
//
//	[editor]
//	word_chars = "-"          # extra word characters
//	max_undo_entries = 1000
//	default_register = "\""
//	clipboard = false         # back + and * with the system clipboard
//
//	[log]
//	level = "info"            # debug, info, warn, error
//	file = ""                 # empty logs to stderr
//	format = "text"           # text or json
package config
