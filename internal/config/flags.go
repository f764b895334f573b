package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/equilibri/internal/flagx"
)

// parseFlags overlays cfg with the short flags listed in the package doc.
// Flags owned by other layers (-c/-config) are filtered out first.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-d", "-l", "-s", "-m", "-t", "-v"})

	fs := flag.NewFlagSet("equilibri", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "credential store DSN (\"memory\" for in-process)")
	fs.StringVar(&cfg.LocalDBPath, "l", cfg.LocalDBPath, "local SQLite file with the session marker")
	fs.StringVar(&cfg.SessionSecret, "s", cfg.SessionSecret, "session marker signing secret")
	fs.StringVar(&cfg.AssistantMode, "m", cfg.AssistantMode, "assistant mode: echo | openai")
	timeout := fs.Int("t", int(cfg.AssistantTimeout.Seconds()), "assistant reply timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	timeoutSet := false
	fs.Visit(func(f *flag.Flag) { timeoutSet = timeoutSet || f.Name == "t" })
	if !timeoutSet {
		return nil
	}
	if *timeout <= 0 {
		return fmt.Errorf("parse flags: assistant timeout must be positive, got %d", *timeout)
	}
	cfg.AssistantTimeout = time.Duration(*timeout) * time.Second
	return nil
}
