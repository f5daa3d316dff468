// cmd/preflight/main.go
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/hamed0406/sitesync/internal/config"
)

func main() {
	v := viper.New()
	if len(os.Args) > 1 {
		v.SetConfigFile(os.Args[1])
	}
	os.Exit(run(v, os.Stdout, os.Stderr))
}

// run reports every problem with the configuration and returns the exit code.
func run(v *viper.Viper, stdout, stderr io.Writer) int {
	fail := func(msg string) { fmt.Fprintln(stderr, "✖", msg) }
	warn := func(msg string) { fmt.Fprintln(stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Fprintln(stdout, "✔", msg) }

	cfg, err := config.Load(v)
	if err != nil {
		fail(err.Error())
		return 1
	}

	warnings, err := cfg.Validate()
	for _, w := range warnings {
		warn(w)
	}
	if err != nil {
		for _, e := range multierr.Errors(err) {
			fail(e.Error())
		}
		return 1
	}

	ok("API_ADDR=" + cfg.Addr)
	if cfg.DatabaseURL != "" {
		ok("DATABASE_URL present")
	}
	ok(fmt.Sprintf("keys: %d public, %d admin", len(cfg.PublicAPIKeys), len(cfg.AdminAPIKeys)))
	if cfg.CheckInterval > 0 {
		ok(fmt.Sprintf("scheduled checks every %s, %d at a time", cfg.CheckInterval, cfg.MaxConcurrentChecks))
	} else {
		warn("CHECK_INTERVAL_MS=0; monitors are only checked on demand")
	}
	ok("preflight passed")
	return 0
}
