// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"github.com/hamed0406/mcstatus/internal/config"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	path := config.PathFromEnv()
	cfg, err := config.Load(path)
	if err != nil {
		for _, e := range multierr.Errors(err) {
			fmt.Fprintln(os.Stderr, "✖", e)
		}
		fail("config " + path + " is invalid")
	}
	ok("config " + path + " loaded")
	ok("MINECRAFT_DOMAIN=" + cfg.Domain)
	ok(fmt.Sprintf("UPDATE_INTERVAL=%dms", cfg.UpdateInterval))

	if !strings.Contains(cfg.WebhookURL, "/api/webhooks/") {
		warn("DISCORD_WEBHOOK_URL does not look like a Discord webhook (expected .../api/webhooks/<id>/<token>).")
	} else {
		ok("DISCORD_WEBHOOK_URL present")
	}

	if cfg.DatabaseURL != "" {
		ok("DATABASE_URL present; state is kept in Postgres")
	} else {
		dir := filepath.Dir(cfg.StateFile)
		if err := writable(dir); err != nil {
			fail("state directory " + dir + " is not writable: " + err.Error())
		}
		ok("STATE_FILE=" + cfg.StateFile)
	}

	if cfg.TrustProxy {
		warn("TRUST_PROXY is on; client IPs come from X-Forwarded-For. Only use this behind a reverse proxy.")
	}

	if cfg.Debug {
		warn("DEBUG is on; webhook payloads will be logged.")
	}

	ok("preflight passed")
}

func writable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".preflight-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
