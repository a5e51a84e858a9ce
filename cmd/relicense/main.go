// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"flag"
	"log/slog"
	"path/filepath"
	"strings"

	"go.astrophena.name/relicense/cli"
	"go.astrophena.name/relicense/config"
	"go.astrophena.name/relicense/logger"
	"go.astrophena.name/relicense/rewrite"
)

func main() { cli.Main(new(app)) }

type app struct {
	dry     bool
	verbose bool
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.BoolVar(&a.dry, "dry", false, "Report the files that would change, without writing them.")
	fs.BoolVar(&a.verbose, "v", false, "Enable debug logging.")
}

var separator = strings.Repeat("-", 40)

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)
	if a.verbose {
		logger.LevelVar(ctx).Set(slog.LevelDebug)
	}

	const root = "."
	cfg, err := config.Load(root, env.Getenv)
	if err != nil {
		return err
	}

	rw := rewrite.New(cfg)
	rw.DryRun = a.dry

	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	env.Printf("Scanning %s", abs)
	env.Printf("Target: %s (C) %s %s", cfg.Project, cfg.Year, cfg.Author)
	env.Printf("%s", separator)

	sum, err := rw.Walk(ctx, root, func(res rewrite.Result) {
		env.Printf("  %s", a.describe(res))
	})

	env.Printf("%s", separator)
	env.Printf("Done, processed %d files.", sum.Processed)
	if a.dry && sum.Updated() > 0 {
		env.Printf("%d files would be updated.", sum.Updated())
	}
	return err
}

func (a *app) describe(res rewrite.Result) string {
	path := filepath.ToSlash(res.Path)
	switch res.Status {
	case rewrite.Unchanged:
		return "[unchanged] " + path
	case rewrite.Failed:
		return "[error] " + path + ": " + res.Err.Error()
	}
	action := "added"
	if res.HeaderFound {
		action = "replaced"
	}
	if a.dry {
		return "[would be " + action + "] " + path
	}
	return "[" + action + "] " + path
}
