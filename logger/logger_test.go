// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"go.astrophena.name/relicense/testutil"
)

func TestLogger(t *testing.T) {
	l := New(nil)
	var first, second bytes.Buffer
	l.Attach(slog.NewTextHandler(&first, &slog.HandlerOptions{Level: l.Level}))
	l.Attach(slog.NewTextHandler(&second, &slog.HandlerOptions{Level: slog.LevelError}))
	ctx := Put(context.Background(), l)

	Debug(ctx, "hidden")
	Info(ctx, "shown", slog.String("path", "a.js"))
	if strings.Contains(first.String(), "hidden") {
		t.Errorf("debug message logged at info level: %q", first.String())
	}
	if !strings.Contains(first.String(), "path=a.js") {
		t.Errorf("info message missing: %q", first.String())
	}
	testutil.AssertEqual(t, second.String(), "")

	LevelVar(ctx).Set(slog.LevelDebug)
	Get(ctx).With("run", 1).Debug("now shown")
	if !strings.Contains(first.String(), "msg=\"now shown\" run=1") {
		t.Errorf("debug message missing after level change: %q", first.String())
	}

	Error(ctx, "failed")
	if !strings.Contains(second.String(), "msg=failed") {
		t.Errorf("error message missing from second handler: %q", second.String())
	}
}

func TestDefaultLoggerDiscards(t *testing.T) {
	ctx := context.Background()
	testutil.AssertEqual(t, IsDefault(Get(ctx)), true)
	testutil.AssertEqual(t, Get(ctx).Enabled(ctx, slog.LevelError), false)
}
