// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package rewrite

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.astrophena.name/relicense/config"
	"go.astrophena.name/relicense/testutil"
	"go.astrophena.name/relicense/txtar"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := config.Default()
	c.Project, c.Author, c.Year = "Demo", "Tester", "2026"
	c.CodeLicense = "\n * Copyright (C) {year} {author}\n *\n * Part of {project}.\n"
	c.AssetLicense = "Copyright (C) {year} {author}. CC BY-NC 4.0."
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	return c
}

const tree = `-- app.js --
/* Copyright 2020 Old Owner */
code();
-- tools/build.py --
#!/usr/bin/env python3
# Build helper.
# License: MIT
# Do not edit.
import os
-- models/cube.obj --
# Blender v3.6 OBJ File
o Cube
-- styles/site.css --
/* reset */
body { margin: 0; }
-- README.md --
# Copyright 2020 Old Owner
-- node_modules/dep/index.js --
/* Copyright dependency */
module.exports = {};
-- .git/hooks/hook.py --
print("hook")
-- third_party/lib.js --
/* Copyright vendored */
-- pages/index.html --
<!-- Copyright 2019 Old Owner -->
<p>hi</p>
`

const wantTree = `-- .git/hooks/hook.py --
print("hook")
-- README.md --
# Copyright 2020 Old Owner
-- app.js --
/*
* Copyright (C) 2026 Tester
 *
 * Part of Demo.
*/

code();
-- models/cube.obj --
# Copyright (C) 2026 Tester. CC BY-NC 4.0.

# Blender v3.6 OBJ File
o Cube
-- node_modules/dep/index.js --
/* Copyright dependency */
module.exports = {};
-- pages/index.html --
<!--
* Copyright (C) 2026 Tester
 *
 * Part of Demo.
-->

<p>hi</p>
-- styles/site.css --
/*
* Copyright (C) 2026 Tester
 *
 * Part of Demo.
*/

/* reset */
body { margin: 0; }
-- third_party/lib.js --
/* Copyright vendored */
-- tools/build.py --
#!/usr/bin/env python3
# Copyright (C) 2026 Tester
#
# Part of Demo.

import os
`

func TestWalk(t *testing.T) {
	dir := t.TempDir()
	testutil.ExtractTxtar(t, txtar.Parse([]byte(tree)), dir)

	c := testConfig(t)
	c.Exclude = []string{"third_party/**"}
	rw := New(c)

	results := make(map[string]Result)
	report := func(res Result) {
		rel, err := filepath.Rel(dir, res.Path)
		if err != nil {
			t.Fatal(err)
		}
		results[filepath.ToSlash(rel)] = res
	}

	sum, err := rw.Walk(context.Background(), dir, report)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	testutil.AssertEqual(t, sum, Summary{Processed: 5, Added: 2, Replaced: 3})
	testutil.AssertEqual(t, len(results), 5)
	testutil.AssertEqual(t, results["app.js"].HeaderFound, true)
	testutil.AssertEqual(t, results["styles/site.css"].HeaderFound, false)
	testutil.AssertEqual(t, results["models/cube.obj"].HeaderFound, false)
	if _, ok := results["README.md"]; ok {
		t.Error("README.md was reported")
	}

	got := string(testutil.BuildTxtar(t, dir))
	testutil.AssertEqual(t, got, wantTree)

	// Second pass must not change anything.
	clear(results)
	sum, err = rw.Walk(context.Background(), dir, report)
	if err != nil {
		t.Fatalf("second Walk: %v", err)
	}
	testutil.AssertEqual(t, sum, Summary{Processed: 5, Unchanged: 5})
	testutil.AssertEqual(t, sum.Updated(), 0)
	testutil.AssertEqual(t, string(testutil.BuildTxtar(t, dir)), wantTree)
}

func TestWalkIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	testutil.ExtractTxtar(t, &txtar.Archive{Files: []txtar.File{
		{Name: "a.js", Data: []byte("a();\n")},
		{Name: "b.js", Data: []byte("\xff\xfe/* binary */\n")},
		{Name: "c.js", Data: []byte("c();\n")},
	}}, dir)

	var failed []Result
	sum, err := New(testConfig(t)).Walk(context.Background(), dir, func(res Result) {
		if res.Status == Failed {
			failed = append(failed, res)
		}
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	testutil.AssertEqual(t, sum, Summary{Processed: 3, Added: 2, Failed: 1})
	testutil.AssertEqual(t, len(failed), 1)
	testutil.AssertEqual(t, failed[0].Path, filepath.Join(dir, "b.js"))
	if !errors.Is(failed[0].Err, ErrDecode) {
		t.Errorf("Err = %v, want ErrDecode", failed[0].Err)
	}
	testutil.AssertEqual(t, testutil.ReadFile(t, filepath.Join(dir, "b.js")), "\xff\xfe/* binary */\n")
}

func TestWalkMissingRoot(t *testing.T) {
	_, err := New(testConfig(t)).Walk(context.Background(), filepath.Join(t.TempDir(), "missing"), func(Result) {
		t.Error("report called")
	})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Walk error = %v, want os.ErrNotExist", err)
	}
}

func TestWalkCanceled(t *testing.T) {
	dir := t.TempDir()
	testutil.ExtractTxtar(t, txtar.Parse([]byte(tree)), dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(testConfig(t)).Walk(ctx, dir, func(Result) {})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Walk error = %v, want context.Canceled", err)
	}
	testutil.AssertEqual(t, testutil.ReadFile(t, filepath.Join(dir, "app.js")), "/* Copyright 2020 Old Owner */\ncode();\n")
}

func TestProcess(t *testing.T) {
	c := testConfig(t)
	const jsHeader = "/*\n* Copyright (C) 2026 Tester\n *\n * Part of Demo.\n*/\n\n"

	cases := map[string]struct {
		name        string
		content     string
		dryRun      bool
		wantStatus  Status
		wantFound   bool
		wantContent string
	}{
		"added": {
			name:        "main.js",
			content:     "main();\n",
			wantStatus:  Updated,
			wantContent: jsHeader + "main();\n",
		},
		"replaced": {
			name:        "main.js",
			content:     "/* Copyright 2020 X */\nmain();\n",
			wantStatus:  Updated,
			wantFound:   true,
			wantContent: jsHeader + "main();\n",
		},
		"unchanged": {
			name:        "main.js",
			content:     jsHeader + "main();\n",
			wantStatus:  Unchanged,
			wantFound:   true,
			wantContent: jsHeader + "main();\n",
		},
		"upper case extension": {
			name:        "MAIN.JS",
			content:     "main();\n",
			wantStatus:  Updated,
			wantContent: jsHeader + "main();\n",
		},
		"unknown extension": {
			name:        "notes.txt",
			content:     "# Copyright\n",
			wantStatus:  Skipped,
			wantContent: "# Copyright\n",
		},
		"dry run": {
			name:        "main.js",
			content:     "main();\n",
			dryRun:      true,
			wantStatus:  Updated,
			wantContent: "main();\n",
		},
		"invalid utf-8": {
			name:        "main.js",
			content:     "\xc3\x28",
			wantStatus:  Failed,
			wantContent: "\xc3\x28",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tc.name)
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatal(err)
			}
			rw := New(c)
			rw.DryRun = tc.dryRun

			res := rw.Process(context.Background(), path)
			testutil.AssertEqual(t, res.Status, tc.wantStatus)
			testutil.AssertEqual(t, res.HeaderFound, tc.wantFound)
			testutil.AssertEqual(t, testutil.ReadFile(t, path), tc.wantContent)
			if (res.Err != nil) != (tc.wantStatus == Failed) {
				t.Errorf("Err = %v for status %v", res.Err, res.Status)
			}
		})
	}
}

func TestProcessMissingFile(t *testing.T) {
	res := New(testConfig(t)).Process(context.Background(), filepath.Join(t.TempDir(), "gone.js"))
	testutil.AssertEqual(t, res.Status, Failed)
	if !errors.Is(res.Err, os.ErrNotExist) {
		t.Errorf("Err = %v, want os.ErrNotExist", res.Err)
	}
}

func TestProcessConcurrently(t *testing.T) {
	dir := t.TempDir()
	const jsHeader = "/*\n* Copyright (C) 2026 Tester\n *\n * Part of Demo.\n*/\n\n"
	var files []txtar.File
	for _, name := range []string{"a.js", "b.js", "c.css", "d.mjs", "e.js", "f.css"} {
		files = append(files, txtar.File{Name: name, Data: []byte("x();\n")})
	}
	testutil.ExtractTxtar(t, &txtar.Archive{Files: files}, dir)

	rw := New(testConfig(t))
	var wg sync.WaitGroup
	for _, f := range files {
		wg.Go(func() {
			res := rw.Process(context.Background(), filepath.Join(dir, f.Name))
			if res.Status != Updated {
				t.Errorf("%s: status %v, err %v", f.Name, res.Status, res.Err)
			}
		})
	}
	wg.Wait()

	for _, f := range files {
		testutil.AssertEqual(t, testutil.ReadFile(t, filepath.Join(dir, f.Name)), jsHeader+"x();\n")
	}
}

// fileInfo describes an entry the walk failed on.
type fileInfo struct {
	name string
	dir  bool
}

func (i fileInfo) Name() string       { return i.name }
func (i fileInfo) Size() int64        { return 0 }
func (i fileInfo) ModTime() time.Time { return time.Time{} }
func (i fileInfo) IsDir() bool        { return i.dir }
func (i fileInfo) Sys() any           { return nil }
func (i fileInfo) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}

func TestWalkFailureCounting(t *testing.T) {
	rw := New(testConfig(t))
	errDenied := fs.ErrPermission

	cases := map[string]struct {
		path        string
		entry       fs.DirEntry
		wantCounted bool
	}{
		"recognised file":   {path: "src/app.js", entry: fs.FileInfoToDirEntry(fileInfo{name: "app.js"}), wantCounted: true},
		"unrecognised file": {path: "docs/notes.txt", entry: fs.FileInfoToDirEntry(fileInfo{name: "notes.txt"})},
		"directory":         {path: "src/lib.js", entry: fs.FileInfoToDirEntry(fileInfo{name: "lib.js", dir: true})},
		"no entry":          {path: "src/gone.js", wantCounted: true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			res, counted := rw.walkFailure(context.Background(), tc.path, tc.entry, errDenied)
			testutil.AssertEqual(t, counted, tc.wantCounted)
			testutil.AssertEqual(t, res.Status, Failed)
			testutil.AssertEqual(t, res.Path, tc.path)
			if !errors.Is(res.Err, fs.ErrPermission) {
				t.Errorf("Err = %v, want fs.ErrPermission", res.Err)
			}
		})
	}
}
