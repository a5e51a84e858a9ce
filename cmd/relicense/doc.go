// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Relicense rewrites the license header of every recognised source file in
the current directory tree.

Each file is classified by its extension. Any existing license header at
the top of the file is removed and replaced with a freshly rendered one,
so running the tool twice produces no further changes. A leading #!
line is kept at the very top.

Configuration is read from a .relicense.txtar archive in the current
directory. It may contain:

  - config.yaml: project, author, year, keywords, ignore_dirs, exclude
    and extensions settings.
  - license/code.txt: the header template for source code.
  - license/asset.txt: the header template for asset files.

Templates may use the {project}, {author} and {year} placeholders. The
RELICENSE_PROJECT, RELICENSE_AUTHOR and RELICENSE_YEAR variables, read
from a .env file and then from the environment, override the archive.

Pass -dry to report what would change without writing anything.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/relicense/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
