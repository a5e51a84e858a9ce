// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Package config holds the settings a relicense run is performed with.

Settings start from built-in defaults and can be overridden, in order, by:

  - a .relicense.txtar archive in the project root,
  - a .env file in the project root,
  - RELICENSE_PROJECT, RELICENSE_AUTHOR and RELICENSE_YEAR environment
    variables.

The archive may contain these files:

  - config.yaml: project, author, year, keywords, ignore_dirs, exclude and
    extensions. When extensions is set, it replaces the default table.
  - license/code.txt: the license template for source files.
  - license/asset.txt: the license template for asset files.

Templates may reference {project}, {author} and {year}.
*/
package config

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"

	"go.astrophena.name/relicense/header"
)

// FileName is the name of the configuration archive in the project root.
const FileName = ".relicense.txtar"

// Config is the configuration of a single run. It must not be modified after
// it has been validated.
type Config struct {
	Project string
	Author  string
	Year    string

	// CodeLicense and AssetLicense are license templates.
	CodeLicense  string
	AssetLicense string

	// Keywords identify an existing license header.
	Keywords []string
	// Extensions maps a lower-case file extension, with the leading dot, to
	// its classification. Files with other extensions are skipped.
	Extensions map[string]header.Classification
	// IgnoreDirs are directory names that are never descended into.
	IgnoreDirs []string
	// Exclude are doublestar patterns of slash-separated paths, relative to
	// the root, that are skipped.
	Exclude []string
}

const codeLicense = `
 * Project: {project}
 * Copyright (C) {year} {author}
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
`

const assetLicense = `
 * Project: {project}
 * Copyright (C) {year} {author}
 *
 * This work is licensed under the Creative Commons Attribution-NonCommercial
 * 4.0 International License. To view a copy of this license, visit
 * http://creativecommons.org/licenses/by-nc/4.0/
`

var (
	cStyle    = header.Classification{Style: header.Block, Start: "/*", End: "*/"}
	htmlStyle = header.Classification{Style: header.Block, Start: "<!--", End: "-->"}
	hashStyle = header.Classification{Style: header.Line, Marker: "#"}
	goStyle   = header.Classification{Style: header.Line, Marker: "//"}
	objStyle  = header.Classification{Style: header.Line, Marker: "#", Asset: true}
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Project:      "Eldoran",
		Author:       "WinAppleMan",
		Year:         strconv.Itoa(time.Now().Year()),
		CodeLicense:  codeLicense,
		AssetLicense: assetLicense,
		Keywords:     slices.Clone(header.DefaultKeywords),
		Extensions: map[string]header.Classification{
			".js":   cStyle,
			".mjs":  cStyle,
			".cjs":  cStyle,
			".ts":   cStyle,
			".css":  cStyle,
			".html": htmlStyle,
			".py":   hashStyle,
			".sh":   hashStyle,
			".go":   goStyle,
			".obj":  objStyle,
			".mtl":  objStyle,
		},
		IgnoreDirs: []string{
			".git",
			".hg",
			".svn",
			"node_modules",
			"vendor",
			"dist",
			"build",
			"__pycache__",
		},
	}
}

// Validate reports every problem with c at once.
func (c *Config) Validate() error {
	var errs *multierror.Error
	if c.Project == "" {
		errs = multierror.Append(errs, fmt.Errorf("project is empty"))
	}
	if c.Author == "" {
		errs = multierror.Append(errs, fmt.Errorf("author is empty"))
	}
	if c.Year == "" {
		errs = multierror.Append(errs, fmt.Errorf("year is empty"))
	}
	if len(c.Extensions) == 0 {
		errs = multierror.Append(errs, fmt.Errorf("no extensions configured"))
	}

	// A header that the next run would not recognize gets stacked on top of
	// itself every time.
	const probe = "probe\n"
	n, rules := c.Notice(), c.Rules()
	for _, ext := range slices.Sorted(maps.Keys(c.Extensions)) {
		cl := c.Extensions[ext]
		if !strings.HasPrefix(ext, ".") || ext != strings.ToLower(ext) {
			errs = multierror.Append(errs, fmt.Errorf("extension %q must be lower case and start with a dot", ext))
		}
		if !cl.Known() {
			errs = multierror.Append(errs, fmt.Errorf("extension %q: incomplete %s comment style", ext, cl.Style))
			continue
		}
		if body, _ := rules.Strip(header.Render(cl, n)+probe, cl); body != probe {
			errs = multierror.Append(errs, fmt.Errorf("extension %q: rendered header is not recognized as a header; the license template must contain one of the keywords %q", ext, c.Keywords))
		}
	}

	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			errs = multierror.Append(errs, fmt.Errorf("invalid exclude pattern %q", pattern))
		}
	}
	return errs.ErrorOrNil()
}

// Classify returns the classification for the file at path.
func (c *Config) Classify(path string) (header.Classification, bool) {
	cl, ok := c.Extensions[strings.ToLower(filepath.Ext(path))]
	return cl, ok
}

// Notice returns the values headers are rendered from.
func (c *Config) Notice() header.Notice {
	return header.Notice{
		Project: c.Project,
		Author:  c.Author,
		Year:    c.Year,
		Code:    c.CodeLicense,
		Asset:   c.AssetLicense,
	}
}

// Rules returns the rules existing headers are detected with.
func (c *Config) Rules() header.Rules {
	return header.Rules{Keywords: c.Keywords}
}

// IsIgnoredDir reports whether a directory with the given name is skipped
// with everything below it.
func (c *Config) IsIgnoredDir(name string) bool {
	return slices.Contains(c.IgnoreDirs, name)
}

// IsExcluded reports whether the file at rel, relative to the root, is
// skipped.
func (c *Config) IsExcluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range c.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
