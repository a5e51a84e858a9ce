// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"go.astrophena.name/relicense/header"
	"go.astrophena.name/relicense/txtar"
)

// Environment variables that override the archive.
const (
	EnvProject = "RELICENSE_PROJECT"
	EnvAuthor  = "RELICENSE_AUTHOR"
	EnvYear    = "RELICENSE_YEAR"
)

type file struct {
	Project    string               `yaml:"project"`
	Author     string               `yaml:"author"`
	Year       string               `yaml:"year"`
	Keywords   []string             `yaml:"keywords"`
	IgnoreDirs []string             `yaml:"ignore_dirs"`
	Exclude    []string             `yaml:"exclude"`
	Extensions map[string]extension `yaml:"extensions"`
}

type extension struct {
	Style  string `yaml:"style"`
	Start  string `yaml:"start"`
	End    string `yaml:"end"`
	Marker string `yaml:"marker"`
	Asset  bool   `yaml:"asset"`
}

// Load builds the configuration for the project in root. getenv is used to
// look up environment overrides; it may be nil.
//
// Missing configuration files are not an error.
func Load(root string, getenv func(string) string) (*Config, error) {
	c := Default()

	ar, err := txtar.ParseFile(filepath.Join(root, FileName))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := c.applyArchive(ar); err != nil {
			return nil, fmt.Errorf("%s: %w", FileName, err)
		}
	}

	dotenv, err := godotenv.Read(filepath.Join(root, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf(".env: %w", err)
	}
	c.applyEnv(func(key string) string { return dotenv[key] })
	if getenv != nil {
		c.applyEnv(getenv)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

func (c *Config) applyArchive(ar *txtar.Archive) error {
	for _, f := range ar.Files {
		switch f.Name {
		case "config.yaml":
			if err := c.applyYAML(f.Data); err != nil {
				return fmt.Errorf("config.yaml: %w", err)
			}
		case "license/code.txt":
			c.CodeLicense = string(f.Data)
		case "license/asset.txt":
			c.AssetLicense = string(f.Data)
		default:
			return fmt.Errorf("unknown file %q", f.Name)
		}
	}
	return nil
}

func (c *Config) applyYAML(data []byte) error {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	setIf(&c.Project, f.Project)
	setIf(&c.Author, f.Author)
	setIf(&c.Year, f.Year)
	if f.Keywords != nil {
		c.Keywords = f.Keywords
	}
	if f.IgnoreDirs != nil {
		c.IgnoreDirs = f.IgnoreDirs
	}
	if f.Exclude != nil {
		c.Exclude = f.Exclude
	}
	if len(f.Extensions) > 0 {
		c.Extensions = make(map[string]header.Classification, len(f.Extensions))
		for ext, e := range f.Extensions {
			cl, err := e.classification()
			if err != nil {
				return fmt.Errorf("extension %q: %w", ext, err)
			}
			c.Extensions[ext] = cl
		}
	}
	return nil
}

func (e extension) classification() (header.Classification, error) {
	cl := header.Classification{Asset: e.Asset}
	switch strings.ToLower(e.Style) {
	case "block":
		cl.Style, cl.Start, cl.End = header.Block, e.Start, e.End
	case "line":
		cl.Style, cl.Marker = header.Line, e.Marker
	default:
		return cl, fmt.Errorf("unknown style %q, want block or line", e.Style)
	}
	return cl, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	setIf(&c.Project, getenv(EnvProject))
	setIf(&c.Author, getenv(EnvAuthor))
	setIf(&c.Year, getenv(EnvYear))
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
