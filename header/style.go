// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package header renders license headers and strips existing ones from
// the top of source and asset files.
package header

// Style is the comment syntax used by a file type.
type Style int

const (
	// Unknown marks a file type the tool does not handle.
	Unknown Style = iota
	// Block comments are delimited, like /* ... */.
	Block
	// Line comments prefix every line, like # or //.
	Line
)

func (s Style) String() string {
	switch s {
	case Block:
		return "block"
	case Line:
		return "line"
	default:
		return "unknown"
	}
}

// Classification describes how headers are written and detected for one
// file extension.
type Classification struct {
	Style Style
	// Start and End delimit a Block comment.
	Start, End string
	// Marker prefixes every Line comment.
	Marker string
	// Asset selects the asset license template instead of the code one.
	Asset bool
}

// Known reports whether c describes a usable comment syntax.
func (c Classification) Known() bool {
	switch c.Style {
	case Block:
		return c.Start != "" && c.End != ""
	case Line:
		return c.Marker != ""
	}
	return false
}

// Notice holds the values and templates a header is rendered from.
//
// Templates may reference {project}, {author} and {year}.
type Notice struct {
	Project string
	Author  string
	Year    string
	Code    string
	Asset   string
}

// Directive is the prefix of an interpreter directive line.
const Directive = "#!"

// DefaultKeywords are the markers that identify a license header.
var DefaultKeywords = []string{
	"copyright",
	"license",
	"licence",
	"rights reserved",
	"©",
}

// DefaultRules detect headers using [DefaultKeywords].
var DefaultRules = Rules{Keywords: DefaultKeywords}
