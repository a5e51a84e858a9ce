// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package header

import (
	"strings"
	"unicode"
)

// maxLeadingSpace is how much whitespace may precede a block header.
// A block comment further down is not a header.
const maxLeadingSpace = 8

// decorations are the characters a purely decorative comment line consists of.
const decorations = " \t\r-*=#/"

// Rules control how existing headers are recognized.
type Rules struct {
	// Keywords mark a comment as a license header. They are matched
	// case-insensitively.
	Keywords []string
}

// Strip removes the directive line and the license header from the top of
// content. It returns the remaining body, with leading blank lines
// trimmed, and the directive line including its newline, if any. A leading
// byte order mark is returned as part of the directive so that it stays the
// first thing in the file.
//
// If c is not known, content is returned as is, without the directive.
func (r Rules) Strip(content string, c Classification) (body, directive string) {
	directive, content = splitDirective(content)
	if !c.Known() {
		return content, directive
	}
	body, _ = r.strip(content, c)
	return trimBlankLines(body), directive
}

// Detect reports whether content starts with a license header.
func (r Rules) Detect(content string, c Classification) bool {
	if !c.Known() {
		return false
	}
	_, content = splitDirective(content)
	_, found := r.strip(content, c)
	return found
}

func (r Rules) strip(content string, c Classification) (string, bool) {
	switch c.Style {
	case Block:
		return r.stripBlock(content, c)
	case Line:
		return r.stripLines(content, c)
	}
	return content, false
}

func (r Rules) stripBlock(content string, c Classification) (string, bool) {
	trimmed := strings.TrimLeftFunc(content, unicode.IsSpace)
	if len(content)-len(trimmed) > maxLeadingSpace || !strings.HasPrefix(trimmed, c.Start) {
		return content, false
	}
	end := strings.Index(trimmed[len(c.Start):], c.End)
	if end < 0 {
		return content, false
	}
	end += len(c.Start) + len(c.End)
	if !r.hasKeyword(trimmed[:end]) {
		return content, false
	}
	return trimmed[end:], true
}

type scanState int

const (
	// scanning holds leading comments until a keyword shows they are a header.
	scanning scanState = iota
	// inHeader absorbs comment lines that belong to the header.
	inHeader
	// inBody means the header, if any, has ended.
	inBody
)

func (r Rules) stripLines(content string, c Classification) (string, bool) {
	var (
		state = scanning
		// contiguous is true while no blank line separates the current
		// line from the last absorbed one.
		contiguous bool
		// start is where the lines held in scanning begin; a blank line
		// releases the comments before it.
		start int
		// end is the offset just past the last absorbed line.
		end int
	)
	for pos := 0; pos < len(content) && state != inBody; {
		line, next := content[pos:], len(content)
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line, next = line[:i], pos+i+1
		}
		text, isComment := commentText(line, c.Marker)
		blank := strings.TrimSpace(line) == ""

		switch state {
		case scanning:
			switch {
			case blank:
				start = next
			case !isComment:
				state = inBody
			case r.hasKeyword(text):
				state, contiguous, end = inHeader, true, next
			}
		case inHeader:
			switch {
			case blank:
				contiguous = false
			case !isComment:
				state = inBody
			case contiguous, r.hasKeyword(text):
				contiguous, end = true, next
			case !isDecorative(text):
				state = inBody
			}
		}

		pos = next
	}
	if end == 0 {
		return content, false
	}
	return content[:start] + trimBlankLines(content[end:]), true
}

// commentText returns the text after marker if line is a comment.
func commentText(line, marker string) (text string, ok bool) {
	line = strings.TrimLeftFunc(line, unicode.IsSpace)
	if !strings.HasPrefix(line, marker) {
		return "", false
	}
	return line[len(marker):], true
}

func isDecorative(text string) bool {
	return strings.Trim(text, decorations) == ""
}

func (r Rules) hasKeyword(s string) bool {
	s = strings.ToLower(s)
	for _, kw := range r.Keywords {
		if kw != "" && strings.Contains(s, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// bom is the UTF-8 byte order mark.
const bom = "\uFEFF"

// splitDirective splits off a byte order mark and a directive line. The mark,
// if any, stays in front of the directive.
func splitDirective(content string) (directive, rest string) {
	mark, content := "", content
	if after, ok := strings.CutPrefix(content, bom); ok {
		mark, content = bom, after
	}
	if !strings.HasPrefix(content, Directive) {
		return mark, content
	}
	i := strings.IndexByte(content, '\n')
	if i < 0 {
		return mark + content + "\n", ""
	}
	return mark + content[:i+1], content[i+1:]
}

func trimBlankLines(s string) string {
	for s != "" {
		line, rest, found := strings.Cut(s, "\n")
		if strings.TrimSpace(line) != "" {
			return s
		}
		if !found {
			return ""
		}
		s = rest
	}
	return s
}
