// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package header

import "strings"

// Render returns the header for files of classification c, ending with a
// blank line. It returns an empty string if c is not [Classification.Known].
func Render(c Classification, n Notice) string {
	if !c.Known() {
		return ""
	}

	tmpl := n.Code
	if c.Asset {
		tmpl = n.Asset
	}
	body := strings.TrimSpace(n.substitute(tmpl))

	var sb strings.Builder
	switch c.Style {
	case Block:
		sb.WriteString(c.Start)
		sb.WriteByte('\n')
		sb.WriteString(body)
		sb.WriteByte('\n')
		sb.WriteString(c.End)
	case Line:
		for i, line := range strings.Split(body, "\n") {
			if i > 0 {
				sb.WriteByte('\n')
			}
			line = strings.TrimSpace(line)
			line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
			sb.WriteString(c.Marker)
			if line != "" {
				sb.WriteByte(' ')
				sb.WriteString(line)
			}
		}
	}
	sb.WriteString("\n\n")
	return sb.String()
}

func (n Notice) substitute(tmpl string) string {
	return strings.NewReplacer(
		"{project}", n.Project,
		"{author}", n.Author,
		"{year}", n.Year,
	).Replace(tmpl)
}
