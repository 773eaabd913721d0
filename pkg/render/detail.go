// Package render turns an assembled document into printable HTML.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rickylandino/val-builder-api/pkg/document"
)

const maxLevel = 4

var chevronPattern = regexp.MustCompile(`(&lt;&lt;|<<)\s*(.*?)\s*(>>|&gt;&gt;)`)

// StripChevrons replaces every <<value>> marker, literal or entity encoded,
// with its trimmed interior.
func StripChevrons(s string) string {
	return chevronPattern.ReplaceAllString(s, "${2}")
}

// Classes returns the class list for a detail's layout flags.
func Classes(d document.Detail) []string {
	classes := []string{"val-detail"}
	if d.Bullet {
		classes = append(classes, "bullet")
	}
	if d.Indent > 0 {
		classes = append(classes, fmt.Sprintf("indent-%d", min(d.Indent, maxLevel)))
	}
	if d.Bold {
		classes = append(classes, "bold")
	}
	if d.Center {
		classes = append(classes, "text-center")
	}
	if d.TightLineHeight {
		classes = append(classes, "tightLineHeight")
	}
	if d.BlankLineAfter > 0 {
		classes = append(classes, fmt.Sprintf("mb-%d", min(d.BlankLineAfter+1, maxLevel)))
	}
	return classes
}

// RenderDetail renders one detail as a paragraph. Text that is already a
// single <p> element keeps its tag and gets the classes merged into it.
// Detail text is stored as HTML and is not escaped.
func RenderDetail(d document.Detail) string {
	classAttr := strings.Join(Classes(d), " ")
	content := d.Text

	trimmed := strings.TrimLeft(content, " \t\r\n")
	if strings.HasPrefix(trimmed, "<p>") || strings.HasPrefix(trimmed, "<p ") {
		tagEnd := strings.IndexByte(content, '>')
		closeAt := strings.LastIndex(content, "</p>")
		if tagEnd > 0 && closeAt > tagEnd {
			openTag := content[:tagEnd]
			inner := StripChevrons(content[tagEnd+1 : closeAt])

			if strings.Contains(openTag, "class=") {
				openTag = strings.ReplaceAll(openTag, `class="`, `class="`+classAttr+" ")
			} else {
				openTag += ` class="` + classAttr + `"`
			}
			return openTag + ">" + inner + "</p>"
		}
		return content
	}

	return "<p class='" + classAttr + "'>" + StripChevrons(content) + "</p>"
}
