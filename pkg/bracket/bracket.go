// Package bracket resolves [[TAG]] macros in stored document text.
//
// A resolved tag keeps its name as an audit trail: [[PYE]] becomes
// [[PYE: 12/31/2024]]. Tags without a mapping are left untouched.
package bracket

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rickylandino/val-builder-api/pkg/metrics"
	"github.com/rickylandino/val-builder-api/pkg/models"
)

var tagPattern = regexp.MustCompile(`\[\[(.*?)\]\]`)

type rule struct {
	system  bool
	resolve accessor
}

// Engine is a compiled mapping table. It is safe for concurrent use.
type Engine struct {
	rules map[string]rule
}

// Problem describes a mapping whose object path can never resolve.
type Problem struct {
	TagName    string
	ObjectPath string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s -> %q", p.TagName, p.ObjectPath)
}

// NewEngine compiles mappings. When two mappings share a tag name
// (case-insensitively) the first one wins. Custom mappings whose object path
// is malformed or names an unknown property are reported as problems and
// resolve to an empty value.
func NewEngine(mappings []models.BracketMapping) (*Engine, []Problem) {
	e := &Engine{rules: make(map[string]rule, len(mappings))}
	var problems []Problem

	for _, m := range mappings {
		key := strings.ToLower(strings.TrimSpace(m.TagName))
		if _, dup := e.rules[key]; dup {
			continue
		}
		if m.SystemTag {
			e.rules[key] = rule{system: true}
			continue
		}

		path := models.Deref(m.ObjectPath)
		fn, ok := lookup(path)
		if !ok {
			problems = append(problems, Problem{TagName: m.TagName, ObjectPath: path})
			fn = func(Context) string { return "" }
		}
		e.rules[key] = rule{resolve: fn}
	}

	return e, problems
}

// Substitute rewrites every mapped tag in content.
func (e *Engine) Substitute(content string, c Context) string {
	if content == "" {
		return content
	}

	return tagPattern.ReplaceAllStringFunc(content, func(match string) string {
		tag := strings.TrimSpace(match[2 : len(match)-2])
		r, ok := e.rules[strings.ToLower(tag)]
		if !ok {
			metrics.RecordBracketSubstitution("unmapped")
			return match
		}
		if r.system {
			metrics.RecordBracketSubstitution("system")
			return systemTag(tag, c.Header)
		}
		metrics.RecordBracketSubstitution("custom")
		return "[[" + tag + ": " + r.resolve(c) + "]]"
	})
}

// Substitute is a convenience for one-off substitutions.
func Substitute(mappings []models.BracketMapping, content string, c Context) string {
	e, _ := NewEngine(mappings)
	return e.Substitute(content, c)
}

func systemTag(tag string, h *models.ValHeader) string {
	if h == nil {
		h = &models.ValHeader{}
	}

	switch {
	case strings.EqualFold(tag, "PYE"):
		return "[[PYE: " + formatDate(h.PlanYearEndDate) + "]]"

	case len(tag) >= 4 && strings.EqualFold(tag[:4], "PYE+"):
		raw := tag[4:]
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || h.PlanYearEndDate == nil {
			return "[[PYE+" + raw + ": ]]"
		}
		shifted := AddMonths(*h.PlanYearEndDate, n)
		return "[[PYE+" + strconv.Itoa(n) + ": " + formatDate(&shifted) + "]]"

	case strings.EqualFold(tag, "PriorYearPYE"):
		if h.PlanYearBeginDate == nil {
			return "[[PriorYearPYE: ]]"
		}
		prior := h.PlanYearBeginDate.AddDate(0, 0, -1)
		return "[[PriorYearPYE: " + formatDate(&prior) + "]]"
	}

	// Recognized as a system tag but has no resolver.
	return "[[" + tag + "]]"
}
