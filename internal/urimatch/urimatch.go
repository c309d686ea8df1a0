// Package urimatch implements the RFC 6570 matching, expansion and overlap
// primitives the group model and frontend router use to route resource and
// prompt requests. Parsing, variable extraction and expansion are delegated
// to yosida95/uritemplate/v3; reverse matching and overlap detection (which
// that library does not expose) are implemented directly against RFC 6570's
// operator table.
package urimatch

import (
	"regexp"
	"strings"

	"github.com/yosida95/uritemplate/v3"
)

// MatchResult is the outcome of matching a runtime URI against a reference.
type MatchResult struct {
	Matches   bool
	Variables map[string]string
}

var exprRe = regexp.MustCompile(`\{([+#./;?&]?)([^{}]*)\}`)

type operator struct {
	prefix        string
	allowReserved bool
}

var operators = map[string]operator{
	"":  {"", false},
	"+": {"", true},
	"#": {"#", true},
	".": {".", false},
	"/": {"/", false},
	";": {";", false},
	"?": {"?", false},
	"&": {"&", false},
}

// IsTemplate reports whether s contains at least one well-formed RFC 6570
// expression. Empty braces ("{}") are not a template.
func IsTemplate(s string) bool {
	if !strings.Contains(s, "{") {
		return false
	}
	tmpl, err := uritemplate.New(s)
	if err != nil {
		return false
	}
	return len(tmpl.Varnames()) > 0
}

// Variables returns, per expression in document order, the operator-stripped
// inner text of the expression. A grouped expression like "{?a,b}" yields a
// single entry "a,b" rather than being split into two entries.
func Variables(template string) []string {
	matches := exprRe.FindAllStringSubmatch(template, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		inner := strings.TrimSpace(m[2])
		if inner == "" {
			continue
		}
		out = append(out, inner)
	}
	return out
}

// Expand performs RFC 6570 expansion; variables absent from vars expand to
// empty per the operator's own undefined-variable rule.
func Expand(template string, vars map[string]string) string {
	tmpl, err := uritemplate.New(template)
	if err != nil {
		return template
	}
	values := uritemplate.Values{}
	for _, name := range tmpl.Varnames() {
		if v, ok := vars[name]; ok {
			values[name] = uritemplate.String(v)
		}
	}
	return tmpl.Expand(values)
}

// GenerateExampleURI substitutes every variable with "example-<name>",
// producing a plausible concrete URI for conflict messages.
func GenerateExampleURI(template string) string {
	tmpl, err := uritemplate.New(template)
	if err != nil {
		return template
	}
	values := uritemplate.Values{}
	for _, name := range tmpl.Varnames() {
		values[name] = uritemplate.String("example-" + name)
	}
	return tmpl.Expand(values)
}

// Match attempts to reverse-match uri against template. If template is not a
// template, the two strings are compared literally with no variables.
func Match(uri, template string) MatchResult {
	if !IsTemplate(template) {
		return MatchResult{Matches: uri == template}
	}

	locs := exprRe.FindAllStringSubmatchIndex(template, -1)
	if len(locs) == 0 {
		return MatchResult{Matches: uri == template}
	}

	var b strings.Builder
	b.WriteString("^")

	type exprVars struct {
		groupIdx int
		names    []string
	}
	var captures []exprVars
	groupIdx := 0

	last := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		b.WriteString(regexp.QuoteMeta(template[last:start]))

		opToken := template[loc[2]:loc[3]]
		inner := template[loc[4]:loc[5]]
		op, ok := operators[opToken]
		if !ok {
			op = operators[""]
		}
		names := splitVarNames(inner)

		if op.prefix != "" {
			b.WriteString(regexp.QuoteMeta(op.prefix))
		}

		charClass := "[^/]"
		if op.allowReserved {
			charClass = "."
		}
		// An expression may legitimately be absent from the URI (undefined
		// variable expansion), so the capture is allowed to match nothing.
		group := "(" + charClass + "*" + ")"
		groupIdx++
		captures = append(captures, exprVars{groupIdx: groupIdx, names: names})
		b.WriteString(group)

		last = end
	}
	b.WriteString(regexp.QuoteMeta(template[last:]))
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return MatchResult{Matches: false}
	}
	m := re.FindStringSubmatch(uri)
	if m == nil {
		return MatchResult{Matches: false}
	}
	vars := map[string]string{}
	for _, c := range captures {
		if c.groupIdx >= len(m) {
			continue
		}
		val := m[c.groupIdx]
		for _, name := range c.names {
			vars[name] = val
		}
	}
	return MatchResult{Matches: true, Variables: vars}
}

// TemplatesCanOverlap is an over-approximate overlap detector: it never
// reports disjoint for a pair that could actually overlap, but may report a
// possible overlap for a pair that, examined precisely, would not.
func TemplatesCanOverlap(a, b string) bool {
	aIsTmpl, bIsTmpl := IsTemplate(a), IsTemplate(b)
	switch {
	case !aIsTmpl && !bIsTmpl:
		return a == b
	case aIsTmpl && !bIsTmpl:
		return Match(b, a).Matches
	case !aIsTmpl && bIsTmpl:
		return Match(a, b).Matches
	default:
		skeletonA, schemeA := skeleton(a)
		skeletonB, schemeB := skeleton(b)
		if schemeA != "" && schemeB != "" && schemeA != schemeB {
			return false
		}
		return sharePrefix(skeletonA, skeletonB)
	}
}

func splitVarNames(inner string) []string {
	parts := strings.Split(inner, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.TrimSuffix(p, "*")
		if idx := strings.Index(p, ":"); idx >= 0 {
			p = p[:idx]
		}
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// skeleton replaces every expression in a template with a "\x00" marker,
// leaving the static literal structure used for the conservative overlap
// check. A scheme that contains an expression is reported as "" (unknown).
func skeleton(template string) (path string, scheme string) {
	static := exprRe.ReplaceAllString(template, "\x00")
	if idx := strings.Index(static, "://"); idx >= 0 {
		scheme = static[:idx]
		static = static[idx+len("://"):]
		if strings.Contains(scheme, "\x00") {
			scheme = ""
		}
	}
	return static, scheme
}

func sharePrefix(a, b string) bool {
	segA := strings.Split(strings.Trim(a, "/"), "/")
	segB := strings.Split(strings.Trim(b, "/"), "/")
	n := len(segA)
	if len(segB) < n {
		n = len(segB)
	}
	if n == 0 {
		return true
	}
	for i := 0; i < n; i++ {
		if segA[i] == "" || segB[i] == "" {
			return true
		}
		// A segment holding an expression can expand to anything, so
		// comparison stops there.
		if strings.Contains(segA[i], "\x00") || strings.Contains(segB[i], "\x00") {
			return true
		}
		if segA[i] != segB[i] {
			return false
		}
	}
	return true
}
