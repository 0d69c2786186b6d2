// Package orn compiles resource name templates into matchers and formatters.
//
// A template is literal text with {param} placeholders and [optional] groups:
//
//	https://openstax.org/orn/book/{bookId}[@{bookContentVersion}[:{bookArchiveVersion}]]
//
// A parameter matches one identifier segment (no '/', ':', '@', '?' or '#').
// An optional group is emitted by Format only when every parameter directly
// inside it is set.
package orn

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/openstax/openstax-resource-names/internal/domain"
)

const segmentPattern = `[^/:@?#]+`

var paramNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Params holds decoded template parameters by name.
type Params map[string]string

// Get returns a parameter or "" when absent.
func (p Params) Get(name string) string { return p[name] }

type partKind int

const (
	partLiteral partKind = iota
	partParam
	partGroup
)

type part struct {
	kind  partKind
	text  string // literal text or parameter name
	group []part
}

// Template is a compiled resource name template. Safe for concurrent use.
type Template struct {
	raw   string
	parts []part
	re    *regexp.Regexp
	names []string
}

// Compile parses a template. Malformed templates (unbalanced brackets, empty or
// duplicate parameter names, groups without parameters, adjacent parameters)
// are rejected with domain.ErrInvalidTemplate.
func Compile(raw string) (*Template, error) {
	p := &parser{src: raw}
	parts, err := p.parse(0)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", domain.ErrInvalidTemplate, raw, err)
	}
	if p.pos != len(raw) {
		return nil, fmt.Errorf("%w: %q: unexpected ']' at %d", domain.ErrInvalidTemplate, raw, p.pos)
	}

	var names []string
	seen := make(map[string]bool)
	lastWasParam := false
	if err := checkParts(parts, seen, &names, &lastWasParam); err != nil {
		return nil, fmt.Errorf("%w: %q: %w", domain.ErrInvalidTemplate, raw, err)
	}
	if len(names) == 0 && len(parts) == 0 {
		return nil, fmt.Errorf("%w: empty template", domain.ErrInvalidTemplate)
	}

	var b strings.Builder
	b.WriteString("^")
	writeRegex(&b, parts)
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", domain.ErrInvalidTemplate, raw, err)
	}

	return &Template{raw: raw, parts: parts, re: re, names: names}, nil
}

// MustCompile is like Compile but panics on error. Used for package-level templates.
func MustCompile(raw string) *Template {
	t, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the template source.
func (t *Template) String() string { return t.raw }

// paramNames returns the parameter names in template order.
func (t *Template) paramNames() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Match reports whether name matches the template and returns its percent-decoded params.
// Parameters inside an unmatched optional group are absent from the result.
func (t *Template) Match(name string) (Params, bool) {
	m := t.re.FindStringSubmatch(name)
	if m == nil {
		return nil, false
	}
	params := make(Params, len(t.names))
	for i, group := range t.re.SubexpNames() {
		if i == 0 || group == "" || m[i] == "" {
			continue
		}
		v, err := url.PathUnescape(m[i])
		if err != nil {
			return nil, false
		}
		params[group] = v
	}
	return params, true
}

// Format renders params into a name. Optional groups with unset parameters are
// skipped; required parameters that are unset render empty.
func (t *Template) Format(params Params) string {
	var b strings.Builder
	formatParts(&b, t.parts, params)
	return b.String()
}

func formatParts(b *strings.Builder, parts []part, params Params) {
	for _, p := range parts {
		switch p.kind {
		case partLiteral:
			b.WriteString(p.text)
		case partParam:
			b.WriteString(url.PathEscape(params[p.text]))
		case partGroup:
			if groupSatisfied(p.group, params) {
				formatParts(b, p.group, params)
			}
		}
	}
}

func groupSatisfied(parts []part, params Params) bool {
	for _, p := range parts {
		if p.kind == partParam && params[p.text] == "" {
			return false
		}
	}
	return true
}

func writeRegex(b *strings.Builder, parts []part) {
	for _, p := range parts {
		switch p.kind {
		case partLiteral:
			b.WriteString(regexp.QuoteMeta(p.text))
		case partParam:
			fmt.Fprintf(b, "(?P<%s>%s)", p.text, segmentPattern)
		case partGroup:
			b.WriteString("(?:")
			writeRegex(b, p.group)
			b.WriteString(")?")
		}
	}
}

func checkParts(parts []part, seen map[string]bool, names *[]string, lastWasParam *bool) error {
	for _, p := range parts {
		switch p.kind {
		case partLiteral:
			*lastWasParam = false
		case partParam:
			if !paramNameRegex.MatchString(p.text) {
				return fmt.Errorf("invalid parameter name %q", p.text)
			}
			if seen[p.text] {
				return fmt.Errorf("duplicate parameter %q", p.text)
			}
			if *lastWasParam {
				return fmt.Errorf("parameter %q follows another parameter without a separator", p.text)
			}
			seen[p.text] = true
			*names = append(*names, p.text)
			*lastWasParam = true
		case partGroup:
			if !hasDirectParam(p.group) {
				return fmt.Errorf("optional group without parameters")
			}
			if err := checkParts(p.group, seen, names, lastWasParam); err != nil {
				return err
			}
		}
	}
	return nil
}

func hasDirectParam(parts []part) bool {
	for _, p := range parts {
		if p.kind == partParam {
			return true
		}
	}
	return false
}

type parser struct {
	src string
	pos int
}

// parse reads parts until the end of input or a closing ']' at depth > 0.
func (p *parser) parse(depth int) ([]part, error) {
	var parts []part
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, part{kind: partLiteral, text: lit.String()})
			lit.Reset()
		}
	}

	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case '{':
			end := strings.IndexByte(p.src[p.pos:], '}')
			if end < 0 {
				return nil, fmt.Errorf("unclosed '{' at %d", p.pos)
			}
			name := p.src[p.pos+1 : p.pos+end]
			if name == "" {
				return nil, fmt.Errorf("empty parameter name at %d", p.pos)
			}
			flush()
			parts = append(parts, part{kind: partParam, text: name})
			p.pos += end + 1
		case '}':
			return nil, fmt.Errorf("unexpected '}' at %d", p.pos)
		case '[':
			flush()
			start := p.pos
			p.pos++
			group, err := p.parse(depth + 1)
			if err != nil {
				return nil, err
			}
			if p.pos >= len(p.src) || p.src[p.pos] != ']' {
				return nil, fmt.Errorf("unclosed '[' at %d", start)
			}
			p.pos++
			parts = append(parts, part{kind: partGroup, group: group})
		case ']':
			if depth == 0 {
				return nil, fmt.Errorf("unexpected ']' at %d", p.pos)
			}
			flush()
			return parts, nil
		default:
			lit.WriteByte(c)
			p.pos++
		}
	}
	if depth > 0 {
		return nil, fmt.Errorf("unclosed '['")
	}
	flush()
	return parts, nil
}
