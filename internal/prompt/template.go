// Package prompt implements string templates with {name} placeholders.
//
// A literal brace is written doubled: "{{" renders "{" and "}}" renders "}".
package prompt

import (
	"fmt"
	"strings"
)

type segment struct {
	text string
	// variable name when the segment is a placeholder
	name string
}

type Template struct {
	raw      string
	segments []segment
	vars     []string
}

// FromTemplate parses text. Unbalanced braces and empty placeholders are errors.
func FromTemplate(text string) (*Template, error) {
	t := &Template{raw: text}
	seen := map[string]bool{}

	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(text); i++ {
		switch ch := text[i]; ch {
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				lit.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("prompt: unclosed '{' at offset %d", i)
			}
			name := strings.TrimSpace(text[i+1 : i+1+end])
			if name == "" {
				return nil, fmt.Errorf("prompt: empty placeholder at offset %d", i)
			}
			if strings.ContainsAny(name, "{") {
				return nil, fmt.Errorf("prompt: nested '{' in placeholder at offset %d", i)
			}
			flush()
			t.segments = append(t.segments, segment{name: name})
			if !seen[name] {
				seen[name] = true
				t.vars = append(t.vars, name)
			}
			i += end + 1
		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				lit.WriteByte('}')
				i++
				continue
			}
			return nil, fmt.Errorf("prompt: unmatched '}' at offset %d", i)
		default:
			lit.WriteByte(ch)
		}
	}
	flush()
	return t, nil
}

// MustFromTemplate is like FromTemplate but panics on a parse error.
func MustFromTemplate(text string) *Template {
	t, err := FromTemplate(text)
	if err != nil {
		panic(err)
	}
	return t
}

// Variables returns placeholder names in order of first appearance.
func (t *Template) Variables() []string {
	return append([]string(nil), t.vars...)
}

func (t *Template) String() string { return t.raw }

// Format substitutes vars into the template. Every placeholder must have a value;
// extra entries in vars are ignored.
func (t *Template) Format(vars map[string]string) (string, error) {
	var b strings.Builder
	for _, s := range t.segments {
		if s.name == "" {
			b.WriteString(s.text)
			continue
		}
		v, ok := vars[s.name]
		if !ok {
			return "", fmt.Errorf("prompt: missing value for variable %q", s.name)
		}
		b.WriteString(v)
	}
	return b.String(), nil
}
