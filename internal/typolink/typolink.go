package typolink

import (
	"strings"
)

// ============================================================
// Typed links
// ============================================================

// Scheme marks a field value as a typed link.
const Scheme = "t3://"

const emptyPart = "-"

// Link is a decoded typed link: "<url> <target> <class> <title> <params>".
type Link struct {
	URL    string `json:"url"`
	Target string `json:"target,omitempty"`
	Class  string `json:"class,omitempty"`
	Title  string `json:"title,omitempty"`
	Params string `json:"params,omitempty"`
}

// IsTyped reports whether value starts with the typed-link scheme.
func IsTyped(value string) bool {
	return strings.HasPrefix(value, Scheme)
}

// Decode splits a link string into its parts. Parts are space separated and may
// be double quoted; "-" stands for an empty part.
func Decode(value string) Link {
	parts := split(strings.TrimSpace(value))
	get := func(i int) string {
		if i >= len(parts) {
			return ""
		}
		p := strings.TrimSpace(parts[i])
		if p == emptyPart {
			return ""
		}
		return p
	}
	return Link{
		URL:    get(0),
		Target: get(1),
		Class:  get(2),
		Title:  get(3),
		Params: get(4),
	}
}

// Encode is the inverse of Decode. Trailing empty parts are dropped.
func Encode(l Link) string {
	parts := []string{l.URL, l.Target, l.Class, l.Title, l.Params}
	last := -1
	for i, p := range parts {
		if strings.TrimSpace(p) != "" {
			last = i
		}
	}
	if last < 0 {
		return ""
	}
	out := make([]string, 0, last+1)
	for _, p := range parts[:last+1] {
		p = strings.TrimSpace(p)
		switch {
		case p == "":
			out = append(out, emptyPart)
		case strings.ContainsAny(p, ` "`):
			p = strings.ReplaceAll(p, `\`, `\\`)
			p = strings.ReplaceAll(p, `"`, `\"`)
			out = append(out, `"`+p+`"`)
		default:
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

func split(s string) []string {
	if s == "" {
		return nil
	}
	var (
		parts  []string
		cur    strings.Builder
		quoted bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quoted && c == '\\' && i+1 < len(s):
			i++
			cur.WriteByte(s[i])
		case c == '"' && (quoted || cur.Len() == 0):
			quoted = !quoted
		case c == ' ' && !quoted:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	parts = append(parts, cur.String())
	return parts
}
