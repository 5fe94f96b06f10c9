package bindgen

import (
	"go/token"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// initialisms keeps common abbreviations upper case, the way Go code
// spells them.
var initialisms = map[string]string{
	"api":  "API",
	"dns":  "DNS",
	"http": "HTTP",
	"id":   "ID",
	"io":   "IO",
	"ip":   "IP",
	"json": "JSON",
	"tcp":  "TCP",
	"udp":  "UDP",
	"uri":  "URI",
	"url":  "URL",
	"utf8": "UTF8",
	"uuid": "UUID",
}

func segments(name string) []string {
	name = strings.TrimPrefix(name, "%")
	return strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || r == ':' || r == '/' || r == '@'
	})
}

// pascal turns a kebab-case WIT identifier into an exported Go name.
func pascal(name string) string {
	// a Caser is stateful, so each call gets its own
	titler := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, seg := range segments(name) {
		if up, ok := initialisms[strings.ToLower(seg)]; ok {
			b.WriteString(up)
			continue
		}
		b.WriteString(titler.String(seg))
	}
	if b.Len() == 0 {
		return "X"
	}
	return b.String()
}

// camel turns a WIT identifier into an unexported Go name.
func camel(name string) string {
	segs := segments(name)
	if len(segs) == 0 {
		return "x"
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(segs[0]))
	for _, seg := range segs[1:] {
		b.WriteString(pascal(seg))
	}
	return b.String()
}

// lowerFirst lowers the leading run of upper-case letters of an exported
// Go name: "HTTPClient" becomes "httpClient".
func lowerFirst(s string) string {
	r := []rune(s)
	for i := 0; i < len(r); i++ {
		if r[i] < 'A' || r[i] > 'Z' {
			break
		}
		if i > 0 && i+1 < len(r) && (r[i+1] < 'A' || r[i+1] > 'Z') {
			break
		}
		r[i] += 'a' - 'A'
	}
	return string(r)
}

// localNames are identifiers generated function bodies use; parameters
// must not shadow them.
var localNames = map[string]bool{
	"ctx":     true,
	"err":     true,
	"f":       true,
	"impl":    true,
	"inst":    true,
	"params":  true,
	"results": true,
	"ret":     true,
	"codec":   true,
	"context": true,
	"linker":  true,
	"value":   true,
}

// paramName renders a WIT parameter name as a Go parameter.
func paramName(name string) string {
	n := camel(name)
	if token.IsKeyword(n) || localNames[n] {
		return n + "_"
	}
	return n
}

// namer hands out unique top-level identifiers for one generated file.
type namer struct {
	used map[string]bool
}

func newNamer() *namer {
	n := &namer{used: map[string]bool{}}
	for _, pkg := range []string{"codec", "context", "linker", "strconv", "strings", "value"} {
		n.used[pkg] = true
	}
	return n
}

// claim reserves base, or the first free candidate among prefix+base and
// base followed by a number.
func (n *namer) claim(base string, prefixes ...string) string {
	if !n.used[base] {
		n.used[base] = true
		return base
	}
	for _, p := range prefixes {
		if p == "" {
			continue
		}
		if c := p + base; !n.used[c] {
			n.used[c] = true
			return c
		}
	}
	for i := 2; ; i++ {
		if c := base + strconv.Itoa(i); !n.used[c] {
			n.used[c] = true
			return c
		}
	}
}
