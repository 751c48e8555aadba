package mux

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// macros are the named patterns accepted as {name:macro}.
var macros = map[string]string{
	"uuid":     `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`,
	"int":      `[0-9]+`,
	"float":    `[0-9]*\.?[0-9]+`,
	"slug":     `[a-zA-Z0-9]+(?:-[a-zA-Z0-9]+)*`,
	"alpha":    `[a-zA-Z]+`,
	"alphanum": `[a-zA-Z0-9]+`,
	"date":     `[0-9]{4}-[0-9]{2}-[0-9]{2}`,
	"hex":      `[0-9a-fA-F]+`,
	// RFC 1123 labels of 1-63 characters.
	"domain": `(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)*[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?`,
}

const defaultVarPattern = `[^/]+`

// pathPattern is a compiled path template such as "/users/{id:uuid}".
type pathPattern struct {
	template string
	prefix   bool
	re       *regexp.Regexp

	vars   []string
	groups []int
}

func compilePattern(tpl string, prefix bool) (*pathPattern, error) {
	if !strings.HasPrefix(tpl, "/") {
		return nil, fmt.Errorf("mux: path must start with a slash, got %q", tpl)
	}

	var (
		expr strings.Builder
		vars []string
	)
	expr.WriteByte('^')

	rest := tpl
	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			break
		}
		end, err := closingBrace(rest, start)
		if err != nil {
			return nil, fmt.Errorf("mux: %w in %q", err, tpl)
		}

		name, pattern, _ := strings.Cut(rest[start+1:end], ":")
		if name == "" {
			return nil, fmt.Errorf("mux: missing variable name in %q", tpl)
		}
		if slices.Contains(vars, name) {
			return nil, fmt.Errorf("mux: duplicated route variable %q in %q", name, tpl)
		}
		if m, ok := macros[pattern]; ok {
			pattern = m
		} else if pattern == "" {
			pattern = defaultVarPattern
		}

		expr.WriteString(regexp.QuoteMeta(rest[:start]))
		fmt.Fprintf(&expr, "(?P<v%d>%s)", len(vars), pattern)
		vars = append(vars, name)
		rest = rest[end+1:]
	}
	expr.WriteString(regexp.QuoteMeta(rest))
	if !prefix {
		expr.WriteByte('$')
	}

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, fmt.Errorf("mux: invalid pattern in %q: %w", tpl, err)
	}

	groups := make([]int, len(vars))
	for i := range vars {
		groups[i] = re.SubexpIndex("v" + strconv.Itoa(i))
	}

	return &pathPattern{
		template: tpl,
		prefix:   prefix,
		re:       re,
		vars:     vars,
		groups:   groups,
	}, nil
}

// closingBrace returns the index of the brace closing the one at start.
// Variable patterns may contain braces themselves, e.g. {code:[a-z]{2}}.
func closingBrace(s string, start int) (int, error) {
	level := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			level++
		case '}':
			level--
			if level == 0 {
				return i, nil
			}
		}
	}
	return 0, errors.New("unbalanced braces")
}

// match reports whether path matches and returns the variable values.
func (p *pathPattern) match(path string) (map[string]string, bool) {
	m := p.re.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}

	vars := make(map[string]string, len(p.vars))
	for i, name := range p.vars {
		vars[name] = m[p.groups[i]]
	}
	return vars, true
}

// cleanPath removes dot segments and duplicate slashes, keeping a trailing
// slash when the input had one.
func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}

	np := path.Clean(p)
	if p[len(p)-1] == '/' && np != "/" {
		np += "/"
	}
	return np
}
