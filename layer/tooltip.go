// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aclements/go-plotspec/aes"
	"github.com/aclements/go-plotspec/data"
	"github.com/aclements/go-plotspec/failure"
	"github.com/aclements/go-plotspec/spec"
)

// Tooltips is a layer's resolved "tooltips" option.
type Tooltips struct {
	// Hidden is set by tooltips: "none".
	Hidden bool

	// Lines are the tooltip lines, or nil for the default tooltip.
	Lines []Line

	// Title is the tooltip title line, if any.
	Title *Line

	Formats []Format

	Anchor           string
	MinWidth         *float64
	DisableSplitting bool
}

// A Line is one tooltip line: an optional label and a value
// pattern.
type Line struct {
	Label    string
	HasLabel bool
	Tokens   []Token
}

// A TokenKind is the kind of a tooltip pattern token.
type TokenKind int

const (
	// Text is literal text.
	Text TokenKind = iota

	// AesRef is the value of an aesthetic, written ^name.
	AesRef

	// VarRef is the value of a variable, written @name, @{a name}
	// or @..stat..
	VarRef
)

// A Token is one piece of a tooltip pattern. Text holds the literal
// text or the variable name. Aes is set for AesRef tokens.
type Token struct {
	Kind TokenKind
	Text string
	Aes  aes.Aes
}

// A Format overrides the value format of one field.
type Format struct {
	// Field is a variable name, or an aesthetic name if IsAes.
	Field  string
	IsAes  bool
	Format string
}

var anchors = []string{
	"top_left", "top_center", "top_right",
	"middle_left", "middle_center", "middle_right",
	"bottom_left", "bottom_center", "bottom_right",
}

// tooltipRefs validates tooltip references against a resolved
// layer.
type tooltipRefs struct {
	l *Layer
	f *data.Frame
}

func (r tooltipRefs) aes(name string) (aes.Aes, error) {
	a, ok := aes.Lookup(name)
	if !ok {
		return 0, failure.New(failure.UnknownFeatureName, "Unknown aes name: '%s'", name)
	}
	if _, ok := r.l.Constants[a]; ok {
		return a, nil
	}
	for _, b := range r.l.Bindings {
		if b.Aes == a {
			return a, nil
		}
	}
	return 0, failure.New(failure.UndefinedVariable, "Aesthetic '%s' is neither mapped nor constant in this layer", name)
}

func (r tooltipRefs) variable(name string) error {
	if r.f.Has(name) || name == r.l.Group {
		return nil
	}
	// Stat variables do not exist until the stat runs.
	if r.l.backend && data.IsStatName(name) {
		return nil
	}
	_, err := r.f.Find(name)
	return err
}

func parseTooltips(n spec.Node, refs tooltipRefs) (*Tooltips, error) {
	switch n.Kind() {
	case spec.KindNull:
		return nil, nil
	case spec.KindString:
		if s, _ := n.AsString(); s == "none" {
			return &Tooltips{Hidden: true}, nil
		}
	case spec.KindMap:
		return parseTooltipMap(spec.NewOptions(n, nil), refs)
	}
	return nil, failure.New(failure.TypeMismatch, "Incorrect tooltips specification: %s", n)
}

func parseTooltipMap(o *spec.Options, refs tooltipRefs) (*Tooltips, error) {
	t := &Tooltips{}
	var err error

	formats, err := o.GetList("formats")
	if err != nil {
		return nil, err
	}
	for _, fn := range formats {
		if fn.Kind() != spec.KindMap {
			return nil, failure.New(failure.TypeMismatch, "Wrong tooltip 'format' arguments: %s", fn)
		}
		fo := spec.NewOptions(fn, nil)
		field, err1 := fo.GetStringSafe("field")
		format, err2 := fo.GetStringSafe("format")
		if err1 != nil || err2 != nil {
			return nil, failure.New(failure.InvalidOption, "Invalid 'format' arguments: 'field' and 'format' are expected")
		}
		fs, err := formatFields(field, format, refs)
		if err != nil {
			return nil, err
		}
		t.Formats = append(t.Formats, fs...)
	}

	if o.Has("lines") {
		lines, err := o.GetList("lines")
		if err != nil {
			return nil, err
		}
		t.Lines = []Line{}
		for _, ln := range lines {
			s, ok := ln.AsString()
			if !ok {
				return nil, failure.New(failure.TypeMismatch, "Tooltip line must be a string but was: %s", ln)
			}
			line, err := parseLine(s, true, refs)
			if err != nil {
				return nil, err
			}
			t.Lines = append(t.Lines, line)
		}
	}

	if title, ok, err := o.GetString("title"); err != nil {
		return nil, err
	} else if ok {
		line, err := parseLine(title, false, refs)
		if err != nil {
			return nil, err
		}
		t.Title = &line
	}

	if t.Anchor, err = o.GetStringDef("anchor", ""); err != nil {
		return nil, err
	}
	if t.Anchor != "" && !contains(anchors, t.Anchor) {
		return nil, failure.New(failure.InvalidOption,
			"Illegal value %s, anchor, expected values are: '%s'", t.Anchor, strings.Join(anchors, "'/'"))
	}
	if w, ok, err := o.GetDouble("min_width"); err != nil {
		return nil, err
	} else if ok {
		t.MinWidth = &w
	}
	if t.DisableSplitting, err = o.GetBool("disable_splitting", false); err != nil {
		return nil, err
	}
	return t, nil
}

// formatFields expands a format field. "^X" and "^Y" apply to every
// bound aesthetic on that axis.
func formatFields(field, format string, refs tooltipRefs) ([]Format, error) {
	if !strings.HasPrefix(field, "^") {
		name := strings.TrimPrefix(field, "@")
		if strings.HasPrefix(name, "{") && strings.HasSuffix(name, "}") {
			name = name[1 : len(name)-1]
		}
		if err := refs.variable(name); err != nil {
			return nil, err
		}
		return []Format{{Field: name, Format: format}}, nil
	}
	name := field[1:]
	var axis func(aes.Aes) bool
	switch name {
	case "X":
		axis = aes.IsPositionalX
	case "Y":
		axis = aes.IsPositionalY
	default:
		a, err := refs.aes(name)
		if err != nil {
			return nil, err
		}
		return []Format{{Field: a.String(), IsAes: true, Format: format}}, nil
	}
	var fs []Format
	for _, a := range aes.All() {
		if axis(a) {
			fs = append(fs, Format{Field: a.String(), IsAes: true, Format: format})
		}
	}
	return fs, nil
}

// parseLine parses a tooltip line. If labeled, text before the first
// "|" is the line's label.
func parseLine(s string, labeled bool, refs tooltipRefs) (Line, error) {
	var line Line
	if i := strings.IndexByte(s, '|'); labeled && i >= 0 {
		line.Label, line.HasLabel = strings.TrimSpace(s[:i]), true
		s = s[i+1:]
	}
	toks, err := parsePattern(s)
	if err != nil {
		return line, err
	}
	for i, tok := range toks {
		switch tok.Kind {
		case AesRef:
			if toks[i].Aes, err = refs.aes(tok.Text); err != nil {
				return line, err
			}
		case VarRef:
			if err := refs.variable(tok.Text); err != nil {
				return line, err
			}
		}
	}
	line.Tokens = toks
	return line, nil
}

// parsePattern splits a tooltip pattern into tokens. "@@" and "^^"
// are a literal "@" and "^". A "^" or "@" not followed by a name is
// literal.
func parsePattern(s string) ([]Token, error) {
	var toks []Token
	var lit strings.Builder
	ref := func(k TokenKind, name string) {
		if lit.Len() > 0 {
			toks = append(toks, Token{Kind: Text, Text: lit.String()})
			lit.Reset()
		}
		toks = append(toks, Token{Kind: k, Text: name})
	}
	for i := 0; i < len(s); {
		c := s[i]
		if c != '@' && c != '^' {
			lit.WriteByte(c)
			i++
			continue
		}
		if i+1 < len(s) && s[i+1] == c {
			lit.WriteByte(c)
			i += 2
			continue
		}
		rest := s[i+1:]
		if c == '^' {
			n := wordLen(rest)
			if n == 0 {
				lit.WriteByte(c)
				i++
				continue
			}
			ref(AesRef, rest[:n])
			i += 1 + n
			continue
		}

		switch {
		case strings.HasPrefix(rest, "{"):
			end := strings.IndexByte(rest, '}')
			if end < 0 {
				return nil, failure.New(failure.InvalidOption, "Unterminated variable name in tooltip pattern: %q", s)
			}
			ref(VarRef, rest[1:end])
			i += 1 + end + 1
		case strings.HasPrefix(rest, ".."):
			n := wordLen(rest[2:])
			if n == 0 || !strings.HasPrefix(rest[2+n:], "..") {
				lit.WriteByte(c)
				i++
				continue
			}
			ref(VarRef, rest[:n+4])
			i += 1 + n + 4
		default:
			n := wordLen(rest)
			if n == 0 {
				lit.WriteByte(c)
				i++
				continue
			}
			ref(VarRef, rest[:n])
			i += 1 + n
		}
	}
	if lit.Len() > 0 {
		toks = append(toks, Token{Kind: Text, Text: lit.String()})
	}
	return toks, nil
}

// wordLen returns the byte length of the run of letters, digits and
// underscores at the start of s.
func wordLen(s string) int {
	n := 0
	for n < len(s) {
		r, size := utf8.DecodeRuneInString(s[n:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		n += size
	}
	return n
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
