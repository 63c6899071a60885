// Package epath implements element paths: dotted property addresses
// into a document tree, with an optional expand marker on the final
// segment ("a.b.*").
package epath

import (
	"fmt"
	"strings"
)

const (
	// ExpandSuffix marks the final segment of an expanded path.
	ExpandSuffix = ".*"
	// ListSep separates element paths in one CLI argument.
	ListSep = ","
)

type Path struct {
	Segments []string
	Expand   bool
}

func (p Path) String() string {
	s := strings.Join(p.Segments, ".")
	if p.Expand {
		if s == "" {
			return "*"
		}
		return s + ExpandSuffix
	}
	return s
}

// Last returns the terminal property name of p.
func (p Path) Last() string {
	if len(p.Segments) == 0 {
		return ""
	}
	return p.Segments[len(p.Segments)-1]
}

func Parse(text string) (Path, error) {
	p := Path{}
	if text == "" {
		return p, fmt.Errorf("%w: empty path", ErrPathNotFound)
	}
	if text == "*" {
		p.Expand = true
		return p, nil
	}
	if rest, ok := strings.CutSuffix(text, ExpandSuffix); ok {
		p.Expand = true
		text = rest
	}
	for _, seg := range strings.Split(text, ".") {
		if seg == "" {
			return Path{}, fmt.Errorf("%w: empty segment in %q", ErrPathNotFound, text)
		}
		if strings.Contains(seg, "*") {
			return Path{}, fmt.Errorf("%w: %q may only appear as the final segment of %q", ErrPathNotFound, "*", text)
		}
		p.Segments = append(p.Segments, seg)
	}
	return p, nil
}

// ParseList parses a comma separated list of element paths.
func ParseList(text string) ([]Path, error) {
	var res []Path
	for _, one := range strings.Split(text, ListSep) {
		p, err := Parse(strings.TrimSpace(one))
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, nil
}

// Chop turns a fully qualified path into a path relative to the
// document rooted at contextName: the file "catalog.json" holds the
// value of the property "catalog", so "catalog.groups.*" resolves as
// "groups.*" against its content. The resolver core only ever sees the
// chopped path.
func Chop(p Path, contextName string) (Path, error) {
	if len(p.Segments) == 0 || p.Segments[0] != contextName {
		return Path{}, fmt.Errorf("%w: path %q does not start with %q", ErrPathNotFound, p, contextName)
	}
	return Path{Segments: p.Segments[1:], Expand: p.Expand}, nil
}
