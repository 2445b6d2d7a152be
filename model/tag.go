package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Struct tag keys and options understood by the mapper.
const (
	// TagKey holds table and column names plus their options.
	TagKey = "table"
	// ForeignKeyTagKey holds foreign-key markers separated by ';'.
	ForeignKeyTagKey = "fk"

	OptSchema   = "schema"
	OptTable    = "table"
	OptInherit  = "inherit"
	OptColumns  = "columns"
	OptAbstract = "abstract"
	OptNested   = "nested"
	OptPK       = "pk"
	OptOrder    = "order"
	OptPartial  = "partial"
	OptName     = "name"
)

// Tag is a parsed tag value of the form "name,opt,key=value".
type Tag struct {
	Name    string
	Options map[string]string
	keys    []string
}

// ParseTag parses a single tag value. The first element is the name; the
// remaining comma-separated elements are options, with or without a value.
func ParseTag(s string) Tag {
	parts := strings.Split(s, ",")
	tag := Tag{
		Name:    strings.TrimSpace(parts[0]),
		Options: make(map[string]string, len(parts)-1),
	}

	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		key, value, _ := strings.Cut(p, "=")
		key = strings.TrimSpace(key)

		if _, dup := tag.Options[key]; !dup {
			tag.keys = append(tag.keys, key)
		}

		tag.Options[key] = strings.TrimSpace(value)
	}

	return tag
}

// Keys returns option keys in declaration order.
func (t Tag) Keys() []string {
	return t.keys
}

// Has reports whether the option is present.
func (t Tag) Has(key string) bool {
	_, ok := t.Options[key]
	return ok
}

// Value returns the option value and whether the option is present.
func (t Tag) Value(key string) (string, bool) {
	v, ok := t.Options[key]
	return v, ok
}

// Bool returns the boolean value of an option. A bare option means true.
// A nil result means the option is absent.
func (t Tag) Bool(key string) (*bool, error) {
	v, ok := t.Options[key]
	if !ok {
		return nil, nil
	}

	if v == "" {
		b := true
		return &b, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("option %q: %w", key, err)
	}

	return &b, nil
}

// Int returns the integer value of an option, or 0 when absent.
func (t Tag) Int(key string) (int, error) {
	v, ok := t.Options[key]
	if !ok || v == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("option %q: %w", key, err)
	}

	return n, nil
}

// ParseTagList parses ';'-separated tag entries, as used by foreign-key
// markers. An empty string yields no entries; a blank entry yields an empty
// Tag.
func ParseTagList(s string) []Tag {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	entries := strings.Split(s, ";")
	tags := make([]Tag, 0, len(entries))

	for _, e := range entries {
		tags = append(tags, ParseTag(e))
	}

	return tags
}
