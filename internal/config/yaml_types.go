package config

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// File is a table configuration file.
type File struct {
	Version            string              `yaml:"version,omitempty"`
	Conventions        string              `yaml:"conventions,omitempty"`
	Annotations        *bool               `yaml:"annotations,omitempty"`
	Metadata           *bool               `yaml:"metadata,omitempty"`
	Nested             StringOrArray       `yaml:"nested,omitempty"`
	Tables             []Table             `yaml:"tables,omitempty"`
	MetadataProcessors []MetadataProcessor `yaml:"metadata_processors,omitempty"`
}

// Table configures one registered type. Pointer fields left nil keep the
// default (or the struct tag value).
type Table struct {
	Type           string                    `yaml:"type"`
	Table          string                    `yaml:"table,omitempty"`
	Schema         *string                   `yaml:"schema,omitempty"`
	IsTable        *bool                     `yaml:"is_table,omitempty"`
	InheritTable   *bool                     `yaml:"inherit_table,omitempty"`
	InheritColumns *bool                     `yaml:"inherit_columns,omitempty"`
	PrimaryKey     StringOrArray             `yaml:"primary_key,omitempty"`
	ForeignKeys    []ForeignKey              `yaml:"foreign_keys,omitempty"`
	Ignore         StringOrArray             `yaml:"ignore,omitempty"`
	Columns        map[string]Column         `yaml:"columns,omitempty"`
	Metadata       map[string]any            `yaml:"metadata,omitempty"`
	MemberMetadata map[string]map[string]any `yaml:"member_metadata,omitempty"`
}

// ForeignKey marks a member path as a foreign key. A plain string is
// shorthand for {path: ...}.
type ForeignKey struct {
	Path    string `yaml:"path"`
	Name    string `yaml:"name,omitempty"`
	Partial bool   `yaml:"partial,omitempty"`
}

// Column overrides a column name. A plain string is shorthand for
// {name: ...}.
type Column struct {
	Name    string `yaml:"name"`
	Partial bool   `yaml:"partial,omitempty"`
}

// MetadataProcessor configures one metadata processor.
type MetadataProcessor struct {
	Name              string        `yaml:"name,omitempty"`
	InheritAllTable   bool          `yaml:"inherit_all_table,omitempty"`
	InheritAllMembers bool          `yaml:"inherit_all_members,omitempty"`
	AlwaysInherit     StringOrArray `yaml:"always_inherit,omitempty"`
	Ignore            StringOrArray `yaml:"ignore,omitempty"`
}

// StringOrArray is a list that can be written as a single string in YAML.
type StringOrArray []string

// --- StringOrArray YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
// Accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		if err := node.Decode(&str); err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		if err := node.Decode(&arr); err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("line %d: expected string or array", node.Line)
	}
}

// MarshalYAML implements custom YAML marshaling for StringOrArray.
// Outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// Contains returns true if the array contains the given string.
func (s StringOrArray) Contains(str string) bool {
	return slices.Contains(s, str)
}

// --- ForeignKey YAML methods ---

// UnmarshalYAML accepts "Path" or {path, name, partial}.
func (f *ForeignKey) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*f = ForeignKey{}
		return node.Decode(&f.Path)

	case yaml.MappingNode:
		type plain ForeignKey

		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}

		*f = ForeignKey(p)

		return nil

	default:
		return fmt.Errorf("line %d: foreign key must be a path or a mapping", node.Line)
	}
}

// MarshalYAML writes the shorthand form when only the path is set.
func (f ForeignKey) MarshalYAML() (any, error) {
	if f.Name == "" && !f.Partial {
		return f.Path, nil
	}

	type plain ForeignKey

	return plain(f), nil
}

// --- Column YAML methods ---

// UnmarshalYAML accepts "name" or {name, partial}.
func (c *Column) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*c = Column{}
		return node.Decode(&c.Name)

	case yaml.MappingNode:
		type plain Column

		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}

		*c = Column(p)

		return nil

	default:
		return fmt.Errorf("line %d: column must be a name or a mapping", node.Line)
	}
}

// MarshalYAML writes the shorthand form for non-partial names.
func (c Column) MarshalYAML() (any, error) {
	if !c.Partial {
		return c.Name, nil
	}

	type plain Column

	return plain(c), nil
}
