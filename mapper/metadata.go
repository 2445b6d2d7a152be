package mapper

import (
	"maps"
	"slices"

	"table-mapper/model"
)

// MetadataProcessor merges table and member metadata into the resolved
// tables, optionally inheriting entries from ancestors.
//
// Own entries always apply. An ancestor's table entry is inherited when
// InheritAllTable is set, the type inherits its ancestor's table, or the key
// is in AlwaysInherit; member entries follow the same rule with
// InheritAllMembers and inherited columns. Ignored keys are never copied.
// Several processors run in registration order and never overwrite a key
// an earlier one has set.
type MetadataProcessor struct {
	Label             string
	InheritAllTable   bool
	InheritAllMembers bool
	AlwaysInherit     []string
	Ignore            []string
	IgnoreFunc        func(key string) bool
}

// NewMetadataProcessor returns a processor with no inheritance beyond the
// table flags.
func NewMetadataProcessor() *MetadataProcessor {
	return &MetadataProcessor{Label: "metadata"}
}

// Name implements Processor.
func (p *MetadataProcessor) Name() string {
	if p.Label == "" {
		return "metadata"
	}

	return p.Label
}

func (p *MetadataProcessor) ignored(key string) bool {
	if slices.Contains(p.Ignore, key) {
		return true
	}

	return p.IgnoreFunc != nil && p.IgnoreFunc(key)
}

func (p *MetadataProcessor) always(key string) bool {
	return slices.Contains(p.AlwaysInherit, key)
}

type metadataView struct {
	table   map[string]any
	members map[string]map[string]any
}

// Process implements Processor.
func (p *MetadataProcessor) Process(s *State) error {
	views := make(map[model.TypeID]*metadataView, len(s.Entries()))

	for _, e := range s.Entries() {
		view := &metadataView{
			table:   make(map[string]any),
			members: make(map[string]map[string]any),
		}

		var parent *metadataView
		if e.Parent != nil {
			parent = views[e.Parent.ID()]
		}

		p.own(view.table, e.Config.Metadata)

		if parent != nil {
			p.inherit(view.table, parent.table, p.InheritAllTable || e.Table.InheritTable)
		}

		for path, entries := range e.Config.MemberMetadata {
			if e.IsIgnored(path) {
				continue
			}

			p.own(memberView(view, path), entries)
		}

		if parent != nil {
			for path, entries := range parent.members {
				if e.IsIgnored(path) {
					continue
				}

				p.inherit(memberView(view, path), entries, p.InheritAllMembers || e.Table.InheritColumns)
			}
		}

		views[e.ID()] = view
		p.merge(e.Table, view)
	}

	return nil
}

func (p *MetadataProcessor) own(dst, src map[string]any) {
	for k, v := range src {
		if p.ignored(k) {
			continue
		}

		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
}

func (p *MetadataProcessor) inherit(dst, src map[string]any, all bool) {
	for k, v := range src {
		if p.ignored(k) || (!all && !p.always(k)) {
			continue
		}

		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
}

func (p *MetadataProcessor) merge(t *Table, view *metadataView) {
	for k, v := range view.table {
		if _, ok := t.Metadata[k]; !ok {
			t.Metadata[k] = v
		}
	}

	for path, entries := range view.members {
		if len(entries) == 0 {
			continue
		}

		dst := t.MemberMetadata[path]
		if dst == nil {
			t.MemberMetadata[path] = maps.Clone(entries)
			continue
		}

		for k, v := range entries {
			if _, ok := dst[k]; !ok {
				dst[k] = v
			}
		}
	}
}

func memberView(view *metadataView, path string) map[string]any {
	m := view.members[path]
	if m == nil {
		m = make(map[string]any)
		view.members[path] = m
	}

	return m
}
