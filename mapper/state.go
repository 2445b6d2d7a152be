package mapper

import (
	"go.uber.org/zap"

	"table-mapper/model"
)

// Entry is the working record of one type during resolution.
type Entry struct {
	Info   *model.TypeInfo
	Config *RawConfig // snapshot taken when resolution started
	Parent *Entry     // nearest registered ancestor
	Depth  int
	Auto   bool

	// Properties are the own members found by discovery, nested ones
	// flattened in place after their parent.
	Properties []*model.Property
	// Ignored is the effective ignore set: the ancestor's plus the type's
	// own, without paths covered by a shorter one.
	Ignored []string
	// Table is the output being built.
	Table *Table

	foreignKeys []ForeignKey
	names       map[string]ColumnName
}

// ID returns the type identifier.
func (e *Entry) ID() model.TypeID {
	return e.Info.ID
}

// IsIgnored reports whether path, or one of its prefixes, is ignored.
func (e *Entry) IsIgnored(path string) bool {
	return model.Covered(path, e.Ignored)
}

// Property returns the discovered property at path.
func (e *Entry) Property(path string) *model.Property {
	for _, p := range e.Properties {
		if p.Path == path {
			return p
		}
	}

	return nil
}

// State is shared by the processors of one resolution.
type State struct {
	entries     []*Entry
	byID        map[model.TypeID]*Entry
	nested      map[model.TypeID]bool
	conventions Conventions
	log         *zap.Logger
}

func newState(b *Builder, configs []*TypeConfig) *State {
	s := &State{
		entries:     make([]*Entry, 0, len(configs)),
		byID:        make(map[model.TypeID]*Entry, len(configs)),
		nested:      make(map[model.TypeID]bool, len(b.nested)),
		conventions: b.conventions,
		log:         b.log,
	}

	for id := range b.nested {
		s.nested[id] = true
	}

	for _, c := range configs {
		raw := c.raw.Clone()
		e := &Entry{
			Info:   c.info,
			Config: &raw,
			Depth:  c.Depth(),
			Auto:   c.auto,
			Table:  newTable(c.info.ID),
		}

		if base := b.baseType(c.info); base != nil {
			e.Parent = s.byID[base.ID]
		}

		s.entries = append(s.entries, e)
		s.byID[e.ID()] = e
	}

	return s
}

// Entries returns all types in ancestor-first order.
func (s *State) Entries() []*Entry {
	return s.entries
}

// Entry returns the entry of a registered type, or nil.
func (s *State) Entry(id model.TypeID) *Entry {
	return s.byID[id]
}

// IsRegistered reports whether id is registered as a table type.
func (s *State) IsRegistered(id model.TypeID) bool {
	_, ok := s.byID[id]
	return ok
}

// IsNested reports whether t is a nested value type, either registered as
// such or marked in its type-level tag.
func (s *State) IsNested(t *model.TypeInfo) bool {
	if t == nil {
		return false
	}

	return (t.IsNamed() && s.nested[t.ID]) || t.NestedMarker()
}

// OwnMembers returns the members declared by t itself. Members promoted from
// embedded nested types count as its own.
func (s *State) OwnMembers(t *model.TypeInfo) []model.Member {
	return t.OwnMembersFunc(func(bt *model.TypeInfo) bool {
		return s.nested[bt.ID]
	})
}

// Conventions returns the naming conventions in effect.
func (s *State) Conventions() Conventions {
	return s.conventions
}

// Logger returns the builder's logger.
func (s *State) Logger() *zap.Logger {
	return s.log
}

// Classify returns the property kind of a member of type t and the value
// type behind it. skip is true for collections of registered tables, which
// are relationships and never columns.
func (s *State) Classify(t *model.TypeInfo) (kind model.PropertyKind, value *model.TypeInfo, skip bool, err error) {
	value = t.Deref()
	if value == nil {
		return model.PropertyColumn, nil, false, nil
	}

	if value.Kind.IsCollection() {
		elem := value.Elem.Deref()
		if elem != nil && elem.IsNamed() && s.IsRegistered(elem.ID) {
			return model.PropertyColumn, value, true, nil
		}

		return model.PropertyColumn, value, false, nil
	}

	table := value.IsNamed() && s.IsRegistered(value.ID)
	nested := s.IsNested(value)

	switch {
	case table && nested:
		return 0, value, false, newError(ErrConflictingKind, value.ID, "",
			"%s is registered both as a table and as nested", value.ID)
	case table:
		return model.PropertyTable, value, false, nil
	case nested:
		return model.PropertyNested, value, false, nil
	default:
		return model.PropertyColumn, value, false, nil
	}
}
