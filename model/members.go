package model

// Member is an exported field reachable by name on a struct type, either
// declared directly or promoted from an embedded struct.
type Member struct {
	Name  string     // Selector name
	Field *FieldInfo // Declaring field
	Depth int        // Embedding depth, 0 for fields declared on the type itself
	Base  bool       // Promoted through the type's base (first embedded struct)
}

// Base returns the embedded field that acts as the type's ancestor: the first
// embedded field whose type (ignoring pointers) is a named struct with
// fields of its own. Returns nil for root types.
func (t *TypeInfo) Base() *FieldInfo {
	return t.BaseFunc(nil)
}

// BaseFunc is Base where embedded types for which nested reports true are
// value objects rather than ancestors, like types carrying the nested
// marker. A nil nested is Base.
func (t *TypeInfo) BaseFunc(nested func(*TypeInfo) bool) *FieldInfo {
	if t == nil || t.Kind != KindStruct {
		return nil
	}

	for i := range t.Fields {
		f := &t.Fields[i]
		if !f.Embedded {
			continue
		}

		bt := f.Type.Deref()
		if bt == nil || bt == t || bt.Kind != KindStruct || !bt.IsNamed() || bt.NestedMarker() {
			continue
		}

		if nested != nil && nested(bt) {
			continue
		}

		// opaque structs like time.Time
		if len(bt.Fields) == 0 {
			continue
		}

		return f
	}

	return nil
}

// BaseType returns the type of Base() with pointers removed, or nil.
func (t *TypeInfo) BaseType() *TypeInfo {
	return t.BaseTypeFunc(nil)
}

// BaseTypeFunc returns the type of BaseFunc(nested) with pointers removed,
// or nil.
func (t *TypeInfo) BaseTypeFunc(nested func(*TypeInfo) bool) *TypeInfo {
	if f := t.BaseFunc(nested); f != nil {
		return f.Type.Deref()
	}

	return nil
}

// Members returns every member of the struct type, promoted ones included,
// in declaration order. Promoted members follow Go's selector rules: the
// shallowest declaration wins and names declared twice at the same depth
// are dropped.
func (t *TypeInfo) Members() []Member {
	if t == nil {
		return nil
	}

	if t.all == nil {
		t.all = collectMembers(t, 0, false, map[*TypeInfo]bool{}, nil)
		t.all = resolveAmbiguous(t.all)
	}

	return t.all
}

// OwnMembers returns the members declared by the type itself, including the
// promoted members of embedded structs other than the base.
func (t *TypeInfo) OwnMembers() []Member {
	if t == nil {
		return nil
	}

	if t.members == nil {
		t.members = ownOf(t.Members())
	}

	return t.members
}

// OwnMembersFunc is OwnMembers with the ancestor chosen by BaseFunc(nested):
// the members of embedded value objects count as the type's own. The result
// is not cached.
func (t *TypeInfo) OwnMembersFunc(nested func(*TypeInfo) bool) []Member {
	if t == nil {
		return nil
	}

	if nested == nil {
		return t.OwnMembers()
	}

	return ownOf(resolveAmbiguous(collectMembers(t, 0, false, map[*TypeInfo]bool{}, nested)))
}

func ownOf(all []Member) []Member {
	own := make([]Member, 0, len(all))

	for _, m := range all {
		if !m.Base {
			own = append(own, m)
		}
	}

	return own
}

// Member looks up a single member by name.
func (t *TypeInfo) Member(name string) (Member, bool) {
	d := t.Deref()
	if d == nil {
		return Member{}, false
	}

	for _, m := range d.Members() {
		if m.Name == name {
			return m, true
		}
	}

	return Member{}, false
}

// MemberNames lists the member names of the type.
func (t *TypeInfo) MemberNames() []string {
	d := t.Deref()
	if d == nil {
		return nil
	}

	members := d.Members()
	names := make([]string, 0, len(members))

	for _, m := range members {
		names = append(names, m.Name)
	}

	return names
}

func collectMembers(t *TypeInfo, depth int, viaBase bool, active map[*TypeInfo]bool, nested func(*TypeInfo) bool) []Member {
	if t == nil || t.Kind != KindStruct || active[t] {
		return nil
	}

	active[t] = true
	defer delete(active, t)

	base := t.BaseFunc(nested)

	var out []Member

	for i := range t.Fields {
		f := &t.Fields[i]

		ft := f.Type.Deref()
		if f.Embedded && ft != nil && ft.Kind == KindStruct {
			out = append(out, collectMembers(ft, depth+1, viaBase || f == base, active, nested)...)
			continue
		}

		if !f.Exported {
			continue
		}

		out = append(out, Member{Name: f.Name, Field: f, Depth: depth, Base: viaBase})
	}

	return out
}

func resolveAmbiguous(members []Member) []Member {
	shallowest := make(map[string]int, len(members))
	count := make(map[string]int, len(members))

	for _, m := range members {
		d, ok := shallowest[m.Name]
		switch {
		case !ok || m.Depth < d:
			shallowest[m.Name] = m.Depth
			count[m.Name] = 1
		case m.Depth == d:
			count[m.Name]++
		}
	}

	out := make([]Member, 0, len(members))

	for _, m := range members {
		if m.Depth != shallowest[m.Name] || count[m.Name] > 1 {
			continue
		}

		out = append(out, m)
	}

	return out
}
