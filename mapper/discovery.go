package mapper

import (
	"errors"
	"slices"
	"strings"

	"table-mapper/model"
)

// DiscoveryProcessor enumerates the own members of every type, classifies
// them and flattens nested value objects.
type DiscoveryProcessor struct{}

// Name implements Processor.
func (p *DiscoveryProcessor) Name() string {
	return StageDiscovery.String()
}

// Process implements Processor.
func (p *DiscoveryProcessor) Process(s *State) error {
	for _, e := range s.Entries() {
		var inherited []string
		if e.Parent != nil {
			inherited = e.Parent.Ignored
		}

		e.Ignored = model.MergeCovering(inherited, e.Config.Ignored)

		w := &walker{state: s, entry: e}
		if err := w.walk(s.OwnMembers(e.Info), nil); err != nil {
			return err
		}

		e.Properties = w.out
		e.Table.Properties = w.out
	}

	return nil
}

type walker struct {
	state *State
	entry *Entry
	stack []model.TypeID // nested value types on the active path
	out   []*model.Property
}

func (w *walker) walk(members []model.Member, parent *model.Property) error {
	for _, m := range members {
		path := m.Name
		if parent != nil {
			path = model.Join(parent.Path, m.Name)
		}

		if w.entry.IsIgnored(path) {
			continue
		}

		kind, value, skip, err := w.state.Classify(m.Field.Type)
		if err != nil {
			var e *Error
			if errors.As(err, &e) {
				e.Type, e.Path = w.entry.ID(), path
			}

			return err
		}

		if skip {
			continue
		}

		prop := &model.Property{
			Name:   m.Name,
			Path:   path,
			Parent: parent,
			Kind:   kind,
			Field:  m.Field,
			Value:  value,
			Owner:  w.entry.ID(),
		}
		w.out = append(w.out, prop)

		if kind != model.PropertyNested {
			continue
		}

		if slices.Contains(w.stack, value.ID) {
			return newError(ErrCircularReference, w.entry.ID(), path,
				"nested type %s is already being expanded on this path (%s); ignore the member to break the cycle",
				value.ID, w.cycle(value.ID))
		}

		w.stack = append(w.stack, value.ID)
		if err := w.walk(value.Members(), prop); err != nil {
			return err
		}

		w.stack = w.stack[:len(w.stack)-1]
	}

	return nil
}

func (w *walker) cycle(id model.TypeID) string {
	i := slices.Index(w.stack, id)
	names := make([]string, 0, len(w.stack)-i+1)

	for _, t := range w.stack[i:] {
		names = append(names, t.Name)
	}

	return strings.Join(append(names, id.Name), " -> ")
}
