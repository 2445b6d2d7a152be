package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-mapper/internal/expr"
)

type address struct {
	Street string
	City   string
}

type base struct {
	ID int
}

type person struct {
	base
	Name    string
	Address address
	Home    *address
	Manager *person
	Tags    []string
}

func TestPathOf(t *testing.T) {
	tests := []struct {
		name     string
		fn       func(*person) any
		expected string
	}{
		{"simple", func(p *person) any { return &p.Name }, "Name"},
		{"promoted", func(p *person) any { return &p.ID }, "ID"},
		{"nested value", func(p *person) any { return &p.Address }, "Address"},
		{"nested leaf", func(p *person) any { return &p.Address.Street }, "Address.Street"},
		{"first field of nested", func(p *person) any { return &p.Address.Street }, "Address.Street"},
		{"through pointer", func(p *person) any { return &p.Home.City }, "Home.City"},
		{"pointer field", func(p *person) any { return &p.Manager }, "Manager"},
		{"recursive", func(p *person) any { return &p.Manager.Name }, "Manager.Name"},
		{"slice field", func(p *person) any { return &p.Tags }, "Tags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := expr.PathOf(tt.fn)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, path)
		})
	}
}

func TestPathOf_Invalid(t *testing.T) {
	tests := []struct {
		name string
		fn   func(*person) any
	}{
		{"nil accessor", nil},
		{"value instead of address", func(p *person) any { return p.Name }},
		{"nil result", func(*person) any { return nil }},
		{"foreign pointer", func(*person) any { return new(string) }},
		{"root itself", func(p *person) any { return p }},
		{"panics", func(p *person) any { return &p.Manager.Manager.Manager.Name }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := expr.PathOf(tt.fn)
			require.Error(t, err)
			assert.ErrorIs(t, err, expr.ErrInvalidExpression)
		})
	}
}

func TestPathOf_NotStruct(t *testing.T) {
	_, err := expr.PathOf(func(s *string) any { return s })
	assert.ErrorIs(t, err, expr.ErrInvalidExpression)
}

func TestMustPathOf(t *testing.T) {
	assert.Equal(t, "Address.City", expr.MustPathOf(func(p *person) any { return &p.Address.City }))
	assert.Panics(t, func() {
		expr.MustPathOf(func(p *person) any { return p.Name })
	})
}
