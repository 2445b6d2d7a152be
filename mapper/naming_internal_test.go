package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"table-mapper/model"
)

func TestColumnName(t *testing.T) {
	owner := model.TypeID{PkgPath: "example.com/hr", Name: "Employee"}
	fragment := DefaultConventions().ColumnFragment

	tests := []struct {
		name  string
		path  string
		names map[string]ColumnName
		want  string
	}{
		{name: "plain", path: "Salary", want: "Salary"},
		{name: "nested default", path: "Home.Address.Street", want: "HomeAddressStreet"},
		{
			name:  "leaf name",
			path:  "Home.Address.Street",
			names: map[string]ColumnName{"Home.Address.Street": {Name: "street"}},
			want:  "street",
		},
		{
			name: "leaf name ignores names above",
			path: "Home.Address.Street",
			names: map[string]ColumnName{
				"Home.Address.Street": {Name: "street"},
				"Home":                {Name: "h_", Partial: true},
			},
			want: "street",
		},
		{
			name:  "full name in the middle",
			path:  "Home.Address.Street",
			names: map[string]ColumnName{"Home.Address": {Name: "addr"}},
			want:  "addr",
		},
		{
			name: "partial chain stops at full name",
			path: "Home.Address.Street",
			names: map[string]ColumnName{
				"Home.Address.Street": {Name: "_st", Partial: true},
				"Home.Address":        {Name: "addr"},
				"Home":                {Name: "ignored_"},
			},
			want: "addr_st",
		},
		{
			name: "partial chain to the root",
			path: "Home.Address.Street",
			names: map[string]ColumnName{
				"Home.Address": {Name: "a_", Partial: true},
				"Home":         {Name: "h_", Partial: true},
			},
			want: "h_a_Street",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, columnName(owner, tt.path, tt.names, fragment))
		})
	}
}

func TestColumnName_SnakeFragments(t *testing.T) {
	owner := model.TypeID{Name: "Employee"}
	fragment := SnakeCaseConventions().ColumnFragment

	assert.Equal(t, "home_address_street", columnName(owner, "Home.Address.Street", nil, fragment))
	assert.Equal(t, "home_address_st", columnName(owner, "Home.Address.Street",
		map[string]ColumnName{"Home.Address.Street": {Name: "_st", Partial: true}}, fragment))
}
