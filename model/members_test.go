package model_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"table-mapper/model"
)

type location struct {
	Street string
	City   string
}

type site struct {
	location
	ID int
}

func memberNames(members []model.Member) []string {
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.Name)
	}

	return names
}

func TestBaseFunc(t *testing.T) {
	g := model.NewGraph()
	info := g.FromReflect(reflect.TypeFor[site]())
	loc := g.FromReflect(reflect.TypeFor[location]())

	assert.Same(t, loc, info.BaseType())
	assert.Equal(t, []string{"ID"}, memberNames(info.OwnMembers()))

	nested := func(t *model.TypeInfo) bool { return t.ID == loc.ID }

	assert.Nil(t, info.BaseFunc(nested))
	assert.Nil(t, info.BaseTypeFunc(nested))
	assert.Equal(t, []string{"Street", "City", "ID"}, memberNames(info.OwnMembersFunc(nested)))

	// the cached view is unaffected
	assert.Equal(t, []string{"ID"}, memberNames(info.OwnMembers()))
	assert.Equal(t, memberNames(info.OwnMembers()), memberNames(info.OwnMembersFunc(nil)))
}
