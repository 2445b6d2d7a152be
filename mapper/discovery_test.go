package mapper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-mapper/mapper"
	"table-mapper/model"
)

func propertyPaths(props []*model.Property) []string {
	paths := make([]string, 0, len(props))
	for _, p := range props {
		paths = append(paths, p.Path)
	}

	return paths
}

func TestDiscovery_Properties(t *testing.T) {
	b := newHRBuilder(t)

	person := mustTable[Person](t, b)
	assert.Equal(t, []string{"ID", "Name", "Address", "Address.Street", "Address.City"}, propertyPaths(person.Properties))

	kinds := make(map[string]model.PropertyKind)
	for _, p := range person.Properties {
		kinds[p.Path] = p.Kind
	}

	assert.Equal(t, model.PropertyColumn, kinds["ID"])
	assert.Equal(t, model.PropertyNested, kinds["Address"])
	assert.Equal(t, model.PropertyColumn, kinds["Address.City"])

	street := person.Properties[3]
	require.NotNil(t, street.Parent)
	assert.Equal(t, "Address", street.Parent.Path)
	assert.Equal(t, 1, street.Depth())
	assert.Equal(t, "Person", street.Owner.Name)

	// inherited members are not re-discovered on the descendant
	employee := mustTable[Employee](t, b)
	assert.Equal(t, []string{"Salary", "Department"}, propertyPaths(employee.Properties))
	assert.Equal(t, model.PropertyTable, employee.Properties[1].Kind)
}

func TestDiscovery_CollectionsOfTables(t *testing.T) {
	b := newHRBuilder(t)
	_, err := mapper.Register[Team](b)
	require.NoError(t, err)

	team := mustTable[Team](t, b)
	assert.Equal(t, []string{"ID", "Tags"}, propertyPaths(team.Properties))
	assert.Equal(t, []string{"ID", "Tags"}, team.Columns)
}

func TestDiscovery_CircularReference(t *testing.T) {
	b := mapper.NewBuilder()
	require.NoError(t, mapper.RegisterNested[cycEmployee](b))
	require.NoError(t, mapper.RegisterNested[cycAddress](b))

	c, err := mapper.Register[cycPerson](b)
	require.NoError(t, err)

	_, err = b.Tables()
	require.ErrorIs(t, err, mapper.ErrCircularReference)

	var merr *mapper.Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "Employee.Address.Employee", merr.Path)
	assert.Contains(t, merr.Message, "cycEmployee -> cycAddress -> cycEmployee")

	// ignoring the back reference breaks the cycle
	c.Ignore("Employee.Address.Employee")
	require.NoError(t, c.Err())

	table := mustTable[cycPerson](t, b)
	assert.Equal(t, []string{"ID", "Employee.Name", "Employee.Address.Street"}, table.Columns)
}

func TestDiscovery_ConflictingKind(t *testing.T) {
	b := newHRBuilder(t)
	require.NoError(t, mapper.RegisterNested[Department](b))

	_, err := b.Tables()
	require.ErrorIs(t, err, mapper.ErrConflictingKind)

	var merr *mapper.Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "Employee", merr.Type.Name)
	assert.Equal(t, "Department", merr.Path)
	assert.Contains(t, merr.Message, "Department")
}

func TestDiscovery_NestedMarker(t *testing.T) {
	type Site struct {
		ID  int
		Geo Geo
	}

	b := mapper.NewBuilder()
	_, err := mapper.Register[Site](b)
	require.NoError(t, err)

	site := mustTable[Site](t, b)
	assert.Equal(t, []string{"ID", "Geo.Lat", "Geo.Lng"}, site.Columns)
	assert.Equal(t, "GeoLat", site.ColumnNames["Geo.Lat"])
}
