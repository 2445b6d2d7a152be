package analyze

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-mapper/model"
)

const hrPkg = "table-mapper/examples/hr"

func loadHR(t *testing.T) *model.Graph {
	t.Helper()

	graph, err := NewAnalyzer().LoadPackages(context.Background(), hrPkg)
	require.NoError(t, err)
	require.NotNil(t, graph)

	return graph
}

func hrType(t *testing.T, g *model.Graph, name string) *model.TypeInfo {
	t.Helper()

	info := g.GetType(model.TypeID{PkgPath: hrPkg, Name: name})
	require.NotNil(t, info, "type %s", name)

	return info
}

func field(t *testing.T, info *model.TypeInfo, name string) *model.FieldInfo {
	t.Helper()

	for i := range info.Fields {
		if info.Fields[i].Name == name {
			return &info.Fields[i]
		}
	}

	require.Failf(t, "field not found", "%s.%s", info.ID.Name, name)

	return nil
}

func TestAnalyzer_LoadPackages(t *testing.T) {
	graph := loadHR(t)

	require.Contains(t, graph.Packages, hrPkg)
	assert.Equal(t, "hr", graph.Packages[hrPkg].Name)
	assert.NotContains(t, graph.Packages, "time")

	for _, name := range []string{"Model", "Address", "Department", "Person", "Employee", "Project"} {
		assert.Contains(t, graph.Types, model.TypeID{PkgPath: hrPkg, Name: name})
	}
}

func TestAnalyzer_Markers(t *testing.T) {
	graph := loadHR(t)

	assert.True(t, hrType(t, graph, "Model").Abstract())
	assert.True(t, hrType(t, graph, "Address").NestedMarker())

	employee := hrType(t, graph, "Employee")
	tag, ok := employee.TypeTag(model.TagKey)
	require.True(t, ok)
	assert.Equal(t, "employees", tag.Name)

	schema, _ := tag.Value(model.OptSchema)
	assert.Equal(t, "hr", schema)

	// the blank marker field is not a field
	for _, f := range employee.Fields {
		assert.NotEqual(t, "_", f.Name)
	}
}

func TestAnalyzer_Embedding(t *testing.T) {
	graph := loadHR(t)

	employee := hrType(t, graph, "Employee")
	assert.Same(t, hrType(t, graph, "Person"), employee.BaseType())
	assert.Same(t, hrType(t, graph, "Model"), employee.BaseType().BaseType())

	own := make([]string, 0)
	for _, m := range employee.OwnMembers() {
		own = append(own, m.Name)
	}

	assert.Equal(t, []string{"Salary", "Department", "Manager", "Projects"}, own)

	m, ok := employee.Member("CreatedAt")
	require.True(t, ok)
	assert.Equal(t, 2, m.Depth)
	assert.True(t, m.Base)
}

func TestAnalyzer_FieldKinds(t *testing.T) {
	graph := loadHR(t)

	employee := hrType(t, graph, "Employee")

	manager := field(t, employee, "Manager")
	assert.Equal(t, model.KindPointer, manager.Type.Kind)
	assert.Same(t, employee, manager.Type.Elem, "recursive types share one TypeInfo")
	assert.Equal(t, ",name=manager_id", manager.Tag.Get("fk"))

	projects := field(t, employee, "Projects")
	assert.Equal(t, model.KindSlice, projects.Type.Kind)
	assert.Same(t, hrType(t, graph, "Project"), projects.Type.Elem)

	tags := field(t, hrType(t, graph, "Project"), "Tags")
	assert.Equal(t, model.KindMap, tags.Type.Kind)
	assert.Equal(t, model.KindBasic, tags.Type.Key.Kind)
	assert.Equal(t, "string", tags.Type.Elem.ID.Name)

	created := field(t, hrType(t, graph, "Model"), "CreatedAt")
	assert.Equal(t, model.KindStruct, created.Type.Kind)
	assert.Equal(t, model.TypeID{PkgPath: "time", Name: "Time"}, created.Type.ID)
	assert.Empty(t, created.Type.Fields)
}

func TestAnalyzer_GetStruct(t *testing.T) {
	a := NewAnalyzer()
	_, err := a.LoadPackages(context.Background(), hrPkg)
	require.NoError(t, err)

	info, err := a.GetStruct(hrPkg, "Person")
	require.NoError(t, err)
	assert.Equal(t, "Person", info.ID.Name)

	_, err = a.GetStruct(hrPkg, "Nope")
	assert.Error(t, err)
}

func TestAnalyzer_Errors(t *testing.T) {
	_, err := NewAnalyzer().LoadPackages(context.Background())
	require.Error(t, err)

	_, err = NewAnalyzer().LoadPackages(context.Background(), "table-mapper/does/not/exist")
	assert.Error(t, err)
}

func TestTypeString(t *testing.T) {
	graph := loadHR(t)

	employee := hrType(t, graph, "Employee")
	assert.Equal(t, "hr.Employee", TypeString(employee))
	assert.Equal(t, "*hr.Employee", TypeString(field(t, employee, "Manager").Type))
	assert.Equal(t, "[]hr.Project", TypeString(field(t, employee, "Projects").Type))
	assert.Equal(t, "int64", TypeString(field(t, employee, "Salary").Type))

	project := hrType(t, graph, "Project")
	assert.Equal(t, "map[string]string", TypeString(field(t, project, "Tags").Type))
	assert.Equal(t, "time.Time", TypeString(field(t, hrType(t, graph, "Model"), "CreatedAt").Type))
	assert.Equal(t, "<nil>", TypeString(nil))
}

func TestMemberPaths(t *testing.T) {
	graph := loadHR(t)

	assert.Equal(t, []string{"City", "Street", "Zip"}, MemberPaths(hrType(t, graph, "Address"), 3))

	person := MemberPaths(hrType(t, graph, "Person"), 1)
	assert.Contains(t, person, "Home.Street")
	assert.Contains(t, person, "ID")
	assert.NotContains(t, person, "Model")

	// Manager points back to Employee; the walk stops there
	employee := MemberPaths(hrType(t, graph, "Employee"), 5)
	assert.Contains(t, employee, "Manager")
	assert.NotContains(t, employee, "Manager.Salary")
	assert.Contains(t, employee, "Department.Code")
}
