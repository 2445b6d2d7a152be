package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-mapper/mapper"
)

// Types loaded from source resolve like types obtained through reflection.
func TestAnalyzer_ResolveHR(t *testing.T) {
	graph := loadHR(t)

	b := mapper.NewBuilder(
		mapper.WithGraph(graph),
		mapper.WithConventions(mapper.SnakeCaseConventions()),
	)

	for _, name := range []string{"Department", "Person", "Employee", "Project"} {
		_, err := b.RegisterInfo(hrType(t, graph, name))
		require.NoError(t, err)
	}

	tables, err := b.Tables()
	require.NoError(t, err)

	byName := make(map[string]*mapper.Table, len(tables))
	for _, tbl := range tables {
		byName[tbl.QualifiedName()] = tbl
	}

	require.Len(t, byName, 4)
	assert.NotContains(t, byName, "model")

	people := byName["hr.people"]
	require.NotNil(t, people)
	assert.Equal(t, []string{"id", "first_name", "last_name", "home_street", "home_city", "home_zip", "created_at"}, people.Names)

	employees := byName["hr.employees"]
	require.NotNil(t, employees)
	assert.Equal(t, []string{"ID", "Salary", "Department.ID", "Manager.ID"}, employees.Columns)
	assert.Equal(t, []string{"Department.ID", "Manager.ID"}, employees.ForeignKeys)
	assert.Equal(t, []string{"id", "salary", "department_id", "manager_id"}, employees.Names)

	projects := byName["hr.projects"]
	require.NotNil(t, projects)
	assert.Equal(t, []string{"ID", "Name", "Budget", "Lead.ID", "Tags", "CreatedAt"}, projects.Columns)
	assert.Equal(t, "lead_id", projects.ColumnNames["Lead.ID"])

	departments := byName["hr.departments"]
	require.NotNil(t, departments)
	assert.Equal(t, []string{"ID"}, departments.PrimaryKeys)
	assert.Equal(t, []string{"id", "code", "name", "created_at"}, departments.Names)
}
