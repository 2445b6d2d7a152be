package mapper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-mapper/mapper"
	"table-mapper/model"
)

func TestCore_HRScenario(t *testing.T) {
	b := newHRBuilder(t)

	person := mustTable[Person](t, b)
	assert.Equal(t, "Person", person.Name)
	assert.Equal(t, []string{"ID"}, person.PrimaryKeys)
	assert.Equal(t, []string{"ID", "Name", "Address.Street", "Address.City"}, person.Columns)
	assert.Equal(t, []string{"ID", "Name", "AddressStreet", "AddressCity"}, person.Names)
	assert.Empty(t, person.ForeignKeys)

	employee := mustTable[Employee](t, b)
	assert.Equal(t, "Employee", employee.Name)
	assert.True(t, employee.IsTable)
	assert.False(t, employee.InheritTable)
	assert.False(t, employee.InheritColumns, "Person is a concrete table")
	assert.Equal(t, []string{"ID"}, employee.PrimaryKeys)
	assert.Equal(t, []string{"ID", "Salary", "Department.Guid"}, employee.Columns)
	assert.Equal(t, []string{"Department.Guid"}, employee.ForeignKeys)
	assert.Equal(t, []string{"ID", "Salary", "DepartmentGuid"}, employee.Names)

	dept := mustTable[Department](t, b)
	assert.Equal(t, []string{"Guid"}, dept.PrimaryKeys)
	assert.Equal(t, []string{"Guid", "Title"}, dept.Columns)

	name, err := mapper.ColumnNameOf(b, func(e *Employee) any { return &e.Department.Guid })
	require.NoError(t, err)
	assert.Equal(t, "DepartmentGuid", name)
}

func TestCore_NestedColumnNames(t *testing.T) {
	tests := []struct {
		name      string
		configure func(c *mapper.TypeConfig)
		street    string
		city      string
		names     []string
	}{
		{
			name:   "defaults",
			street: "AddressStreet",
			city:   "AddressCity",
			names:  []string{"ID", "Name", "AddressStreet", "AddressCity"},
		},
		{
			name: "partial prefix",
			configure: func(c *mapper.TypeConfig) {
				c.ColumnName("Address", "Addr", mapper.Partial())
			},
			street: "AddrStreet",
			city:   "AddrCity",
			names:  []string{"ID", "Name", "AddrStreet", "AddrCity"},
		},
		{
			name: "full name collapses the nested columns",
			configure: func(c *mapper.TypeConfig) {
				c.ColumnName("Address", "Addr")
			},
			street: "Addr",
			city:   "Addr",
			names:  []string{"ID", "Name", "Addr"},
		},
		{
			name: "leaf name wins",
			configure: func(c *mapper.TypeConfig) {
				c.ColumnName("Address.Street", "St2")
			},
			street: "St2",
			city:   "AddressCity",
			names:  []string{"ID", "Name", "St2", "AddressCity"},
		},
		{
			name: "partial leaf under partial prefix",
			configure: func(c *mapper.TypeConfig) {
				c.ColumnName("Address", "Addr", mapper.Partial()).
					ColumnName("Address.Street", "St", mapper.Partial())
			},
			street: "AddrSt",
			city:   "AddrCity",
		},
		{
			name: "partial leaf under full prefix",
			configure: func(c *mapper.TypeConfig) {
				c.ColumnName("Address", "Addr").
					ColumnName("Address.Street", "St", mapper.Partial())
			},
			street: "AddrSt",
			city:   "Addr",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mapper.NewBuilder()
			require.NoError(t, mapper.RegisterNested[Address](b))

			c, err := mapper.Register[Person](b)
			require.NoError(t, err)

			if tt.configure != nil {
				tt.configure(c.TypeConfig)
			}

			require.NoError(t, c.Err())

			table := mustTable[Person](t, b)
			assert.Equal(t, tt.street, table.ColumnNames["Address.Street"])
			assert.Equal(t, tt.city, table.ColumnNames["Address.City"])

			if tt.names != nil {
				assert.Equal(t, tt.names, table.Names)
			}
		})
	}
}

func TestCore_RelationNames(t *testing.T) {
	b := newHRBuilder(t)
	b.Config(model.TypeID{PkgPath: "table-mapper/mapper_test", Name: "Employee"}).
		ColumnName("Department", "dept_id")

	employee := mustTable[Employee](t, b)
	assert.Equal(t, "dept_id", employee.ColumnNames["Department.Guid"])
}

func TestCore_ForeignKeyTargets(t *testing.T) {
	tests := []struct {
		name    string
		pair    func(c *mapper.TypeConfig)
		link    func(c *mapper.TypeConfig)
		err     error
		columns []string
		names   []string
	}{
		{
			name: "target without primary key",
			pair: func(c *mapper.TypeConfig) { c.IsTable(false) },
			err:  mapper.ErrForeignKeyNoPrimaryKey,
		},
		{
			name: "target with composite key",
			pair: func(c *mapper.TypeConfig) { c.PrimaryKey("A", "B") },
			err:  mapper.ErrForeignKeyMultiplePrimaryKeys,
		},
		{
			name: "explicit key members",
			pair: func(c *mapper.TypeConfig) { c.PrimaryKey("A", "B") },
			link: func(c *mapper.TypeConfig) {
				c.ForeignKey("Target.A").ForeignKey("Target.B")
			},
			columns: []string{"ID", "Target.A", "Target.B"},
			names:   []string{"ID", "TargetA", "TargetB"},
		},
		{
			name: "full relation name over several keys",
			pair: func(c *mapper.TypeConfig) { c.PrimaryKey("A", "B") },
			link: func(c *mapper.TypeConfig) {
				c.ForeignKey("Target.A").ForeignKey("Target.B").ColumnName("Target", "T")
			},
			err: mapper.ErrForeignKeyNameAmbiguous,
		},
		{
			name: "full relation name with one unnamed key",
			pair: func(c *mapper.TypeConfig) { c.PrimaryKey("A", "B") },
			link: func(c *mapper.TypeConfig) {
				c.ForeignKey("Target.A", mapper.Named("ta")).ForeignKey("Target.B").ColumnName("Target", "T")
			},
			err: mapper.ErrForeignKeyNameAmbiguous,
		},
		{
			name: "full relation name with every key named",
			pair: func(c *mapper.TypeConfig) { c.PrimaryKey("A", "B") },
			link: func(c *mapper.TypeConfig) {
				c.ForeignKey("Target.A", mapper.Named("ta")).
					ForeignKey("Target.B", mapper.Named("tb")).
					ColumnName("Target", "T")
			},
			columns: []string{"ID", "Target.A", "Target.B"},
			names:   []string{"ID", "ta", "tb"},
		},
		{
			name: "partial relation name",
			pair: func(c *mapper.TypeConfig) { c.PrimaryKey("A", "B") },
			link: func(c *mapper.TypeConfig) {
				c.ForeignKey("Target.A").ForeignKey("Target.B").ColumnName("Target", "T", mapper.Partial())
			},
			columns: []string{"ID", "Target.A", "Target.B"},
			names:   []string{"ID", "TA", "TB"},
		},
		{
			name: "partial key names",
			pair: func(c *mapper.TypeConfig) { c.PrimaryKey("A", "B") },
			link: func(c *mapper.TypeConfig) {
				c.ForeignKey("Target.A", mapper.Named("_a"), mapper.Partial()).
					ForeignKey("Target.B", mapper.Named("_b"), mapper.Partial()).
					ColumnName("Target", "t")
			},
			names: []string{"ID", "t_a", "t_b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mapper.NewBuilder()

			pair, err := mapper.Register[Pair](b)
			require.NoError(t, err)
			tt.pair(pair.TypeConfig)

			link, err := mapper.Register[Link](b)
			require.NoError(t, err)

			if tt.link != nil {
				tt.link(link.TypeConfig)
			}

			_, err = b.Tables()
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)

				var merr *mapper.Error
				require.ErrorAs(t, err, &merr)
				assert.Equal(t, "Link", merr.Type.Name)
				assert.Equal(t, "Target", merr.Path)

				return
			}

			require.NoError(t, err)

			table := mustTable[Link](t, b)
			if tt.columns != nil {
				assert.Equal(t, tt.columns, table.Columns)
				assert.Equal(t, []string{"Target.A", "Target.B"}, table.ForeignKeys)
			}

			assert.Equal(t, tt.names, table.Names)
		})
	}
}

func TestCore_PrimaryKeyErrors(t *testing.T) {
	t.Run("default key missing", func(t *testing.T) {
		b := mapper.NewBuilder()
		_, err := mapper.Register[Pair](b)
		require.NoError(t, err)

		_, err = b.Tables()
		assert.ErrorIs(t, err, mapper.ErrPrimaryKeyNotFound)
	})

	t.Run("no default key", func(t *testing.T) {
		conv := mapper.DefaultConventions()
		conv.PrimaryKey = func(*model.TypeInfo) string { return "" }

		b := mapper.NewBuilder(mapper.WithConventions(conv))
		_, err := mapper.Register[Pair](b)
		require.NoError(t, err)

		table := mustTable[Pair](t, b)
		assert.Empty(t, table.PrimaryKeys)
		assert.Equal(t, []string{"A", "B", "Label"}, table.Columns)
	})

	t.Run("missing default key is fine for non-tables", func(t *testing.T) {
		b := mapper.NewBuilder()
		_, err := mapper.Register(b, func(c *mapper.Config[Pair]) { c.IsTable(false) })
		require.NoError(t, err)

		tables, err := b.Tables()
		require.NoError(t, err)
		assert.Empty(t, tables)
	})

	t.Run("key is not a column", func(t *testing.T) {
		b := mapper.NewBuilder()
		require.NoError(t, mapper.RegisterNested[Address](b))

		_, err := mapper.Register(b, func(c *mapper.Config[Person]) {
			c.PrimaryKeyOf(func(p *Person) any { return &p.Address })
		})
		require.NoError(t, err)

		_, err = b.Tables()
		assert.ErrorIs(t, err, mapper.ErrPrimaryKeyNotColumn)
	})

	t.Run("composite key order", func(t *testing.T) {
		b := mapper.NewBuilder()
		_, err := mapper.Register(b, func(c *mapper.Config[Pair]) {
			c.PrimaryKeyOf(func(p *Pair) any { return &p.B }, func(p *Pair) any { return &p.A })
		})
		require.NoError(t, err)

		table := mustTable[Pair](t, b)
		assert.Equal(t, []string{"B", "A"}, table.PrimaryKeys)
		assert.Equal(t, []string{"B", "A", "Label"}, table.Columns)
		assert.True(t, table.IsPrimaryKey("A"))
		assert.False(t, table.IsPrimaryKey("Label"))
	})
}

func TestCore_AbstractAncestor(t *testing.T) {
	b := mapper.NewBuilder()
	_, err := mapper.Register[Customer](b)
	require.NoError(t, err)

	tables, err := b.Tables()
	require.NoError(t, err)
	require.Len(t, tables, 1)

	customer := tables[0]
	assert.Equal(t, "Customer", customer.Name)
	assert.True(t, customer.InheritColumns)
	assert.Equal(t, []string{"ID"}, customer.PrimaryKeys)
	assert.Equal(t, []string{"ID", "Email", "Name"}, customer.Columns)

	entity, err := b.Resolved(model.TypeID{PkgPath: "table-mapper/mapper_test", Name: "Entity"})
	require.NoError(t, err)
	require.NotNil(t, entity)
	assert.False(t, entity.IsTable)
	assert.Equal(t, []string{"ID", "Name"}, entity.Columns)

	none, err := mapper.TableFor[Entity](b)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestCore_Inheritance(t *testing.T) {
	tests := []struct {
		name      string
		configure func(c *mapper.Config[Dog])
		table     string
		inherit   [2]bool
		columns   []string
	}{
		{
			name:    "own table, keys only",
			table:   "Dog",
			columns: []string{"ID", "Breed"},
		},
		{
			name:      "inherit columns",
			configure: func(c *mapper.Config[Dog]) { c.InheritColumns(true) },
			table:     "Dog",
			inherit:   [2]bool{false, true},
			columns:   []string{"ID", "Breed", "Name"},
		},
		{
			name:      "inherit table",
			configure: func(c *mapper.Config[Dog]) { c.InheritTable(true) },
			table:     "Animal",
			inherit:   [2]bool{true, true},
			columns:   []string{"ID", "Breed", "Name"},
		},
		{
			name:      "inherit table forces columns",
			configure: func(c *mapper.Config[Dog]) { c.InheritTable(true).InheritColumns(false) },
			table:     "Animal",
			inherit:   [2]bool{true, true},
			columns:   []string{"ID", "Breed", "Name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mapper.NewBuilder()
			_, err := mapper.Register(b, func(c *mapper.Config[Animal]) {
				c.Schema("zoo")
			})
			require.NoError(t, err)

			var configure []func(*mapper.Config[Dog])
			if tt.configure != nil {
				configure = append(configure, tt.configure)
			}

			_, err = mapper.Register(b, configure...)
			require.NoError(t, err)

			dog := mustTable[Dog](t, b)
			assert.Equal(t, tt.table, dog.Name)
			assert.Equal(t, tt.inherit[0], dog.InheritTable)
			assert.Equal(t, tt.inherit[1], dog.InheritColumns)
			assert.Equal(t, tt.columns, dog.Columns)
			assert.Equal(t, []string{"ID"}, dog.PrimaryKeys)

			if tt.inherit[0] {
				assert.Equal(t, "zoo.Animal", dog.QualifiedName())
			} else {
				assert.Equal(t, "Dog", dog.QualifiedName())
			}
		})
	}
}

func TestCore_MissingBase(t *testing.T) {
	for _, configure := range []func(c *mapper.Config[Animal]){
		func(c *mapper.Config[Animal]) { c.InheritTable(true) },
		func(c *mapper.Config[Animal]) { c.InheritColumns(true) },
	} {
		b := mapper.NewBuilder()
		_, err := mapper.Register(b, configure)
		require.NoError(t, err)

		_, err = b.Tables()
		assert.ErrorIs(t, err, mapper.ErrMissingBase)
	}
}

func TestCore_IgnorePropagates(t *testing.T) {
	b := mapper.NewBuilder()
	_, err := mapper.Register(b, func(c *mapper.Config[Entity]) {
		c.IgnoreOf(func(e *Entity) any { return &e.Name })
	})
	require.NoError(t, err)

	_, err = mapper.Register[Customer](b)
	require.NoError(t, err)

	customer := mustTable[Customer](t, b)
	assert.Equal(t, []string{"ID", "Email"}, customer.Columns)
	assert.False(t, customer.IsColumn("Name"))
}

func TestCore_IgnoreKey(t *testing.T) {
	b := mapper.NewBuilder()
	_, err := mapper.Register(b, func(c *mapper.Config[Customer]) {
		c.IgnoreOf(func(c *Customer) any { return &c.ID })
	})
	require.NoError(t, err)

	_, err = b.Tables()
	assert.ErrorIs(t, err, mapper.ErrPrimaryKeyNotFound)
}

func TestCore_IgnoreNestedMember(t *testing.T) {
	b := mapper.NewBuilder()
	require.NoError(t, mapper.RegisterNested[Address](b))

	_, err := mapper.Register(b, func(c *mapper.Config[Person]) {
		c.IgnoreOf(func(p *Person) any { return &p.Address.City })
	})
	require.NoError(t, err)

	person := mustTable[Person](t, b)
	assert.Equal(t, []string{"ID", "Name", "Address.Street"}, person.Columns)
}

func TestCore_SnakeCaseConventions(t *testing.T) {
	b := newHRBuilder(t, mapper.WithConventions(mapper.SnakeCaseConventions()))

	employee := mustTable[Employee](t, b)
	assert.Equal(t, "employee", employee.Name)
	assert.Equal(t, []string{"id", "salary", "department_guid"}, employee.Names)

	person := mustTable[Person](t, b)
	assert.Equal(t, []string{"id", "name", "address_street", "address_city"}, person.Names)
}
