package mapper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"table-mapper/mapper"
)

type Address struct {
	Street string
	City   string
}

// Home embeds a value object that is registered as nested in tests.
type Home struct {
	Address
	ID int
}

type Person struct {
	ID      int
	Name    string
	Address Address
}

type Department struct {
	Guid  string
	Title string
}

type Employee struct {
	Person
	Salary     int
	Department Department
}

type Team struct {
	ID      int
	Members []Employee
	Leads   []*Employee
	Tags    []string
}

type Entity struct {
	_    struct{} `table:",abstract"`
	ID   int
	Name string
}

type Customer struct {
	Entity
	Email string
}

type Animal struct {
	ID   int
	Name string
}

type Dog struct {
	Animal
	Breed string
}

type Pair struct {
	A     string
	B     string
	Label string
}

type Link struct {
	ID     int
	Target Pair
}

type cycEmployee struct {
	Name    string
	Address *cycAddress
}

type cycAddress struct {
	Street   string
	Employee *cycEmployee
}

type cycPerson struct {
	ID       int
	Employee cycEmployee
}

type Geo struct {
	_   struct{} `table:",nested"`
	Lat float64
	Lng float64
}

type Region struct {
	Code    string `table:"region_code,pk,order=2"`
	Country string `table:"country,pk,order=1"`
	Label   string
}

type Store struct {
	_       struct{} `table:"stores,schema=retail"`
	ID      int      `table:"store_id"`
	Region  Region   `fk:"Code,name=region_code;Country,name=region_country"`
	Manager int      `fk:",name=manager_ref"`
	Geo     Geo      `table:"geo_,partial"`
}

// newHRBuilder registers Department (key Guid), Employee and the nested
// Address; Person is added as Employee's ancestor.
func newHRBuilder(t *testing.T, opts ...mapper.Option) *mapper.Builder {
	t.Helper()

	b := mapper.NewBuilder(opts...)

	_, err := mapper.Register(b, func(c *mapper.Config[Department]) {
		c.PrimaryKeyOf(func(d *Department) any { return &d.Guid })
	})
	require.NoError(t, err)

	_, err = mapper.Register[Employee](b)
	require.NoError(t, err)
	require.NoError(t, mapper.RegisterNested[Address](b))

	return b
}

func mustTable[T any](t *testing.T, b *mapper.Builder) *mapper.Table {
	t.Helper()

	table, err := mapper.TableFor[T](b)
	require.NoError(t, err)
	require.NotNil(t, table)

	return table
}
