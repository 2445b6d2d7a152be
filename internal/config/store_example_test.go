package config

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-mapper/examples/store"
	"table-mapper/model"
)

// The store example has no tags; the file alone makes its types tables.
func TestApply_StoreExample(t *testing.T) {
	g := model.NewGraph()
	g.FromReflect(reflect.TypeFor[store.OrderItem]())

	f, err := LoadFile("../../examples/store/tables.yaml")
	require.NoError(t, err)

	diags := Validate(f, g)
	assert.Empty(t, diags.All())

	b, err := NewBuilder(f, g)
	require.NoError(t, err)

	tables, err := b.Tables()
	require.NoError(t, err)
	require.Len(t, tables, 4)

	orders, err := b.TableInfo(ResolveTypeID("store.Order", g))
	require.NoError(t, err)
	require.NotNil(t, orders)
	assert.Equal(t, "shop.orders", orders.QualifiedName())
	assert.Equal(t, []string{"ID", "Customer.ID", "Status", "TotalCents", "OrderedAt"}, orders.Columns)
	assert.Equal(t, []string{"id", "buyer_id", "status", "total_cents", "ordered_at"}, orders.Names)
	assert.Equal(t, "sales", orders.Metadata["owner"])

	items, err := b.TableInfo(ResolveTypeID("store.OrderItem", g))
	require.NoError(t, err)
	require.NotNil(t, items)
	assert.Equal(t, []string{"id", "order_id", "product_id", "quantity", "unit_price_cents"}, items.Names)
	assert.Equal(t, []string{"Order.ID", "Product.ID"}, items.ForeignKeys)

	customers, err := b.TableInfo(ResolveTypeID("store.Customer", g))
	require.NoError(t, err)
	assert.Equal(t, true, customers.MemberMetadata["Email"]["pii"])

	products, err := b.TableInfo(ResolveTypeID("store.Product", g))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "sku", "name", "price_cents", "created_at"}, products.Names)
}
