package transform

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xdieuxd/BOOKNEST-ETL/internal/records"
)

func TestBookDefaults(t *testing.T) {
	tr := New()

	got := tr.Book(records.Book{BookKey: "BK-1"})

	assert.Equal(t, "Unknown", got.Title)
	assert.Equal(t, "N/A", got.Description)
	assert.Equal(t, []string{"Unknown"}, got.Authors)
	assert.Equal(t, []string{"Uncategorized"}, got.Categories)
}

func TestBookCasing(t *testing.T) {
	tr := New()

	got := tr.Book(records.Book{
		BookKey: "BK-2",
		Title:   "  dế mèn PHIÊU lưu ký ",
		Authors: []string{" tô hoài "},
		Status:  " hieu_luc ",
	})

	assert.Equal(t, "Dế mèn phiêu lưu ký", got.Title)
	assert.Equal(t, []string{"Tô Hoài"}, got.Authors)
	assert.Equal(t, "HIEU_LUC", got.Status)
}

func TestCustomerDefaults(t *testing.T) {
	tr := New()

	got := tr.Customer(records.Customer{CustomerKey: "CU-1"})

	assert.Equal(t, "Unknown", got.FullName)
	assert.Equal(t, "unknown@example.com", got.Email)
	assert.Equal(t, "N/A", got.Phone)
	assert.Equal(t, []string{"guest"}, got.Roles)
}

func TestOrderTotalRecomputed(t *testing.T) {
	tr := New()

	order := records.Order{
		OrderKey:    "OD-1",
		TotalAmount: decimal.RequireFromString("999.99"),
		ShippingFee: decimal.RequireFromString("5.00"),
		Discount:    decimal.RequireFromString("2.50"),
		Items: []records.OrderLine{
			{BookKey: "BK-1", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
			{BookKey: "", Quantity: 1, UnitPrice: decimal.RequireFromString("4.00")},
		},
	}

	got := tr.Order(order)

	require.Len(t, got.Items, 2)
	assert.True(t, got.TotalAmount.Equal(decimal.RequireFromString("26.50")),
		"got total %s", got.TotalAmount)
	assert.Equal(t, "UNKNOWN", got.Items[1].BookKey)
}

func TestOrderCustomerDefaults(t *testing.T) {
	tr := New()

	got := tr.Order(records.Order{OrderKey: "OD-2"})

	assert.Equal(t, "Unknown Customer", got.CustomerName)
	assert.Equal(t, "unknown@example.com", got.CustomerEmail)
}

func TestTransformIdempotent(t *testing.T) {
	tr := New()

	book := tr.Book(records.Book{BookKey: "BK-3", Title: "  sách HAY  "})
	assert.Equal(t, book, tr.Book(book))

	customer := tr.Customer(records.Customer{CustomerKey: "CU-2", FullName: "  nguyễn   văn a  "})
	assert.Equal(t, customer, tr.Customer(customer))

	order := tr.Order(records.Order{
		OrderKey: "OD-3",
		Items: []records.OrderLine{
			{BookKey: "BK-3", Quantity: 1, UnitPrice: decimal.RequireFromString("12.00")},
		},
	})
	assert.Equal(t, order, tr.Order(order))
}

func TestCartAndInvoiceReferences(t *testing.T) {
	tr := New()

	cart := tr.Cart(records.Cart{CartKey: "CA-1", Items: []records.OrderLine{{BookKey: "  BK-9 "}}})
	assert.Equal(t, "UNKNOWN", cart.CustomerKey)
	assert.Equal(t, "BK-9", cart.Items[0].BookKey)

	invoice := tr.Invoice(records.Invoice{InvoiceKey: "IV-1", Status: "da_thanh_toan"})
	assert.Equal(t, "UNKNOWN", invoice.OrderKey)
	assert.Equal(t, "DA_THANH_TOAN", invoice.Status)
}
