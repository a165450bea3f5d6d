package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xdieuxd/BOOKNEST-ETL/internal/records"
)

func TestNormalizePersonName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  nguyễn   văn a  ", "Nguyễn Văn A"},
		{"TRẦN THỊ BÍCH", "Trần Thị Bích"},
		{"lê lợi", "Lê Lợi"},
		{"", ""},
		{"   ", "   "},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizePersonName(tc.in), "input %q", tc.in)
	}
}

func TestCustomerNormalization(t *testing.T) {
	n := New()

	got := n.Customer(records.Customer{
		CustomerKey: "CUS-1",
		FullName:    "  nguyễn   văn a ",
		Email:       " An@Example.COM ",
		Phone:       "+84 (91) 234-5678",
		Status:      "active",
	})

	assert.Equal(t, "Nguyễn Văn A", got.FullName)
	assert.Equal(t, "an@example.com", got.Email)
	assert.Equal(t, "84912345678", got.Phone)
	assert.Equal(t, "HOAT_DONG", got.Status)
}

func TestBookStatusMapping(t *testing.T) {
	n := New()

	cases := []struct {
		in   string
		want string
	}{
		{"ACTIVE", "HIEU_LUC"},
		{"published", "HIEU_LUC"},
		{"Hidden", "AN"},
		{"HIEU_LUC", "HIEU_LUC"},
		// Unknown vocabulary passes through uppercased for the validator.
		{"weird", "WEIRD"},
		{"", ""},
	}
	for _, tc := range cases {
		got := n.Book(records.Book{Status: tc.in})
		assert.Equal(t, tc.want, got.Status, "input %q", tc.in)
	}
}

func TestOrderNormalization(t *testing.T) {
	n := New()

	got := n.Order(records.Order{
		OrderKey:      "OD-1",
		Status:        "delivered",
		CustomerName:  "  trần  văn b ",
		CustomerEmail: " B@Example.com",
	})

	assert.Equal(t, "DA_GIAO", got.Status)
	assert.Equal(t, "Trần Văn B", got.CustomerName)
	assert.Equal(t, "b@example.com", got.CustomerEmail)
}

func TestInvoiceStatusMapping(t *testing.T) {
	n := New()

	assert.Equal(t, "DA_THANH_TOAN", n.Invoice(records.Invoice{Status: "PAID"}).Status)
	assert.Equal(t, "DA_HOAN_TIEN", n.Invoice(records.Invoice{Status: "refunded"}).Status)
}

func TestOrderItemAndCartPassThrough(t *testing.T) {
	n := New()

	item := records.OrderItem{OrderKey: "OD-1", LineNo: 1, BookKey: "BK-1", Quantity: 2}
	assert.Equal(t, item, n.OrderItem(item))

	cart := records.Cart{CartKey: "CART-1", CustomerKey: "CUS-1"}
	assert.Equal(t, cart, n.Cart(cart))
}
