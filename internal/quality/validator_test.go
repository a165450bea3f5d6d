package quality

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xdieuxd/BOOKNEST-ETL/internal/records"
)

func validBook() records.Book {
	return records.Book{
		BookKey:    "BK-1",
		Title:      "Dế mèn phiêu lưu ký",
		Price:      decimal.RequireFromString("45.00"),
		Status:     "HIEU_LUC",
		Authors:    []string{"Tô Hoài"},
		Categories: []string{"Thiếu nhi"},
	}
}

func validOrder() records.Order {
	return records.Order{
		OrderKey:      "OD-1",
		CustomerName:  "Nguyễn Văn A",
		CustomerEmail: "an@example.com",
		Status:        "DA_GIAO",
		PaymentMethod: "COD",
		TotalAmount:   decimal.RequireFromString("25.00"),
		ShippingFee:   decimal.RequireFromString("5.00"),
		Discount:      decimal.Zero,
		Items: []records.OrderLine{
			{BookKey: "BK-1", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		},
	}
}

func fieldsOf(errs []records.ValidationError) []string {
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	return fields
}

func rulesOf(errs []records.ValidationError) []string {
	rules := make([]string, 0, len(errs))
	for _, e := range errs {
		rules = append(rules, e.Rule)
	}
	return rules
}

func TestValidBookHasNoFindings(t *testing.T) {
	v := NewValidator()
	assert.Empty(t, v.ValidateBook(validBook()))
}

func TestBookChainCollectsEveryFinding(t *testing.T) {
	v := NewValidator()

	b := validBook()
	b.Title = "   "
	b.Authors = nil
	b.Price = decimal.RequireFromString("-1")
	b.Status = "SOMETHING_ELSE"

	errs := v.ValidateBook(b)

	// Every broken rule reports, none stops the chain.
	fields := fieldsOf(errs)
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "authors")
	assert.Contains(t, fields, "price")
	assert.Contains(t, fields, "status")
	assert.GreaterOrEqual(t, len(errs), 4)
}

func TestFreeBookMustCostZero(t *testing.T) {
	v := NewValidator()

	b := validBook()
	b.Free = true

	errs := v.ValidateBook(b)
	require.Len(t, errs, 1)
	assert.Equal(t, records.RuleFreePrice, errs[0].Rule)
}

func TestPaidBookMustCostMoreThanZero(t *testing.T) {
	v := NewValidator()

	b := validBook()
	b.Free = false
	b.Price = decimal.Zero

	errs := v.ValidateBook(b)
	require.Len(t, errs, 1)
	assert.Equal(t, records.RuleFreePrice, errs[0].Rule)
}

func TestBookReleaseDateMustNotBeInFuture(t *testing.T) {
	v := NewValidator()

	future := time.Now().Add(48 * time.Hour)
	b := validBook()
	b.ReleasedAt = &future

	errs := v.ValidateBook(b)
	require.Len(t, errs, 1)
	assert.Equal(t, records.RuleNotFuture, errs[0].Rule)
	assert.Equal(t, "releasedAt", errs[0].Field)
}

func TestCustomerChainValidatesFormats(t *testing.T) {
	v := NewValidator()

	c := records.Customer{
		CustomerKey: "CUS-1",
		FullName:    "Nguyễn Văn A",
		Email:       "an@example.com",
		Phone:       "0912345678",
		Status:      "HOAT_DONG",
		Roles:       []string{"CUSTOMER"},
	}
	assert.Empty(t, v.ValidateCustomer(c))

	c.Email = "not-an-email"
	c.Phone = "123"
	errs := v.ValidateCustomer(c)
	fields := fieldsOf(errs)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "phone")
	for _, e := range errs {
		assert.Equal(t, records.RuleRegex, e.Rule)
	}
}

func TestValidOrderHasNoFindings(t *testing.T) {
	v := NewValidator()
	assert.Empty(t, v.ValidateOrder(validOrder()))
}

func TestOrderTotalMismatchIsSingleFinding(t *testing.T) {
	v := NewValidator()

	// 2x10.00 + 1x5.00 + 3.00 shipping - 2.00 discount = 26.00, not 25.00.
	o := validOrder()
	o.Items = []records.OrderLine{
		{BookKey: "BK-1", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		{BookKey: "BK-2", Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")},
	}
	o.ShippingFee = decimal.RequireFromString("3.00")
	o.Discount = decimal.RequireFromString("2.00")
	o.TotalAmount = decimal.RequireFromString("25.00")

	errs := v.ValidateOrder(o)
	require.Len(t, errs, 1)
	assert.Equal(t, records.RuleTotalMismatch, errs[0].Rule)
	assert.Equal(t, "totalAmount", errs[0].Field)
}

func TestOrderTotalUsesExactDecimalArithmetic(t *testing.T) {
	v := NewValidator()

	// 3 x 0.10 must equal 0.30 exactly, not a float approximation.
	o := validOrder()
	o.Items = []records.OrderLine{
		{BookKey: "BK-1", Quantity: 3, UnitPrice: decimal.RequireFromString("0.10")},
	}
	o.ShippingFee = decimal.Zero
	o.TotalAmount = decimal.RequireFromString("0.30")

	assert.Empty(t, v.ValidateOrder(o))
}

func TestOrderLineFindingsCarryIndexedPaths(t *testing.T) {
	v := NewValidator()

	o := validOrder()
	o.Items = []records.OrderLine{
		{BookKey: "BK-1", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		{BookKey: "", Quantity: 0, UnitPrice: decimal.Zero},
	}
	o.TotalAmount = ExpectedOrderTotal(o)

	errs := v.ValidateOrder(o)
	fields := fieldsOf(errs)
	assert.Contains(t, fields, "items[1].bookKey")
	assert.Contains(t, fields, "items[1].quantity")
	assert.Contains(t, fields, "items[1].unitPrice")
	assert.NotContains(t, fields, "items[0].bookKey")
}

func TestOrderWithoutLinesSkipsTotalCheck(t *testing.T) {
	v := NewValidator()

	o := validOrder()
	o.Items = nil

	rules := rulesOf(v.ValidateOrder(o))
	assert.Contains(t, rules, records.RuleMinSize)
	assert.NotContains(t, rules, records.RuleTotalMismatch)
}

func TestOrderItemChain(t *testing.T) {
	v := NewValidator()

	item := records.OrderItem{
		OrderKey:  "OD-1",
		LineNo:    1,
		BookKey:   "BK-1",
		Quantity:  2,
		UnitPrice: decimal.RequireFromString("10.00"),
	}
	assert.Empty(t, v.ValidateOrderItem(item))

	item.Quantity = 0
	item.UnitPrice = decimal.Zero
	errs := v.ValidateOrderItem(item)
	require.Len(t, errs, 2)
	assert.ElementsMatch(t, []string{"quantity", "unitPrice"}, fieldsOf(errs))
}

func TestCartChainValidatesLines(t *testing.T) {
	v := NewValidator()

	c := records.Cart{
		CartKey:     "CART-1",
		CustomerKey: "CUS-1",
		Items: []records.OrderLine{
			{BookKey: "", Quantity: 0},
		},
	}

	errs := v.ValidateCart(c)
	fields := fieldsOf(errs)
	assert.Contains(t, fields, "items[0].bookKey")
	assert.Contains(t, fields, "items[0].quantity")
	// Carts may omit the unit price.
	assert.NotContains(t, fields, "items[0].unitPrice")
}

// A blank status must be a gate finding. OneOf skips empty values, so
// without the NotBlank guard a statusless record would land VALIDATED
// and then fail enum parsing on every promotion pass.
func TestBlankStatusIsRejected(t *testing.T) {
	v := NewValidator()

	c := records.Customer{
		CustomerKey: "CUS-1",
		FullName:    "Nguyễn Văn A",
		Email:       "an@example.com",
		Phone:       "0912345678",
		Roles:       []string{"CUSTOMER"},
	}
	errs := v.ValidateCustomer(c)
	require.NotEmpty(t, errs)
	assert.Contains(t, fieldsOf(errs), "status")
	assert.Contains(t, rulesOf(errs), records.RuleNotBlank)

	o := validOrder()
	o.Status = ""
	o.PaymentMethod = ""
	fields := fieldsOf(v.ValidateOrder(o))
	assert.Contains(t, fields, "status")
	assert.Contains(t, fields, "paymentMethod")

	inv := records.Invoice{
		InvoiceKey: "INV-1",
		OrderKey:   "OD-1",
		Amount:     decimal.RequireFromString("25.00"),
	}
	assert.Contains(t, fieldsOf(v.ValidateInvoice(inv)), "status")
}

func TestInvoiceChain(t *testing.T) {
	v := NewValidator()

	inv := records.Invoice{
		InvoiceKey: "INV-1",
		OrderKey:   "OD-1",
		Amount:     decimal.RequireFromString("25.00"),
		Status:     "DA_THANH_TOAN",
	}
	assert.Empty(t, v.ValidateInvoice(inv))

	inv.Amount = decimal.Zero
	inv.Status = "MAYBE_LATER"
	errs := v.ValidateInvoice(inv)
	assert.ElementsMatch(t, []string{"amount", "status"}, fieldsOf(errs))
}
