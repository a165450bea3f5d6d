package quality

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xdieuxd/BOOKNEST-ETL/internal/records"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/enums"
)

var (
	namePattern  = regexp.MustCompile(`^[\p{L}][\p{L} .'-]{1,99}$`)
	emailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[0-9]{9,15}$`)
)

// Validator holds the prebuilt rule chain for each entity type. Chains are
// fixed at construction; validation is pure and returns every finding.
type Validator struct {
	books     Chain[records.Book]
	customers Chain[records.Customer]
	orders    Chain[records.Order]
	items     Chain[records.OrderItem]
	carts     Chain[records.Cart]
	invoices  Chain[records.Invoice]
}

// NewValidator builds the entity chains.
func NewValidator() *Validator {
	return &Validator{
		books:     bookChain(),
		customers: customerChain(),
		orders:    orderChain(),
		items:     orderItemChain(),
		carts:     cartChain(),
		invoices:  invoiceChain(),
	}
}

// ValidateBook runs the book chain.
func (v *Validator) ValidateBook(b records.Book) []records.ValidationError {
	return v.books.Validate(b)
}

// ValidateCustomer runs the customer chain.
func (v *Validator) ValidateCustomer(c records.Customer) []records.ValidationError {
	return v.customers.Validate(c)
}

// ValidateOrder runs the order chain, including per-line sub-validation and
// the exact-total consistency check.
func (v *Validator) ValidateOrder(o records.Order) []records.ValidationError {
	return v.orders.Validate(o)
}

// ValidateOrderItem runs the standalone line-item chain.
func (v *Validator) ValidateOrderItem(i records.OrderItem) []records.ValidationError {
	return v.items.Validate(i)
}

// ValidateCart runs the cart chain.
func (v *Validator) ValidateCart(c records.Cart) []records.ValidationError {
	return v.carts.Validate(c)
}

// ValidateInvoice runs the invoice chain.
func (v *Validator) ValidateInvoice(i records.Invoice) []records.ValidationError {
	return v.invoices.Validate(i)
}

func bookChain() Chain[records.Book] {
	return Chain[records.Book]{
		NotBlank("bookKey", "book key must not be blank", func(b records.Book) string { return b.BookKey }),
		NotBlank("title", "title must not be blank", func(b records.Book) string { return b.Title }),
		MaxLength("title", 300, "title must be at most 300 characters", func(b records.Book) string { return b.Title }),
		MaxLength("description", 2000, "description must be at most 2000 characters", func(b records.Book) string { return b.Description }),
		MinSize("authors", 1, "at least one author is required", func(b records.Book) []string { return b.Authors }),
		MinSize("categories", 1, "at least one category is required", func(b records.Book) []string { return b.Categories }),
		Positive("price", true, "price must not be negative", func(b records.Book) decimal.Decimal { return b.Price }),
		NotBlank("status", "status must not be blank", func(b records.Book) string { return b.Status }),
		MaxLength("status", 20, "status is too long", func(b records.Book) string { return b.Status }),
		OneOf("status", "unknown book status", enums.BookStatusValues(), func(b records.Book) string { return b.Status }),
		NotInFuture("releasedAt", "release date must not be in the future", func(b records.Book) *time.Time { return b.ReleasedAt }),
		freePriceRule(),
	}
}

// freePriceRule enforces the free-flag/price cross-field invariant: a free
// book costs exactly zero, a paid book costs strictly more.
func freePriceRule() Rule[records.Book] {
	return func(b records.Book) []records.ValidationError {
		if b.Free && !b.Price.IsZero() {
			return finding("price", records.RuleFreePrice, "a free book must have price 0")
		}
		if !b.Free && !b.Price.IsPositive() {
			return finding("price", records.RuleFreePrice, "a paid book must have price > 0")
		}
		return nil
	}
}

func customerChain() Chain[records.Customer] {
	return Chain[records.Customer]{
		NotBlank("customerKey", "customer key must not be blank", func(c records.Customer) string { return c.CustomerKey }),
		MaxLength("customerKey", 50, "customer key must be at most 50 characters", func(c records.Customer) string { return c.CustomerKey }),
		NotBlank("fullName", "full name must not be blank", func(c records.Customer) string { return c.FullName }),
		Matches("fullName", "full name contains invalid characters", namePattern, func(c records.Customer) string { return c.FullName }),
		MaxLength("fullName", 150, "full name must be at most 150 characters", func(c records.Customer) string { return c.FullName }),
		NotBlank("email", "email must not be blank", func(c records.Customer) string { return c.Email }),
		Matches("email", "email is not valid", emailPattern, func(c records.Customer) string { return c.Email }),
		MaxLength("email", 150, "email must be at most 150 characters", func(c records.Customer) string { return c.Email }),
		NotBlank("phone", "phone must not be blank", func(c records.Customer) string { return c.Phone }),
		Matches("phone", "phone must be 9-15 digits", phonePattern, func(c records.Customer) string { return c.Phone }),
		MaxLength("phone", 20, "phone must be at most 20 characters", func(c records.Customer) string { return c.Phone }),
		MinSize("roles", 1, "at least one role is required", func(c records.Customer) []string { return c.Roles }),
		NotBlank("status", "status must not be blank", func(c records.Customer) string { return c.Status }),
		OneOf("status", "unknown customer status", enums.CustomerStatusValues(), func(c records.Customer) string { return c.Status }),
	}
}

func orderChain() Chain[records.Order] {
	return Chain[records.Order]{
		NotBlank("orderKey", "order key must not be blank", func(o records.Order) string { return o.OrderKey }),
		MaxLength("orderKey", 50, "order key must be at most 50 characters", func(o records.Order) string { return o.OrderKey }),
		NotBlank("customerEmail", "order must carry the customer email", func(o records.Order) string { return o.CustomerEmail }),
		Matches("customerEmail", "customer email is not valid", emailPattern, func(o records.Order) string { return o.CustomerEmail }),
		NotBlank("customerName", "customer name must not be blank", func(o records.Order) string { return o.CustomerName }),
		MaxLength("customerName", 150, "customer name must be at most 150 characters", func(o records.Order) string { return o.CustomerName }),
		MinSize("items", 1, "order must have at least one line item", func(o records.Order) []records.OrderLine { return o.Items }),
		Positive("totalAmount", false, "total amount must be > 0", func(o records.Order) decimal.Decimal { return o.TotalAmount }),
		Positive("discount", true, "discount must not be negative", func(o records.Order) decimal.Decimal { return o.Discount }),
		Positive("shippingFee", true, "shipping fee must not be negative", func(o records.Order) decimal.Decimal { return o.ShippingFee }),
		NotBlank("status", "status must not be blank", func(o records.Order) string { return o.Status }),
		OneOf("status", "unknown order status", enums.OrderStatusValues(), func(o records.Order) string { return o.Status }),
		NotBlank("paymentMethod", "payment method must not be blank", func(o records.Order) string { return o.PaymentMethod }),
		OneOf("paymentMethod", "unknown payment method", enums.PaymentMethodValues(), func(o records.Order) string { return o.PaymentMethod }),
		NotInFuture("createdAt", "order creation time must not be in the future", func(o records.Order) *time.Time { return o.CreatedAt }),
		NotInFuture("extractedAt", "extraction time must not be in the future", func(o records.Order) *time.Time {
			if o.ExtractedAt.IsZero() {
				return nil
			}
			t := o.ExtractedAt
			return &t
		}),
		orderLinesRule(),
		orderTotalRule(),
	}
}

// orderLinesRule sub-validates each owned line with an indexed field path.
func orderLinesRule() Rule[records.Order] {
	return func(o records.Order) []records.ValidationError {
		var errs []records.ValidationError
		for i, line := range o.Items {
			errs = append(errs, validateLine(fmt.Sprintf("items[%d]", i), line)...)
		}
		return errs
	}
}

func validateLine(base string, line records.OrderLine) []records.ValidationError {
	var errs []records.ValidationError
	if line.BookKey == "" {
		errs = append(errs, records.ValidationError{
			Field: base + ".bookKey", Rule: records.RuleNotBlank, Message: "book key must not be blank",
		})
	}
	if line.Quantity <= 0 {
		errs = append(errs, records.ValidationError{
			Field: base + ".quantity", Rule: records.RulePositiveInt, Message: "quantity must be > 0",
		})
	}
	if !line.UnitPrice.IsPositive() {
		errs = append(errs, records.ValidationError{
			Field: base + ".unitPrice", Rule: records.RulePositive, Message: "unit price must be > 0",
		})
	}
	return errs
}

// orderTotalRule checks the declared total against
// sum(unitPrice*quantity) + shippingFee - discount with exact decimal
// equality. Orders without lines are left to the MIN_SIZE rule.
func orderTotalRule() Rule[records.Order] {
	return func(o records.Order) []records.ValidationError {
		if len(o.Items) == 0 {
			return nil
		}
		expected := ExpectedOrderTotal(o)
		if !expected.Equal(o.TotalAmount) {
			return finding("totalAmount", records.RuleTotalMismatch,
				"total amount does not equal line sum + shipping fee - discount")
		}
		return nil
	}
}

// ExpectedOrderTotal computes the derived order total from its lines.
func ExpectedOrderTotal(o records.Order) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range o.Items {
		sum = sum.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return sum.Add(o.ShippingFee).Sub(o.Discount)
}

func orderItemChain() Chain[records.OrderItem] {
	return Chain[records.OrderItem]{
		NotBlank("orderKey", "order key must not be blank", func(i records.OrderItem) string { return i.OrderKey }),
		NotBlank("bookKey", "book key must not be blank", func(i records.OrderItem) string { return i.BookKey }),
		PositiveInt("lineNo", true, "line number must not be negative", func(i records.OrderItem) int { return i.LineNo }),
		PositiveInt("quantity", false, "quantity must be > 0", func(i records.OrderItem) int { return i.Quantity }),
		Positive("unitPrice", false, "unit price must be > 0", func(i records.OrderItem) decimal.Decimal { return i.UnitPrice }),
	}
}

func cartChain() Chain[records.Cart] {
	return Chain[records.Cart]{
		NotBlank("cartKey", "cart key must not be blank", func(c records.Cart) string { return c.CartKey }),
		NotBlank("customerKey", "customer key must not be blank", func(c records.Cart) string { return c.CustomerKey }),
		MinSize("items", 1, "cart must have at least one line item", func(c records.Cart) []records.OrderLine { return c.Items }),
		cartLinesRule(),
	}
}

// cartLinesRule mirrors the order line checks minus the unit price, which
// carts are allowed to omit.
func cartLinesRule() Rule[records.Cart] {
	return func(c records.Cart) []records.ValidationError {
		var errs []records.ValidationError
		for i, line := range c.Items {
			base := fmt.Sprintf("items[%d]", i)
			if line.BookKey == "" {
				errs = append(errs, records.ValidationError{
					Field: base + ".bookKey", Rule: records.RuleNotBlank, Message: "book key must not be blank",
				})
			}
			if line.Quantity <= 0 {
				errs = append(errs, records.ValidationError{
					Field: base + ".quantity", Rule: records.RulePositiveInt, Message: "quantity must be > 0",
				})
			}
		}
		return errs
	}
}

func invoiceChain() Chain[records.Invoice] {
	return Chain[records.Invoice]{
		NotBlank("invoiceKey", "invoice key must not be blank", func(i records.Invoice) string { return i.InvoiceKey }),
		NotBlank("orderKey", "invoice must reference an order", func(i records.Invoice) string { return i.OrderKey }),
		Positive("amount", false, "invoice amount must be > 0", func(i records.Invoice) decimal.Decimal { return i.Amount }),
		NotBlank("status", "status must not be blank", func(i records.Invoice) string { return i.Status }),
		OneOf("status", "unknown invoice status", enums.InvoiceStatusValues(), func(i records.Invoice) string { return i.Status }),
		NotInFuture("createdAt", "invoice creation time must not be in the future", func(i records.Invoice) *time.Time { return i.CreatedAt }),
	}
}
