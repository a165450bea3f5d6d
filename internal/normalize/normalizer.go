package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/xdieuxd/BOOKNEST-ETL/internal/records"
)

// Vendor status spellings mapped onto the canonical vocabulary. Input that is
// neither canonical nor mapped is uppercased and passed through verbatim; the
// validator's allowed-value rule rejects it later. The lenient fallback is
// deliberate: normalization never errors.
var bookStatusMap = map[string]string{
	"ACTIVE":      "HIEU_LUC",
	"AVAILABLE":   "HIEU_LUC",
	"PUBLISHED":   "HIEU_LUC",
	"INACTIVE":    "AN",
	"UNAVAILABLE": "AN",
	"HIDDEN":      "AN",
}

var customerStatusMap = map[string]string{
	"ACTIVE":   "HOAT_DONG",
	"ENABLED":  "HOAT_DONG",
	"INACTIVE": "KHOA",
	"LOCKED":   "KHOA",
	"BANNED":   "KHOA",
	"DISABLED": "KHOA",
}

var orderStatusMap = map[string]string{
	"PENDING":   "CHO_XAC_NHAN",
	"CONFIRMED": "DA_XAC_NHAN",
	"SHIPPING":  "DANG_GIAO",
	"DELIVERED": "DA_GIAO",
	"CANCELLED": "DA_HUY",
	"COMPLETED": "HOAN_THANH",
}

var invoiceStatusMap = map[string]string{
	"PENDING":   "CHO_THANH_TOAN",
	"PAID":      "DA_THANH_TOAN",
	"CANCELLED": "DA_HUY",
	"REFUNDED":  "DA_HOAN_TIEN",
}

// Normalizer applies best-effort canonicalization before validation. All
// methods are pure and total: malformed input degrades to a safe value or
// passes through unchanged, never an error.
type Normalizer struct{}

// New returns a Normalizer.
func New() *Normalizer {
	return &Normalizer{}
}

// Book canonicalizes the catalog status.
func (n *Normalizer) Book(b records.Book) records.Book {
	b.Status = normalizeStatus(b.Status, bookStatusMap)
	return b
}

// Customer canonicalizes phone, email, status and the person name.
func (n *Normalizer) Customer(c records.Customer) records.Customer {
	c.Phone = normalizePhone(c.Phone)
	c.Email = normalizeEmail(c.Email)
	c.Status = normalizeStatus(c.Status, customerStatusMap)
	c.FullName = NormalizePersonName(c.FullName)
	return c
}

// Order canonicalizes the status plus the embedded customer name and email.
func (n *Normalizer) Order(o records.Order) records.Order {
	o.Status = normalizeStatus(o.Status, orderStatusMap)
	o.CustomerName = NormalizePersonName(o.CustomerName)
	o.CustomerEmail = normalizeEmail(o.CustomerEmail)
	return o
}

// OrderItem passes through; the standalone feed carries no vendor vocabulary.
func (n *Normalizer) OrderItem(i records.OrderItem) records.OrderItem {
	return i
}

// Cart passes through unchanged.
func (n *Normalizer) Cart(c records.Cart) records.Cart {
	return c
}

// Invoice canonicalizes the payment status.
func (n *Normalizer) Invoice(i records.Invoice) records.Invoice {
	i.Status = normalizeStatus(i.Status, invoiceStatusMap)
	return i
}

func normalizeStatus(status string, statusMap map[string]string) string {
	if strings.TrimSpace(status) == "" {
		return status
	}
	uppercased := strings.ToUpper(strings.TrimSpace(status))
	for _, canonical := range statusMap {
		if canonical == uppercased {
			return uppercased
		}
	}
	if mapped, ok := statusMap[uppercased]; ok {
		return mapped
	}
	return uppercased
}

func normalizePhone(phone string) string {
	if strings.TrimSpace(phone) == "" {
		return phone
	}
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return digits.String()
}

func normalizeEmail(email string) string {
	if strings.TrimSpace(email) == "" {
		return email
	}
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePersonName canonicalizes a person name: Unicode NFC composition,
// lowercase, whitespace collapsed to single spaces, and the first codepoint of
// each token uppercased. Codepoint-aware so multi-byte accented letters keep
// their diacritics (Nguyễn, not NguyễN).
func NormalizePersonName(value string) string {
	if strings.TrimSpace(value) == "" {
		return value
	}
	composed := norm.NFC.String(strings.TrimSpace(value))
	lowered := strings.ToLower(composed)
	parts := strings.Fields(lowered)
	for i, part := range parts {
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}
