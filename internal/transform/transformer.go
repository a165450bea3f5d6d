package transform

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/xdieuxd/BOOKNEST-ETL/internal/normalize"
	"github.com/xdieuxd/BOOKNEST-ETL/internal/quality"
	"github.com/xdieuxd/BOOKNEST-ETL/internal/records"
)

// Fallbacks for fields validation allowed to be blank.
const (
	unknownTitle    = "Unknown"
	unknownAuthor   = "Unknown"
	unknownCustomer = "Unknown Customer"
	unknownEmail    = "unknown@example.com"
	unknownBookKey  = "UNKNOWN"
	uncategorized   = "Uncategorized"
	notAvailable    = "N/A"
	guestRole       = "guest"
)

// Transformer finalizes a record after it passed the quality gate: fill
// defaults, recompute derived totals and re-apply trimming and casing.
// Transform composed with itself is a no-op.
type Transformer struct{}

// New returns a Transformer.
func New() *Transformer {
	return &Transformer{}
}

// Book fills catalog defaults and settles casing.
func (t *Transformer) Book(b records.Book) records.Book {
	if strings.TrimSpace(b.Title) == "" {
		b.Title = unknownTitle
	} else {
		b.Title = capitalizeSentence(b.Title)
	}
	if strings.TrimSpace(b.Description) == "" {
		b.Description = notAvailable
	} else {
		b.Description = strings.TrimSpace(b.Description)
	}
	if len(b.Authors) == 0 {
		b.Authors = []string{unknownAuthor}
	} else {
		authors := make([]string, len(b.Authors))
		for i, author := range b.Authors {
			if strings.TrimSpace(author) == "" {
				authors[i] = unknownAuthor
			} else {
				authors[i] = normalize.NormalizePersonName(author)
			}
		}
		b.Authors = authors
	}
	if len(b.Categories) == 0 {
		b.Categories = []string{uncategorized}
	} else {
		categories := make([]string, len(b.Categories))
		for i, category := range b.Categories {
			if strings.TrimSpace(category) == "" {
				categories[i] = uncategorized
			} else {
				categories[i] = strings.TrimSpace(category)
			}
		}
		b.Categories = categories
	}
	b.Status = upperStatus(b.Status)
	return b
}

// Customer fills account defaults and settles casing.
func (t *Transformer) Customer(c records.Customer) records.Customer {
	if strings.TrimSpace(c.FullName) == "" {
		c.FullName = unknownTitle
	} else {
		c.FullName = normalize.NormalizePersonName(c.FullName)
	}
	if strings.TrimSpace(c.Email) == "" {
		c.Email = unknownEmail
	} else {
		c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	}
	if strings.TrimSpace(c.Phone) == "" {
		c.Phone = notAvailable
	}
	if len(c.Roles) == 0 {
		c.Roles = []string{guestRole}
	} else {
		roles := make([]string, len(c.Roles))
		for i, role := range c.Roles {
			if strings.TrimSpace(role) == "" {
				roles[i] = guestRole
			} else {
				roles[i] = strings.TrimSpace(role)
			}
		}
		c.Roles = roles
	}
	c.Status = upperStatus(c.Status)
	return c
}

// Order recomputes the derived total from its lines and settles the embedded
// customer fields.
func (t *Transformer) Order(o records.Order) records.Order {
	if len(o.Items) > 0 {
		o.TotalAmount = quality.ExpectedOrderTotal(o)
		items := make([]records.OrderLine, len(o.Items))
		for i, line := range o.Items {
			items[i] = transformLine(line)
		}
		o.Items = items
	}
	if strings.TrimSpace(o.CustomerName) == "" {
		o.CustomerName = unknownCustomer
	} else {
		o.CustomerName = normalize.NormalizePersonName(o.CustomerName)
	}
	if strings.TrimSpace(o.CustomerEmail) == "" {
		o.CustomerEmail = unknownEmail
	} else {
		o.CustomerEmail = strings.ToLower(strings.TrimSpace(o.CustomerEmail))
	}
	o.Status = upperStatus(o.Status)
	return o
}

// OrderItem settles the book reference.
func (t *Transformer) OrderItem(i records.OrderItem) records.OrderItem {
	if strings.TrimSpace(i.BookKey) == "" {
		i.BookKey = unknownBookKey
	} else {
		i.BookKey = strings.TrimSpace(i.BookKey)
	}
	return i
}

// Cart settles the customer reference and each line's book reference.
func (t *Transformer) Cart(c records.Cart) records.Cart {
	if strings.TrimSpace(c.CustomerKey) == "" {
		c.CustomerKey = unknownBookKey
	} else {
		c.CustomerKey = strings.TrimSpace(c.CustomerKey)
	}
	items := make([]records.OrderLine, len(c.Items))
	for i, line := range c.Items {
		items[i] = transformLine(line)
	}
	c.Items = items
	return c
}

// Invoice settles the order reference and status casing.
func (t *Transformer) Invoice(i records.Invoice) records.Invoice {
	if strings.TrimSpace(i.OrderKey) == "" {
		i.OrderKey = unknownBookKey
	} else {
		i.OrderKey = strings.TrimSpace(i.OrderKey)
	}
	i.Status = upperStatus(i.Status)
	return i
}

func transformLine(line records.OrderLine) records.OrderLine {
	if strings.TrimSpace(line.BookKey) == "" {
		line.BookKey = unknownBookKey
	} else {
		line.BookKey = strings.TrimSpace(line.BookKey)
	}
	return line
}

// capitalizeSentence uppercases the first codepoint and lowercases the rest,
// after NFC composition.
func capitalizeSentence(value string) string {
	composed := norm.NFC.String(strings.TrimSpace(value))
	runes := []rune(strings.ToLower(composed))
	if len(runes) == 0 {
		return composed
	}
	first := []rune(strings.ToUpper(string(runes[0])))
	return string(first) + string(runes[1:])
}

func upperStatus(status string) string {
	return strings.ToUpper(strings.TrimSpace(status))
}
