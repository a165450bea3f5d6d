package transport

import (
	"encoding/json"
	"fmt"

	"github.com/xdieuxd/BOOKNEST-ETL/internal/records"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/enums"
)

// Envelope is the wire frame on the raw-records topic. The entity tag
// selects the payload type; the payload is the raw record JSON.
type Envelope struct {
	Entity  enums.EntityType `json:"entity"`
	Payload json.RawMessage  `json:"payload"`
}

// DecodeEnvelope parses and tag-checks a raw-topic message.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if !env.Entity.IsValid() {
		return Envelope{}, fmt.Errorf("decode envelope: unknown entity %q", env.Entity)
	}
	if len(env.Payload) == 0 {
		return Envelope{}, fmt.Errorf("decode envelope: empty payload")
	}
	return env, nil
}

// EncodeBook frames a book record for the raw topic.
func EncodeBook(b records.Book) ([]byte, error) {
	return encode(enums.EntityBook, b)
}

// EncodeCustomer frames a customer record for the raw topic.
func EncodeCustomer(c records.Customer) ([]byte, error) {
	return encode(enums.EntityCustomer, c)
}

// EncodeOrder frames an order record for the raw topic.
func EncodeOrder(o records.Order) ([]byte, error) {
	return encode(enums.EntityOrder, o)
}

// EncodeOrderItem frames a standalone line item for the raw topic.
func EncodeOrderItem(i records.OrderItem) ([]byte, error) {
	return encode(enums.EntityOrderItem, i)
}

// EncodeCart frames a cart record for the raw topic.
func EncodeCart(c records.Cart) ([]byte, error) {
	return encode(enums.EntityCart, c)
}

// EncodeInvoice frames an invoice record for the raw topic.
func EncodeInvoice(i records.Invoice) ([]byte, error) {
	return encode(enums.EntityInvoice, i)
}

func encode(entity enums.EntityType, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", entity, err)
	}
	return json.Marshal(Envelope{Entity: entity, Payload: raw})
}
