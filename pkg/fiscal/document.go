package fiscal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
)

// DocumentKind selects the operation a document is submitted as.
type DocumentKind int

const (
	KindSell DocumentKind = iota + 1
	KindSellRefund
	KindBuy
	KindBuyRefund
	KindSellCorrection
	KindBuyCorrection
)

type kindInfo struct {
	operation  string
	correction bool
}

var kinds = map[DocumentKind]kindInfo{
	KindSell:           {operation: "sell"},
	KindSellRefund:     {operation: "sell_refund"},
	KindBuy:            {operation: "buy"},
	KindBuyRefund:      {operation: "buy_refund"},
	KindSellCorrection: {operation: "sell_correction", correction: true},
	KindBuyCorrection:  {operation: "buy_correction", correction: true},
}

// ParseDocumentKind maps an operation tag back to its kind.
func ParseDocumentKind(operation string) (DocumentKind, error) {
	for kind, info := range kinds {
		if info.operation == operation {
			return kind, nil
		}
	}
	return 0, invalid("operation", "unknown operation %q", operation)
}

// Valid reports whether k is one of the defined kinds.
func (k DocumentKind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// Operation returns the path segment the document is posted to.
func (k DocumentKind) Operation() string {
	return kinds[k].operation
}

// IsCorrection reports whether documents of kind k carry a Correction
// instead of a Receipt.
func (k DocumentKind) IsCorrection() bool {
	return kinds[k].correction
}

func (k DocumentKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("DocumentKind(%d)", int(k))
	}
	return k.Operation()
}

// Document is a top-level submission: an external id, a timestamp, a receipt
// or correction depending on the kind, and optional service metadata. The
// payload is held in either the v4 or the v3 shape; setting one shape drops
// the other.
type Document struct {
	kind         DocumentKind
	externalID   string
	timestamp    time.Time
	receipt      *Receipt
	correction   *Correction
	receiptV3    *ReceiptV3
	correctionV3 *CorrectionV3
	service      *Service
}

// NewDocument returns an empty document of the given kind.
func NewDocument(kind DocumentKind) (*Document, error) {
	if !kind.Valid() {
		return nil, invalid("document kind", "unknown kind %d", int(kind))
	}
	return &Document{kind: kind}, nil
}

func NewSell() *Document           { return &Document{kind: KindSell} }
func NewSellRefund() *Document     { return &Document{kind: KindSellRefund} }
func NewBuy() *Document            { return &Document{kind: KindBuy} }
func NewBuyRefund() *Document      { return &Document{kind: KindBuyRefund} }
func NewSellCorrection() *Document { return &Document{kind: KindSellCorrection} }
func NewBuyCorrection() *Document  { return &Document{kind: KindBuyCorrection} }

// NewExternalID returns a random identifier usable as an external id.
func NewExternalID() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("generate external id: %w", err)
	}
	return id.String(), nil
}

// Kind returns the document kind.
func (d *Document) Kind() DocumentKind {
	return d.kind
}

// Operation returns the fixed operation tag of the document kind.
func (d *Document) Operation() string {
	return d.kind.Operation()
}

// ExternalID returns the caller's idempotency key.
func (d *Document) ExternalID() string {
	return d.externalID
}

// SetExternalID sets the caller's idempotency key, unique within a group.
func (d *Document) SetExternalID(id string) error {
	if err := checkLength("external id", id, 256); err != nil {
		return err
	}
	d.externalID = id
	return nil
}

// Timestamp returns the document time.
func (d *Document) Timestamp() time.Time {
	return d.timestamp
}

// SetTimestamp sets the document time; it is sent in local time.
func (d *Document) SetTimestamp(t time.Time) {
	d.timestamp = t
}

// Receipt returns the v4 receipt, nil when none is set.
func (d *Document) Receipt() *Receipt {
	return d.receipt
}

// SetReceipt sets a v4 receipt on a receipt-bearing document.
func (d *Document) SetReceipt(r *Receipt) error {
	if d.kind.IsCorrection() {
		return invalid("receipt", "%s documents carry a correction", d.kind)
	}
	d.receipt, d.receiptV3 = r, nil
	return nil
}

// Correction returns the v4 correction, nil when none is set.
func (d *Document) Correction() *Correction {
	return d.correction
}

// SetCorrection sets a v4 correction on a correction document.
func (d *Document) SetCorrection(c *Correction) error {
	if !d.kind.IsCorrection() {
		return invalid("correction", "%s documents carry a receipt", d.kind)
	}
	d.correction, d.correctionV3 = c, nil
	return nil
}

// ReceiptV3 returns the v3 receipt, nil when none is set.
func (d *Document) ReceiptV3() *ReceiptV3 {
	return d.receiptV3
}

// SetReceiptV3 sets a v3 receipt on a receipt-bearing document.
func (d *Document) SetReceiptV3(r *ReceiptV3) error {
	if d.kind.IsCorrection() {
		return invalid("receipt", "%s documents carry a correction", d.kind)
	}
	d.receiptV3, d.receipt = r, nil
	return nil
}

// CorrectionV3 returns the v3 correction, nil when none is set.
func (d *Document) CorrectionV3() *CorrectionV3 {
	return d.correctionV3
}

// SetCorrectionV3 sets a v3 correction on a correction document.
func (d *Document) SetCorrectionV3(c *CorrectionV3) error {
	if !d.kind.IsCorrection() {
		return invalid("correction", "%s documents carry a receipt", d.kind)
	}
	d.correctionV3, d.correction = c, nil
	return nil
}

// Schema reports the payload shape, SchemaV4 until a v3 payload is set.
func (d *Document) Schema() Schema {
	if d.receiptV3 != nil || d.correctionV3 != nil {
		return SchemaV3
	}
	return SchemaV4
}

// Service returns the delivery metadata, nil when none is set.
func (d *Document) Service() *Service {
	return d.service
}

// SetService sets the delivery metadata.
func (d *Document) SetService(s *Service) {
	d.service = s
}

// payload returns the wire key and the entity to serialize under it, nil
// when the document has no payload yet.
func (d *Document) payload() (string, serializer) {
	switch {
	case !d.kind.IsCorrection() && d.receipt != nil:
		return "receipt", d.receipt
	case !d.kind.IsCorrection() && d.receiptV3 != nil:
		return "receipt", d.receiptV3
	case d.kind.IsCorrection() && d.correction != nil:
		return "correction", d.correction
	case d.kind.IsCorrection() && d.correctionV3 != nil:
		return "correction", d.correctionV3
	case d.kind.IsCorrection():
		return "correction", nil
	default:
		return "receipt", nil
	}
}

// Serialize implements the request body
// {external_id, receipt|correction, service?, timestamp}. v3 documents
// also need the service inn and payment address when a service is set.
func (d *Document) Serialize() (Fields, error) {
	if !d.kind.Valid() {
		return nil, invalid("document kind", "unknown kind %d", int(d.kind))
	}

	r := requirements{entity: d.kind.Operation()}
	r.need(d.externalID != "", "external_id")
	r.need(!d.timestamp.IsZero(), "timestamp")

	payloadKey, entity := d.payload()
	r.need(entity != nil, payloadKey)

	var payload, service Fields
	if entity != nil {
		payload = r.nested(payloadKey, entity)
	}
	if d.service != nil {
		service = r.nested("service", d.service)
		if d.Schema() == SchemaV3 {
			r.need(d.service.inn != "", "service.inn")
			r.need(d.service.paymentAddress != "", "service.payment_address")
		}
	}
	if err := r.err(); err != nil {
		return nil, err
	}

	var f Fields
	f.set("external_id", d.externalID)
	f.set(payloadKey, payload)
	if d.service != nil {
		f.set("service", service)
	}
	f.set("timestamp", d.timestamp.Format(timestampLayout))
	return f, nil
}

// MarshalJSON implements json.Marshaler using Serialize.
func (d *Document) MarshalJSON() ([]byte, error) {
	fields, err := d.Serialize()
	if err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}
