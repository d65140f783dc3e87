package fiscal

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Schema is the payload shape of a document. v4 endpoints take the
// client/company/items[].vat shape, v3 endpoints take attributes and a
// flat tax code per line.
type Schema int

const (
	SchemaV4 Schema = iota
	SchemaV3
)

// String returns "v3" or "v4".
func (s Schema) String() string {
	if s == SchemaV3 {
		return "v3"
	}
	return "v4"
}

// ReceiptAttributes carries the buyer contact and taxation system of a v3
// receipt. At least one of email and phone must be set.
type ReceiptAttributes struct {
	sno   TaxSystem
	email string
	phone string
}

// Sno returns the taxation system, "" when unset.
func (a *ReceiptAttributes) Sno() TaxSystem {
	return a.sno
}

// SetSno sets the taxation system.
func (a *ReceiptAttributes) SetSno(sno TaxSystem) error {
	if !sno.Valid() {
		return invalid("attributes sno", "unknown code %q", sno)
	}
	a.sno = sno
	return nil
}

// Email returns the buyer email.
func (a *ReceiptAttributes) Email() string {
	return a.email
}

// SetEmail sets the buyer email, at most 64 characters.
func (a *ReceiptAttributes) SetEmail(email string) error {
	if err := checkLength("attributes email", email, 64); err != nil {
		return err
	}
	a.email = email
	return nil
}

// Phone returns the buyer phone.
func (a *ReceiptAttributes) Phone() string {
	return a.phone
}

// SetPhone accepts digits with an optional leading plus.
func (a *ReceiptAttributes) SetPhone(phone string) error {
	if err := checkLength("attributes phone", phone, 64); err != nil {
		return err
	}
	if !phonePattern.MatchString(phone) {
		return invalid("attributes phone", "must be digits with an optional leading +")
	}
	a.phone = phone
	return nil
}

// Serialize implements the wire form {sno?, email?, phone?}.
func (a *ReceiptAttributes) Serialize() (Fields, error) {
	r := requirements{entity: "attributes"}
	r.need(a.email != "" || a.phone != "", "email|phone")
	if err := r.err(); err != nil {
		return nil, err
	}

	var f Fields
	if a.sno != "" {
		f.set("sno", string(a.sno))
	}
	if a.email != "" {
		f.set("email", a.email)
	}
	if a.phone != "" {
		f.set("phone", a.phone)
	}
	return f, nil
}

// ReceiptItem is one line of a v3 receipt.
type ReceiptItem struct {
	name     string
	price    *decimal.Decimal
	quantity *decimal.Decimal
	sum      *decimal.Decimal
	tax      VatType
	taxSum   *decimal.Decimal
}

// NewReceiptItem returns a v3 line named name with quantity 1.
func NewReceiptItem(name string) (*ReceiptItem, error) {
	i := &ReceiptItem{}
	if err := i.SetName(name); err != nil {
		return nil, err
	}
	return i, nil
}

// Name returns the line name.
func (i *ReceiptItem) Name() string {
	return i.name
}

// SetName sets the line name, at most 64 characters.
func (i *ReceiptItem) SetName(name string) error {
	if err := checkLength("item name", name, 64); err != nil {
		return err
	}
	i.name = name
	return nil
}

// Price returns the unit price and whether it was set.
func (i *ReceiptItem) Price() (decimal.Decimal, bool) {
	if i.price == nil {
		return decimal.Zero, false
	}
	return *i.price, true
}

// SetPrice sets the unit price.
func (i *ReceiptItem) SetPrice(price decimal.Decimal) error {
	if err := checkAmount("item price", price); err != nil {
		return err
	}
	i.price = &price
	return nil
}

// Quantity returns the quantity, 1 when it was never set.
func (i *ReceiptItem) Quantity() decimal.Decimal {
	if i.quantity == nil {
		return decimal.NewFromInt(1)
	}
	return *i.quantity
}

// SetQuantity sets the quantity.
func (i *ReceiptItem) SetQuantity(q decimal.Decimal) error {
	if err := checkAmount("item quantity", q); err != nil {
		return err
	}
	i.quantity = &q
	return nil
}

// Sum returns the line total and whether it was set.
func (i *ReceiptItem) Sum() (decimal.Decimal, bool) {
	if i.sum == nil {
		return decimal.Zero, false
	}
	return *i.sum, true
}

// SetSum sets the line total.
func (i *ReceiptItem) SetSum(sum decimal.Decimal) error {
	if err := checkAmount("item sum", sum); err != nil {
		return err
	}
	i.sum = &sum
	return nil
}

// Tax returns the tax rate code of the line.
func (i *ReceiptItem) Tax() VatType {
	return i.tax
}

// SetTax sets the tax rate code of the line.
func (i *ReceiptItem) SetTax(t VatType) error {
	if !t.Valid() {
		return invalid("item tax", "unknown code %q", t)
	}
	i.tax = t
	return nil
}

// TaxSum returns the tax amount and whether it was set.
func (i *ReceiptItem) TaxSum() (decimal.Decimal, bool) {
	if i.taxSum == nil {
		return decimal.Zero, false
	}
	return *i.taxSum, true
}

// SetTaxSum sets the tax amount of the line.
func (i *ReceiptItem) SetTaxSum(sum decimal.Decimal) error {
	if err := checkAmount("item tax sum", sum); err != nil {
		return err
	}
	i.taxSum = &sum
	return nil
}

// Serialize implements the wire form {name, price, quantity, sum, tax, tax_sum?}.
func (i *ReceiptItem) Serialize() (Fields, error) {
	r := requirements{entity: "item"}
	r.need(i.name != "", "name")
	r.need(i.price != nil, "price")
	r.need(i.sum != nil, "sum")
	r.need(i.tax != "", "tax")
	if err := r.err(); err != nil {
		return nil, err
	}

	var f Fields
	f.set("name", i.name)
	f.set("price", money(*i.price))
	f.set("quantity", quantity(i.Quantity()))
	f.set("sum", money(*i.sum))
	f.set("tax", string(i.tax))
	if i.taxSum != nil {
		f.set("tax_sum", money(*i.taxSum))
	}
	return f, nil
}

// ReceiptV3 is the payload of receipt documents sent to v3 endpoints.
type ReceiptV3 struct {
	attributes *ReceiptAttributes
	items      []*ReceiptItem
	payments   []*Payment
	total      *decimal.Decimal
}

// Attributes returns the buyer and taxation attributes.
func (r *ReceiptV3) Attributes() *ReceiptAttributes {
	return r.attributes
}

// SetAttributes sets the buyer and taxation attributes.
func (r *ReceiptV3) SetAttributes(a *ReceiptAttributes) {
	r.attributes = a
}

// Items returns a copy of the lines.
func (r *ReceiptV3) Items() []*ReceiptItem {
	return slices.Clone(r.items)
}

// SetItems replaces all lines; 1 to 100 are allowed.
func (r *ReceiptV3) SetItems(items ...*ReceiptItem) error {
	if err := itemBounds.checkSet("receipt items", len(items)); err != nil {
		return err
	}
	if slices.Contains(items, nil) {
		return invalid("receipt items", "must not contain nil")
	}
	r.items = slices.Clone(items)
	return nil
}

// AddItem appends a line unless the receipt already holds 100.
func (r *ReceiptV3) AddItem(item *ReceiptItem) error {
	if item == nil {
		return invalid("receipt items", "must not be nil")
	}
	if err := itemBounds.checkAdd("receipt items", len(r.items)); err != nil {
		return err
	}
	r.items = append(r.items, item)
	return nil
}

// Payments returns a copy of the payments.
func (r *ReceiptV3) Payments() []*Payment {
	return slices.Clone(r.payments)
}

// SetPayments replaces all payments; 1 to 10 are allowed.
func (r *ReceiptV3) SetPayments(payments ...*Payment) error {
	if err := paymentBounds.checkSet("receipt payments", len(payments)); err != nil {
		return err
	}
	if slices.Contains(payments, nil) {
		return invalid("receipt payments", "must not contain nil")
	}
	r.payments = slices.Clone(payments)
	return nil
}

// AddPayment appends a payment unless the receipt already holds 10.
func (r *ReceiptV3) AddPayment(p *Payment) error {
	if p == nil {
		return invalid("receipt payments", "must not be nil")
	}
	if err := paymentBounds.checkAdd("receipt payments", len(r.payments)); err != nil {
		return err
	}
	r.payments = append(r.payments, p)
	return nil
}

// Total returns the receipt total and whether it was set.
func (r *ReceiptV3) Total() (decimal.Decimal, bool) {
	if r.total == nil {
		return decimal.Zero, false
	}
	return *r.total, true
}

// SetTotal sets the receipt total.
func (r *ReceiptV3) SetTotal(total decimal.Decimal) error {
	if err := checkAmount("receipt total", total); err != nil {
		return err
	}
	r.total = &total
	return nil
}

// Serialize implements the wire form {attributes, items, payments, total}.
func (r *ReceiptV3) Serialize() (Fields, error) {
	req := requirements{entity: "receipt"}
	req.need(r.attributes != nil, "attributes")
	req.need(len(r.items) >= itemBounds.min, "items")
	req.need(len(r.payments) >= paymentBounds.min, "payments")
	req.need(r.total != nil, "total")

	var attributes Fields
	if r.attributes != nil {
		attributes = req.nested("attributes", r.attributes)
	}
	items := serializeAll(&req, "items", r.items)
	payments := serializeAll(&req, "payments", r.payments)
	if err := req.err(); err != nil {
		return nil, err
	}

	var f Fields
	f.set("attributes", attributes)
	f.set("items", items)
	f.set("payments", payments)
	f.set("total", money(*r.total))
	return f, nil
}

// CorrectionAttributes carries the tax rate and taxation system of a v3
// correction.
type CorrectionAttributes struct {
	sno TaxSystem
	tax VatType
}

// Sno returns the taxation system, "" when unset.
func (a *CorrectionAttributes) Sno() TaxSystem {
	return a.sno
}

// SetSno sets the taxation system.
func (a *CorrectionAttributes) SetSno(sno TaxSystem) error {
	if !sno.Valid() {
		return invalid("attributes sno", "unknown code %q", sno)
	}
	a.sno = sno
	return nil
}

// Tax returns the tax rate code.
func (a *CorrectionAttributes) Tax() VatType {
	return a.tax
}

// SetTax sets the tax rate code.
func (a *CorrectionAttributes) SetTax(t VatType) error {
	if !t.Valid() {
		return invalid("attributes tax", "unknown code %q", t)
	}
	a.tax = t
	return nil
}

// Serialize implements the wire form {tax, sno?}.
func (a *CorrectionAttributes) Serialize() (Fields, error) {
	r := requirements{entity: "attributes"}
	r.need(a.tax != "", "tax")
	if err := r.err(); err != nil {
		return nil, err
	}

	var f Fields
	f.set("tax", string(a.tax))
	if a.sno != "" {
		f.set("sno", string(a.sno))
	}
	return f, nil
}

// CorrectionV3 is the payload of correction documents sent to v3 endpoints.
type CorrectionV3 struct {
	attributes *CorrectionAttributes
	payments   []*Payment
}

// Attributes returns the tax attributes.
func (c *CorrectionV3) Attributes() *CorrectionAttributes {
	return c.attributes
}

// SetAttributes sets the tax attributes.
func (c *CorrectionV3) SetAttributes(a *CorrectionAttributes) {
	c.attributes = a
}

// Payments returns a copy of the payments.
func (c *CorrectionV3) Payments() []*Payment {
	return slices.Clone(c.payments)
}

// SetPayments replaces all payments; 1 to 10 are allowed.
func (c *CorrectionV3) SetPayments(payments ...*Payment) error {
	if err := paymentBounds.checkSet("correction payments", len(payments)); err != nil {
		return err
	}
	if slices.Contains(payments, nil) {
		return invalid("correction payments", "must not contain nil")
	}
	c.payments = slices.Clone(payments)
	return nil
}

// AddPayment appends a payment unless the correction already holds 10.
func (c *CorrectionV3) AddPayment(p *Payment) error {
	if p == nil {
		return invalid("correction payments", "must not be nil")
	}
	if err := paymentBounds.checkAdd("correction payments", len(c.payments)); err != nil {
		return err
	}
	c.payments = append(c.payments, p)
	return nil
}

// Serialize implements the wire form {attributes, payments}.
func (c *CorrectionV3) Serialize() (Fields, error) {
	req := requirements{entity: "correction"}
	req.need(c.attributes != nil, "attributes")
	req.need(len(c.payments) >= paymentBounds.min, "payments")

	var attributes Fields
	if c.attributes != nil {
		attributes = req.nested("attributes", c.attributes)
	}
	payments := serializeAll(&req, "payments", c.payments)
	if err := req.err(); err != nil {
		return nil, err
	}

	var f Fields
	f.set("attributes", attributes)
	f.set("payments", payments)
	return f, nil
}
