package fiscal

import "github.com/shopspring/decimal"

// Payment is one payment line of a receipt or correction.
type Payment struct {
	typ *PaymentType
	sum *decimal.Decimal
}

// NewPayment returns an electronic payment of sum.
func NewPayment(sum decimal.Decimal) (*Payment, error) {
	p := &Payment{}
	if err := p.SetSum(sum); err != nil {
		return nil, err
	}
	return p, nil
}

// Type returns the payment code, electronic when unset.
func (p *Payment) Type() PaymentType {
	if p.typ == nil {
		return PaymentElectronic
	}
	return *p.typ
}

// SetType sets the payment code.
func (p *Payment) SetType(t PaymentType) error {
	if !t.Valid() {
		return invalid("payment type", "code %d is outside 0..9", int(t))
	}
	p.typ = &t
	return nil
}

// Sum returns the paid amount and whether it was set.
func (p *Payment) Sum() (decimal.Decimal, bool) {
	if p.sum == nil {
		return decimal.Zero, false
	}
	return *p.sum, true
}

// SetSum sets the paid amount.
func (p *Payment) SetSum(sum decimal.Decimal) error {
	if err := checkAmount("payment sum", sum); err != nil {
		return err
	}
	p.sum = &sum
	return nil
}

// Serialize implements the wire form {type, sum}.
func (p *Payment) Serialize() (Fields, error) {
	r := requirements{entity: "payment"}
	r.need(p.sum != nil, "sum")
	if err := r.err(); err != nil {
		return nil, err
	}

	var f Fields
	f.set("type", int(p.Type()))
	f.set("sum", money(*p.sum))
	return f, nil
}
