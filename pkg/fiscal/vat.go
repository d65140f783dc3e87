package fiscal

import "github.com/shopspring/decimal"

// Vat declares one tax rate and, optionally, the tax amount.
type Vat struct {
	typ VatType
	sum *decimal.Decimal
}

// NewVat returns a declaration for rate t without an amount.
func NewVat(t VatType) (*Vat, error) {
	v := &Vat{}
	if err := v.SetType(t); err != nil {
		return nil, err
	}
	return v, nil
}

// Type returns the vat rate code.
func (v *Vat) Type() VatType {
	return v.typ
}

// SetType sets the vat rate code.
func (v *Vat) SetType(t VatType) error {
	if !t.Valid() {
		return invalid("vat type", "unknown code %q", t)
	}
	v.typ = t
	return nil
}

// Sum returns the tax amount and whether it was set.
func (v *Vat) Sum() (decimal.Decimal, bool) {
	if v.sum == nil {
		return decimal.Zero, false
	}
	return *v.sum, true
}

// SetSum sets the vat amount.
func (v *Vat) SetSum(sum decimal.Decimal) error {
	if err := checkAmount("vat sum", sum); err != nil {
		return err
	}
	v.sum = &sum
	return nil
}

// Serialize implements the wire form {type, sum?}.
func (v *Vat) Serialize() (Fields, error) {
	r := requirements{entity: "vat"}
	r.need(v.typ != "", "type")
	if err := r.err(); err != nil {
		return nil, err
	}

	var f Fields
	f.set("type", string(v.typ))
	if v.sum != nil {
		f.set("sum", money(*v.sum))
	}
	return f, nil
}
