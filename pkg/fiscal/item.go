package fiscal

import "github.com/shopspring/decimal"

// Item is one line of a receipt.
type Item struct {
	name            string
	price           *decimal.Decimal
	quantity        *decimal.Decimal
	sum             *decimal.Decimal
	measurementUnit string
	paymentMethod   PaymentMethod
	paymentObject   PaymentObject
	vat             *Vat
	agentInfo       *AgentInfo
	supplierInfo    *SupplierInfo
	userData        string
}

// NewItem returns a line named name with quantity 1.
func NewItem(name string) (*Item, error) {
	i := &Item{}
	if err := i.SetName(name); err != nil {
		return nil, err
	}
	return i, nil
}

// Name returns the line name.
func (i *Item) Name() string {
	return i.name
}

// SetName sets the line name, at most 128 characters.
func (i *Item) SetName(name string) error {
	if err := checkLength("item name", name, 128); err != nil {
		return err
	}
	i.name = name
	return nil
}

// Price returns the unit price and whether it was set.
func (i *Item) Price() (decimal.Decimal, bool) {
	if i.price == nil {
		return decimal.Zero, false
	}
	return *i.price, true
}

// SetPrice sets the unit price.
func (i *Item) SetPrice(price decimal.Decimal) error {
	if err := checkAmount("item price", price); err != nil {
		return err
	}
	i.price = &price
	return nil
}

// Quantity returns the quantity, 1 when it was never set.
func (i *Item) Quantity() decimal.Decimal {
	if i.quantity == nil {
		return decimal.NewFromInt(1)
	}
	return *i.quantity
}

// SetQuantity sets the quantity.
func (i *Item) SetQuantity(q decimal.Decimal) error {
	if err := checkAmount("item quantity", q); err != nil {
		return err
	}
	i.quantity = &q
	return nil
}

// Sum returns the line total and whether it was set.
func (i *Item) Sum() (decimal.Decimal, bool) {
	if i.sum == nil {
		return decimal.Zero, false
	}
	return *i.sum, true
}

// SetSum sets the line total.
func (i *Item) SetSum(sum decimal.Decimal) error {
	if err := checkAmount("item sum", sum); err != nil {
		return err
	}
	i.sum = &sum
	return nil
}

// CalculateSum sets the line total to price times quantity.
func (i *Item) CalculateSum() error {
	if i.price == nil {
		return invalid("item sum", "price is not set")
	}
	return i.SetSum(i.price.Mul(i.Quantity()).Round(2))
}

// MeasurementUnit returns the unit of measure.
func (i *Item) MeasurementUnit() string {
	return i.measurementUnit
}

// SetMeasurementUnit sets the unit of measure, at most 16 characters.
func (i *Item) SetMeasurementUnit(unit string) error {
	if err := checkLength("item measurement unit", unit, 16); err != nil {
		return err
	}
	i.measurementUnit = unit
	return nil
}

// PaymentMethod returns the payment method, "" when unset.
func (i *Item) PaymentMethod() PaymentMethod {
	return i.paymentMethod
}

// SetPaymentMethod sets the payment method.
func (i *Item) SetPaymentMethod(m PaymentMethod) error {
	if !m.Valid() {
		return invalid("item payment method", "unknown code %q", m)
	}
	i.paymentMethod = m
	return nil
}

// PaymentObject returns the payment object, "" when unset.
func (i *Item) PaymentObject() PaymentObject {
	return i.paymentObject
}

// SetPaymentObject sets the payment object.
func (i *Item) SetPaymentObject(o PaymentObject) error {
	if !o.Valid() {
		return invalid("item payment object", "unknown code %q", o)
	}
	i.paymentObject = o
	return nil
}

// Vat returns the line vat, nil when unset.
func (i *Item) Vat() *Vat {
	return i.vat
}

// SetVat sets the line vat.
func (i *Item) SetVat(v *Vat) {
	i.vat = v
}

// AgentInfo returns the agent info, nil when unset.
func (i *Item) AgentInfo() *AgentInfo {
	return i.agentInfo
}

// SetAgentInfo sets the agent info.
func (i *Item) SetAgentInfo(a *AgentInfo) {
	i.agentInfo = a
}

// SupplierInfo returns the supplier info, nil when unset.
func (i *Item) SupplierInfo() *SupplierInfo {
	return i.supplierInfo
}

// SetSupplierInfo sets the supplier info.
func (i *Item) SetSupplierInfo(s *SupplierInfo) {
	i.supplierInfo = s
}

// UserData returns the free-form line data.
func (i *Item) UserData() string {
	return i.userData
}

// SetUserData sets the free-form line data, at most 64 characters.
func (i *Item) SetUserData(data string) error {
	if err := checkLength("item user data", data, 64); err != nil {
		return err
	}
	i.userData = data
	return nil
}

// Serialize implements the wire form of a receipt line. Agent and supplier
// info must be set together.
func (i *Item) Serialize() (Fields, error) {
	r := requirements{entity: "item"}
	r.need(i.name != "", "name")
	r.need(i.price != nil, "price")
	r.need(i.sum != nil, "sum")
	r.need(i.vat != nil, "vat")
	r.need(i.paymentMethod != "", "payment_method")
	r.need(i.paymentObject != "", "payment_object")
	requireAgentPair(&r, i.agentInfo != nil, i.supplierInfo != nil)

	var vat, agent, supplier Fields
	if i.vat != nil {
		vat = r.nested("vat", i.vat)
	}
	if i.agentInfo != nil {
		agent = r.nested("agent_info", i.agentInfo)
	}
	if i.supplierInfo != nil {
		supplier = r.nested("supplier_info", i.supplierInfo)
	}
	if err := r.err(); err != nil {
		return nil, err
	}

	var f Fields
	f.set("name", i.name)
	f.set("price", money(*i.price))
	f.set("quantity", quantity(i.Quantity()))
	f.set("sum", money(*i.sum))
	f.set("vat", vat)
	f.set("payment_method", string(i.paymentMethod))
	f.set("payment_object", string(i.paymentObject))
	if i.measurementUnit != "" {
		f.set("measurement_unit", i.measurementUnit)
	}
	if i.agentInfo != nil {
		f.set("agent_info", agent)
	}
	if i.supplierInfo != nil {
		f.set("supplier_info", supplier)
	}
	if i.userData != "" {
		f.set("user_data", i.userData)
	}
	return f, nil
}

func requireAgentPair(r *requirements, hasAgent, hasSupplier bool) {
	if hasAgent && !hasSupplier {
		r.need(false, "supplier_info")
	}
	if hasSupplier && !hasAgent {
		r.need(false, "agent_info")
	}
}
