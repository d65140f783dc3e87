package fiscal

import (
	"slices"

	"github.com/shopspring/decimal"
)

type bounds struct {
	min, max int
}

var (
	itemBounds          = bounds{min: 1, max: 100}
	paymentBounds       = bounds{min: 1, max: 10}
	receiptVatBounds    = bounds{min: 0, max: 6}
	correctionVatBounds = bounds{min: 1, max: 6}
)

// checkSet validates the size of a whole replacement collection.
func (b bounds) checkSet(field string, n int) error {
	if n < b.min || n > b.max {
		return invalid(field, "count %d is outside %d..%d", n, b.min, b.max)
	}
	return nil
}

// checkAdd validates one more element on top of n existing ones.
func (b bounds) checkAdd(field string, n int) error {
	if n >= b.max {
		return invalid(field, "at most %d allowed", b.max)
	}
	return nil
}

// Receipt is the payload of sell, refund and buy documents.
type Receipt struct {
	client              *Client
	company             *Company
	agentInfo           *AgentInfo
	supplierInfo        *SupplierInfo
	items               []*Item
	payments            []*Payment
	vats                []*Vat
	total               *decimal.Decimal
	cashier             string
	additionalUserProps *AdditionalUserProps
}

// Client returns the buyer, nil when unset.
func (r *Receipt) Client() *Client {
	return r.client
}

// SetClient sets the buyer.
func (r *Receipt) SetClient(c *Client) {
	r.client = c
}

// Company returns the seller, nil when unset.
func (r *Receipt) Company() *Company {
	return r.company
}

// SetCompany sets the seller.
func (r *Receipt) SetCompany(c *Company) {
	r.company = c
}

// AgentInfo returns the agent info, nil when unset.
func (r *Receipt) AgentInfo() *AgentInfo {
	return r.agentInfo
}

// SetAgentInfo sets the agent info.
func (r *Receipt) SetAgentInfo(a *AgentInfo) {
	r.agentInfo = a
}

// SupplierInfo returns the supplier info, nil when unset.
func (r *Receipt) SupplierInfo() *SupplierInfo {
	return r.supplierInfo
}

// SetSupplierInfo sets the supplier info.
func (r *Receipt) SetSupplierInfo(s *SupplierInfo) {
	r.supplierInfo = s
}

// Items returns a copy of the lines.
func (r *Receipt) Items() []*Item {
	return slices.Clone(r.items)
}

// SetItems replaces all lines; 1 to 100 are allowed.
func (r *Receipt) SetItems(items ...*Item) error {
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
func (r *Receipt) AddItem(item *Item) error {
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
func (r *Receipt) Payments() []*Payment {
	return slices.Clone(r.payments)
}

// SetPayments replaces all payments; 1 to 10 are allowed.
func (r *Receipt) SetPayments(payments ...*Payment) error {
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
func (r *Receipt) AddPayment(p *Payment) error {
	if p == nil {
		return invalid("receipt payments", "must not be nil")
	}
	if err := paymentBounds.checkAdd("receipt payments", len(r.payments)); err != nil {
		return err
	}
	r.payments = append(r.payments, p)
	return nil
}

// Vats returns a copy of the receipt vats.
func (r *Receipt) Vats() []*Vat {
	return slices.Clone(r.vats)
}

// SetVats replaces the receipt-level taxes; at most 6 are allowed.
func (r *Receipt) SetVats(vats ...*Vat) error {
	if err := receiptVatBounds.checkSet("receipt vats", len(vats)); err != nil {
		return err
	}
	if slices.Contains(vats, nil) {
		return invalid("receipt vats", "must not contain nil")
	}
	r.vats = slices.Clone(vats)
	return nil
}

// AddVat appends a vat unless the receipt already holds 6.
func (r *Receipt) AddVat(v *Vat) error {
	if v == nil {
		return invalid("receipt vats", "must not be nil")
	}
	if err := receiptVatBounds.checkAdd("receipt vats", len(r.vats)); err != nil {
		return err
	}
	r.vats = append(r.vats, v)
	return nil
}

// Total returns the receipt total and whether it was set.
func (r *Receipt) Total() (decimal.Decimal, bool) {
	if r.total == nil {
		return decimal.Zero, false
	}
	return *r.total, true
}

// SetTotal sets the receipt total.
func (r *Receipt) SetTotal(total decimal.Decimal) error {
	if err := checkAmount("receipt total", total); err != nil {
		return err
	}
	r.total = &total
	return nil
}

// Cashier returns the cashier name.
func (r *Receipt) Cashier() string {
	return r.cashier
}

// SetCashier sets the cashier name, at most 64 characters.
func (r *Receipt) SetCashier(name string) error {
	if err := checkLength("receipt cashier", name, 64); err != nil {
		return err
	}
	r.cashier = name
	return nil
}

// AdditionalUserProps returns the extra property, nil when unset.
func (r *Receipt) AdditionalUserProps() *AdditionalUserProps {
	return r.additionalUserProps
}

// SetAdditionalUserProps sets the extra property.
func (r *Receipt) SetAdditionalUserProps(p *AdditionalUserProps) {
	r.additionalUserProps = p
}

// Serialize implements the wire form of a receipt.
func (r *Receipt) Serialize() (Fields, error) {
	req := requirements{entity: "receipt"}
	req.need(r.client != nil, "client")
	req.need(r.company != nil, "company")
	req.need(len(r.items) >= itemBounds.min, "items")
	req.need(len(r.payments) >= paymentBounds.min, "payments")
	req.need(r.total != nil, "total")
	requireAgentPair(&req, r.agentInfo != nil, r.supplierInfo != nil)

	var client, company, agent, supplier, props Fields
	if r.client != nil {
		client = req.nested("client", r.client)
	}
	if r.company != nil {
		company = req.nested("company", r.company)
	}
	if r.agentInfo != nil {
		agent = req.nested("agent_info", r.agentInfo)
	}
	if r.supplierInfo != nil {
		supplier = req.nested("supplier_info", r.supplierInfo)
	}
	items := serializeAll(&req, "items", r.items)
	payments := serializeAll(&req, "payments", r.payments)
	vats := serializeAll(&req, "vats", r.vats)
	if r.additionalUserProps != nil {
		props = req.nested("additional_user_props", r.additionalUserProps)
	}
	if err := req.err(); err != nil {
		return nil, err
	}

	var f Fields
	f.set("client", client)
	f.set("company", company)
	if r.agentInfo != nil {
		f.set("agent_info", agent)
	}
	if r.supplierInfo != nil {
		f.set("supplier_info", supplier)
	}
	f.set("items", items)
	f.set("payments", payments)
	if len(vats) > 0 {
		f.set("vats", vats)
	}
	f.set("total", money(*r.total))
	if r.cashier != "" {
		f.set("cashier", r.cashier)
	}
	if r.additionalUserProps != nil {
		f.set("additional_user_props", props)
	}
	return f, nil
}
