package fiscal

import (
	"slices"
	"time"
)

// CorrectionInfo names the reason and the base document of a correction.
type CorrectionInfo struct {
	typ        CorrectionType
	baseDate   time.Time
	baseNumber string
	baseName   string
}

// Type returns the correction type.
func (c *CorrectionInfo) Type() CorrectionType {
	return c.typ
}

// SetType sets the correction type.
func (c *CorrectionInfo) SetType(t CorrectionType) error {
	if !t.Valid() {
		return invalid("correction type", "unknown code %q", t)
	}
	c.typ = t
	return nil
}

// BaseDate returns the date of the correction basis document.
func (c *CorrectionInfo) BaseDate() time.Time {
	return c.baseDate
}

// SetBaseDate sets the date of the base document; only the day is sent.
func (c *CorrectionInfo) SetBaseDate(date time.Time) {
	c.baseDate = date
}

// BaseNumber returns the number of the correction basis document.
func (c *CorrectionInfo) BaseNumber() string {
	return c.baseNumber
}

// SetBaseNumber sets the number of the correction basis document.
func (c *CorrectionInfo) SetBaseNumber(number string) {
	c.baseNumber = number
}

// BaseName returns the name of the correction basis document.
func (c *CorrectionInfo) BaseName() string {
	return c.baseName
}

// SetBaseName sets the name of the correction basis document.
func (c *CorrectionInfo) SetBaseName(name string) {
	c.baseName = name
}

// Serialize returns the correction info wire fields.
func (c *CorrectionInfo) Serialize() (Fields, error) {
	r := requirements{entity: "correction_info"}
	r.need(c.typ != "", "type")
	r.need(!c.baseDate.IsZero(), "base_date")
	r.need(c.baseNumber != "", "base_number")
	r.need(c.baseName != "", "base_name")
	if err := r.err(); err != nil {
		return nil, err
	}

	var f Fields
	f.set("type", string(c.typ))
	f.set("base_date", c.baseDate.Format(dateLayout))
	f.set("base_number", c.baseNumber)
	f.set("base_name", c.baseName)
	return f, nil
}

// Correction is the payload of sell_correction and buy_correction documents.
type Correction struct {
	company        *CorrectionCompany
	correctionInfo *CorrectionInfo
	agentInfo      *AgentInfo
	supplierInfo   *SupplierInfo
	payments       []*Payment
	vats           []*Vat
	cashier        string
}

// Company returns the seller, nil when unset.
func (c *Correction) Company() *CorrectionCompany {
	return c.company
}

// SetCompany sets the seller.
func (c *Correction) SetCompany(company *CorrectionCompany) {
	c.company = company
}

// CorrectionInfo returns the correction basis, nil when unset.
func (c *Correction) CorrectionInfo() *CorrectionInfo {
	return c.correctionInfo
}

// SetCorrectionInfo sets the correction basis.
func (c *Correction) SetCorrectionInfo(info *CorrectionInfo) {
	c.correctionInfo = info
}

// AgentInfo returns the agent info, nil when unset.
func (c *Correction) AgentInfo() *AgentInfo {
	return c.agentInfo
}

// SetAgentInfo sets the agent info.
func (c *Correction) SetAgentInfo(a *AgentInfo) {
	c.agentInfo = a
}

// SupplierInfo returns the supplier info, nil when unset.
func (c *Correction) SupplierInfo() *SupplierInfo {
	return c.supplierInfo
}

// SetSupplierInfo sets the supplier info.
func (c *Correction) SetSupplierInfo(s *SupplierInfo) {
	c.supplierInfo = s
}

// Payments returns a copy of the payments.
func (c *Correction) Payments() []*Payment {
	return slices.Clone(c.payments)
}

// SetPayments replaces all payments; 1 to 10 are allowed.
func (c *Correction) SetPayments(payments ...*Payment) error {
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
func (c *Correction) AddPayment(p *Payment) error {
	if p == nil {
		return invalid("correction payments", "must not be nil")
	}
	if err := paymentBounds.checkAdd("correction payments", len(c.payments)); err != nil {
		return err
	}
	c.payments = append(c.payments, p)
	return nil
}

// Vats returns a copy of the vats.
func (c *Correction) Vats() []*Vat {
	return slices.Clone(c.vats)
}

// SetVats replaces all taxes; 1 to 6 are allowed.
func (c *Correction) SetVats(vats ...*Vat) error {
	if err := correctionVatBounds.checkSet("correction vats", len(vats)); err != nil {
		return err
	}
	if slices.Contains(vats, nil) {
		return invalid("correction vats", "must not contain nil")
	}
	c.vats = slices.Clone(vats)
	return nil
}

// AddVat appends a vat unless the correction already holds 6.
func (c *Correction) AddVat(v *Vat) error {
	if v == nil {
		return invalid("correction vats", "must not be nil")
	}
	if err := correctionVatBounds.checkAdd("correction vats", len(c.vats)); err != nil {
		return err
	}
	c.vats = append(c.vats, v)
	return nil
}

// Cashier returns the cashier name.
func (c *Correction) Cashier() string {
	return c.cashier
}

// SetCashier sets the cashier name, at most 64 characters.
func (c *Correction) SetCashier(name string) error {
	if err := checkLength("correction cashier", name, 64); err != nil {
		return err
	}
	c.cashier = name
	return nil
}

// Serialize implements the wire form of a correction.
func (c *Correction) Serialize() (Fields, error) {
	r := requirements{entity: "correction"}
	r.need(c.company != nil, "company")
	r.need(c.correctionInfo != nil, "correction_info")
	r.need(len(c.payments) >= paymentBounds.min, "payments")
	r.need(len(c.vats) >= correctionVatBounds.min, "vats")
	requireAgentPair(&r, c.agentInfo != nil, c.supplierInfo != nil)

	var company, info, agent, supplier Fields
	if c.company != nil {
		company = r.nested("company", c.company)
	}
	if c.correctionInfo != nil {
		info = r.nested("correction_info", c.correctionInfo)
	}
	if c.agentInfo != nil {
		agent = r.nested("agent_info", c.agentInfo)
	}
	if c.supplierInfo != nil {
		supplier = r.nested("supplier_info", c.supplierInfo)
	}
	payments := serializeAll(&r, "payments", c.payments)
	vats := serializeAll(&r, "vats", c.vats)
	if err := r.err(); err != nil {
		return nil, err
	}

	var f Fields
	f.set("company", company)
	f.set("correction_info", info)
	if c.agentInfo != nil {
		f.set("agent_info", agent)
	}
	if c.supplierInfo != nil {
		f.set("supplier_info", supplier)
	}
	f.set("payments", payments)
	f.set("vats", vats)
	if c.cashier != "" {
		f.set("cashier", c.cashier)
	}
	return f, nil
}
