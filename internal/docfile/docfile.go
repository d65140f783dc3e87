// Package docfile reads fiscal document descriptions from YAML or JSON files.
// The file mirrors the request wire shape plus an operation key; values go
// through the fiscal setters so the model's validation applies unchanged.
// A receipt or correction with an attributes key is read as a v3 payload.
package docfile

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"3tcapital/atolonline/pkg/fiscal"
)

const (
	timestampLayout = "02.01.2006 15:04:05"
	dateLayout      = "02.01.2006"
)

// amount decodes a YAML number or string into a decimal without going
// through float64.
type amount struct {
	decimal.Decimal
}

func (a *amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a scalar", node.Line)
	}
	d, err := decimal.NewFromString(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid amount %q", node.Line, node.Value)
	}
	a.Decimal = d
	return nil
}

type documentFile struct {
	Operation  string          `yaml:"operation"`
	ExternalID string          `yaml:"external_id"`
	Timestamp  string          `yaml:"timestamp"`
	Service    *serviceFile    `yaml:"service"`
	Receipt    *receiptFile    `yaml:"receipt"`
	Correction *correctionFile `yaml:"correction"`
}

type serviceFile struct {
	CallbackURL    string `yaml:"callback_url"`
	Inn            string `yaml:"inn"`
	PaymentAddress string `yaml:"payment_address"`
}

type clientFile struct {
	Email string `yaml:"email"`
	Phone string `yaml:"phone"`
}

type companyFile struct {
	Email          string `yaml:"email"`
	Sno            string `yaml:"sno"`
	Inn            string `yaml:"inn"`
	PaymentAddress string `yaml:"payment_address"`
}

type vatFile struct {
	Type string  `yaml:"type"`
	Sum  *amount `yaml:"sum"`
}

type paymentFile struct {
	Type *int    `yaml:"type"`
	Sum  *amount `yaml:"sum"`
}

type supplierFile struct {
	Phones []string `yaml:"phones"`
	Name   string   `yaml:"name"`
	Inn    string   `yaml:"inn"`
}

type agentFile struct {
	Type        string `yaml:"type"`
	PayingAgent *struct {
		Operation string   `yaml:"operation"`
		Phones    []string `yaml:"phones"`
	} `yaml:"paying_agent"`
	ReceivePaymentsOperator *struct {
		Phones []string `yaml:"phones"`
	} `yaml:"receive_payments_operator"`
	MoneyTransferOperator *struct {
		Phones  []string `yaml:"phones"`
		Name    string   `yaml:"name"`
		Inn     string   `yaml:"inn"`
		Address string   `yaml:"address"`
	} `yaml:"money_transfer_operator"`
}

type itemFile struct {
	Name            string        `yaml:"name"`
	Price           *amount       `yaml:"price"`
	Quantity        *amount       `yaml:"quantity"`
	Sum             *amount       `yaml:"sum"`
	MeasurementUnit string        `yaml:"measurement_unit"`
	PaymentMethod   string        `yaml:"payment_method"`
	PaymentObject   string        `yaml:"payment_object"`
	Vat             *vatFile      `yaml:"vat"`
	AgentInfo       *agentFile    `yaml:"agent_info"`
	SupplierInfo    *supplierFile `yaml:"supplier_info"`
	UserData        string        `yaml:"user_data"`
	Tax             string        `yaml:"tax"`
	TaxSum          *amount       `yaml:"tax_sum"`
}

type attributesFile struct {
	Sno   string `yaml:"sno"`
	Email string `yaml:"email"`
	Phone string `yaml:"phone"`
	Tax   string `yaml:"tax"`
}

type receiptFile struct {
	Attributes          *attributesFile `yaml:"attributes"`
	Client              *clientFile    `yaml:"client"`
	Company             *companyFile   `yaml:"company"`
	AgentInfo           *agentFile     `yaml:"agent_info"`
	SupplierInfo        *supplierFile  `yaml:"supplier_info"`
	Items               []itemFile     `yaml:"items"`
	Payments            []paymentFile  `yaml:"payments"`
	Vats                []vatFile      `yaml:"vats"`
	Total               *amount        `yaml:"total"`
	Cashier             string         `yaml:"cashier"`
	AdditionalUserProps *userPropsFile `yaml:"additional_user_props"`
}

type userPropsFile struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

type correctionFile struct {
	Attributes     *attributesFile `yaml:"attributes"`
	Company        *companyFile  `yaml:"company"`
	CorrectionInfo *struct {
		Type       string `yaml:"type"`
		BaseDate   string `yaml:"base_date"`
		BaseNumber string `yaml:"base_number"`
		BaseName   string `yaml:"base_name"`
	} `yaml:"correction_info"`
	AgentInfo    *agentFile    `yaml:"agent_info"`
	SupplierInfo *supplierFile `yaml:"supplier_info"`
	Payments     []paymentFile `yaml:"payments"`
	Vats         []vatFile     `yaml:"vats"`
	Cashier      string        `yaml:"cashier"`
}

// Load reads and builds the document described in path.
func Load(path string) (*fiscal.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document file: %w", err)
	}

	doc, err := Parse(data, time.Now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse builds a document from YAML or JSON. now supplies the timestamp
// when the file has none.
func Parse(data []byte, now func() time.Time) (*fiscal.Document, error) {
	var f documentFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	kind, err := fiscal.ParseDocumentKind(f.Operation)
	if err != nil {
		return nil, err
	}
	doc, err := fiscal.NewDocument(kind)
	if err != nil {
		return nil, err
	}

	if f.ExternalID == "" {
		id, err := fiscal.NewExternalID()
		if err != nil {
			return nil, err
		}
		f.ExternalID = id
	}
	if err := doc.SetExternalID(f.ExternalID); err != nil {
		return nil, err
	}

	ts := now()
	if f.Timestamp != "" {
		ts, err = time.ParseInLocation(timestampLayout, f.Timestamp, time.Local)
		if err != nil {
			return nil, fmt.Errorf("timestamp: %w", err)
		}
	}
	doc.SetTimestamp(ts)

	if f.Service != nil {
		s := &fiscal.Service{}
		if err := first(
			optional(f.Service.CallbackURL, s.SetCallbackURL),
			optional(f.Service.Inn, s.SetInn),
			optional(f.Service.PaymentAddress, s.SetPaymentAddress),
		); err != nil {
			return nil, err
		}
		doc.SetService(s)
	}

	if kind.IsCorrection() {
		if f.Receipt != nil {
			return nil, fmt.Errorf("%s documents take a correction, not a receipt", kind)
		}
		if f.Correction != nil && f.Correction.Attributes != nil {
			c, err := buildCorrectionV3(f.Correction)
			if err != nil {
				return nil, fmt.Errorf("correction: %w", err)
			}
			if err := doc.SetCorrectionV3(c); err != nil {
				return nil, err
			}
		} else if f.Correction != nil {
			c, err := buildCorrection(f.Correction)
			if err != nil {
				return nil, fmt.Errorf("correction: %w", err)
			}
			if err := doc.SetCorrection(c); err != nil {
				return nil, err
			}
		}
		return doc, nil
	}

	if f.Correction != nil {
		return nil, fmt.Errorf("%s documents take a receipt, not a correction", kind)
	}
	if f.Receipt != nil && f.Receipt.Attributes != nil {
		r, err := buildReceiptV3(f.Receipt)
		if err != nil {
			return nil, fmt.Errorf("receipt: %w", err)
		}
		if err := doc.SetReceiptV3(r); err != nil {
			return nil, err
		}
	} else if f.Receipt != nil {
		r, err := buildReceipt(f.Receipt)
		if err != nil {
			return nil, fmt.Errorf("receipt: %w", err)
		}
		if err := doc.SetReceipt(r); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func buildReceipt(f *receiptFile) (*fiscal.Receipt, error) {
	r := &fiscal.Receipt{}

	if f.Client != nil {
		c := &fiscal.Client{}
		if err := first(
			optional(f.Client.Email, c.SetEmail),
			optional(f.Client.Phone, c.SetPhone),
		); err != nil {
			return nil, err
		}
		r.SetClient(c)
	}

	if f.Company != nil {
		c := &fiscal.Company{}
		if err := first(
			optional(f.Company.Email, c.SetEmail),
			applyCompany(&c.CorrectionCompany, f.Company),
		); err != nil {
			return nil, err
		}
		r.SetCompany(c)
	}

	if f.AgentInfo != nil {
		a, err := buildAgent(f.AgentInfo)
		if err != nil {
			return nil, err
		}
		r.SetAgentInfo(a)
	}
	if f.SupplierInfo != nil {
		s, err := buildSupplier(f.SupplierInfo)
		if err != nil {
			return nil, err
		}
		r.SetSupplierInfo(s)
	}

	for i := range f.Items {
		item, err := buildItem(&f.Items[i])
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		if err := r.AddItem(item); err != nil {
			return nil, err
		}
	}

	payments, err := buildPayments(f.Payments)
	if err != nil {
		return nil, err
	}
	vats, err := buildVats(f.Vats)
	if err != nil {
		return nil, err
	}
	if len(payments) > 0 {
		if err := r.SetPayments(payments...); err != nil {
			return nil, err
		}
	}
	if len(vats) > 0 {
		if err := r.SetVats(vats...); err != nil {
			return nil, err
		}
	}

	if f.Total != nil {
		if err := r.SetTotal(f.Total.Decimal); err != nil {
			return nil, err
		}
	}
	if err := optional(f.Cashier, r.SetCashier); err != nil {
		return nil, err
	}
	if p := f.AdditionalUserProps; p != nil {
		props, err := fiscal.NewAdditionalUserProps(p.Name, p.Value)
		if err != nil {
			return nil, err
		}
		r.SetAdditionalUserProps(props)
	}
	return r, nil
}

func buildCorrection(f *correctionFile) (*fiscal.Correction, error) {
	c := &fiscal.Correction{}

	if f.Company != nil {
		company := &fiscal.CorrectionCompany{}
		if err := applyCompany(company, f.Company); err != nil {
			return nil, err
		}
		c.SetCompany(company)
	}

	if ci := f.CorrectionInfo; ci != nil {
		info := &fiscal.CorrectionInfo{}
		if ci.Type != "" {
			if err := info.SetType(fiscal.CorrectionType(ci.Type)); err != nil {
				return nil, err
			}
		}
		if ci.BaseDate != "" {
			date, err := time.ParseInLocation(dateLayout, ci.BaseDate, time.Local)
			if err != nil {
				return nil, fmt.Errorf("base_date: %w", err)
			}
			info.SetBaseDate(date)
		}
		info.SetBaseNumber(ci.BaseNumber)
		info.SetBaseName(ci.BaseName)
		c.SetCorrectionInfo(info)
	}

	if f.AgentInfo != nil {
		a, err := buildAgent(f.AgentInfo)
		if err != nil {
			return nil, err
		}
		c.SetAgentInfo(a)
	}
	if f.SupplierInfo != nil {
		s, err := buildSupplier(f.SupplierInfo)
		if err != nil {
			return nil, err
		}
		c.SetSupplierInfo(s)
	}

	payments, err := buildPayments(f.Payments)
	if err != nil {
		return nil, err
	}
	vats, err := buildVats(f.Vats)
	if err != nil {
		return nil, err
	}
	if len(payments) > 0 {
		if err := c.SetPayments(payments...); err != nil {
			return nil, err
		}
	}
	if len(vats) > 0 {
		if err := c.SetVats(vats...); err != nil {
			return nil, err
		}
	}
	if err := optional(f.Cashier, c.SetCashier); err != nil {
		return nil, err
	}
	return c, nil
}

func buildReceiptV3(f *receiptFile) (*fiscal.ReceiptV3, error) {
	a := &fiscal.ReceiptAttributes{}
	var sno error
	if f.Attributes.Sno != "" {
		sno = a.SetSno(fiscal.TaxSystem(f.Attributes.Sno))
	}
	if err := first(
		sno,
		optional(f.Attributes.Email, a.SetEmail),
		optional(f.Attributes.Phone, a.SetPhone),
	); err != nil {
		return nil, err
	}

	r := &fiscal.ReceiptV3{}
	r.SetAttributes(a)

	for i := range f.Items {
		item, err := buildReceiptItem(&f.Items[i])
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		if err := r.AddItem(item); err != nil {
			return nil, err
		}
	}

	payments, err := buildPayments(f.Payments)
	if err != nil {
		return nil, err
	}
	if len(payments) > 0 {
		if err := r.SetPayments(payments...); err != nil {
			return nil, err
		}
	}
	if f.Total != nil {
		if err := r.SetTotal(f.Total.Decimal); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func buildReceiptItem(f *itemFile) (*fiscal.ReceiptItem, error) {
	item, err := fiscal.NewReceiptItem(f.Name)
	if err != nil {
		return nil, err
	}

	var tax error
	if f.Tax != "" {
		tax = item.SetTax(fiscal.VatType(f.Tax))
	}
	if err := first(
		tax,
		setAmount(f.Price, item.SetPrice),
		setAmount(f.Quantity, item.SetQuantity),
		setAmount(f.Sum, item.SetSum),
		setAmount(f.TaxSum, item.SetTaxSum),
	); err != nil {
		return nil, err
	}
	return item, nil
}

func buildCorrectionV3(f *correctionFile) (*fiscal.CorrectionV3, error) {
	a := &fiscal.CorrectionAttributes{}
	var sno, tax error
	if f.Attributes.Sno != "" {
		sno = a.SetSno(fiscal.TaxSystem(f.Attributes.Sno))
	}
	if f.Attributes.Tax != "" {
		tax = a.SetTax(fiscal.VatType(f.Attributes.Tax))
	}
	if err := first(sno, tax); err != nil {
		return nil, err
	}

	c := &fiscal.CorrectionV3{}
	c.SetAttributes(a)

	payments, err := buildPayments(f.Payments)
	if err != nil {
		return nil, err
	}
	if len(payments) > 0 {
		if err := c.SetPayments(payments...); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func applyCompany(c *fiscal.CorrectionCompany, f *companyFile) error {
	var sno error
	if f.Sno != "" {
		sno = c.SetSno(fiscal.TaxSystem(f.Sno))
	}
	return first(
		sno,
		optional(f.Inn, c.SetInn),
		optional(f.PaymentAddress, c.SetPaymentAddress),
	)
}

func buildItem(f *itemFile) (*fiscal.Item, error) {
	item, err := fiscal.NewItem(f.Name)
	if err != nil {
		return nil, err
	}

	if f.Price != nil {
		if err := item.SetPrice(f.Price.Decimal); err != nil {
			return nil, err
		}
	}
	if f.Quantity != nil {
		if err := item.SetQuantity(f.Quantity.Decimal); err != nil {
			return nil, err
		}
	}
	if f.Sum != nil {
		if err := item.SetSum(f.Sum.Decimal); err != nil {
			return nil, err
		}
	} else if f.Price != nil {
		if err := item.CalculateSum(); err != nil {
			return nil, err
		}
	}

	var method, object error
	if f.PaymentMethod != "" {
		method = item.SetPaymentMethod(fiscal.PaymentMethod(f.PaymentMethod))
	}
	if f.PaymentObject != "" {
		object = item.SetPaymentObject(fiscal.PaymentObject(f.PaymentObject))
	}
	if err := first(
		method,
		object,
		optional(f.MeasurementUnit, item.SetMeasurementUnit),
		optional(f.UserData, item.SetUserData),
	); err != nil {
		return nil, err
	}

	if f.Vat != nil {
		v, err := buildVat(f.Vat)
		if err != nil {
			return nil, err
		}
		item.SetVat(v)
	}
	if f.AgentInfo != nil {
		a, err := buildAgent(f.AgentInfo)
		if err != nil {
			return nil, err
		}
		item.SetAgentInfo(a)
	}
	if f.SupplierInfo != nil {
		s, err := buildSupplier(f.SupplierInfo)
		if err != nil {
			return nil, err
		}
		item.SetSupplierInfo(s)
	}
	return item, nil
}

func buildVat(f *vatFile) (*fiscal.Vat, error) {
	v, err := fiscal.NewVat(fiscal.VatType(f.Type))
	if err != nil {
		return nil, err
	}
	if f.Sum != nil {
		if err := v.SetSum(f.Sum.Decimal); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func buildVats(files []vatFile) ([]*fiscal.Vat, error) {
	vats := make([]*fiscal.Vat, 0, len(files))
	for i := range files {
		v, err := buildVat(&files[i])
		if err != nil {
			return nil, fmt.Errorf("vats[%d]: %w", i, err)
		}
		vats = append(vats, v)
	}
	return vats, nil
}

func buildPayments(files []paymentFile) ([]*fiscal.Payment, error) {
	payments := make([]*fiscal.Payment, 0, len(files))
	for i, f := range files {
		if f.Sum == nil {
			return nil, fmt.Errorf("payments[%d]: sum is required", i)
		}
		p, err := fiscal.NewPayment(f.Sum.Decimal)
		if err != nil {
			return nil, fmt.Errorf("payments[%d]: %w", i, err)
		}
		if f.Type != nil {
			if err := p.SetType(fiscal.PaymentType(*f.Type)); err != nil {
				return nil, fmt.Errorf("payments[%d]: %w", i, err)
			}
		}
		payments = append(payments, p)
	}
	return payments, nil
}

func buildSupplier(f *supplierFile) (*fiscal.SupplierInfo, error) {
	s := &fiscal.SupplierInfo{}
	s.SetPhones(f.Phones...)
	s.SetName(f.Name)
	if err := optional(f.Inn, s.SetInn); err != nil {
		return nil, err
	}
	return s, nil
}

func buildAgent(f *agentFile) (*fiscal.AgentInfo, error) {
	a := &fiscal.AgentInfo{}
	if f.Type != "" {
		if err := a.SetType(fiscal.AgentType(f.Type)); err != nil {
			return nil, err
		}
	}

	if pa := f.PayingAgent; pa != nil {
		p := &fiscal.PayingAgent{}
		if err := optional(pa.Operation, p.SetOperation); err != nil {
			return nil, err
		}
		p.SetPhones(pa.Phones...)
		a.SetPayingAgent(p)
	}
	if rpo := f.ReceivePaymentsOperator; rpo != nil {
		o := &fiscal.ReceivePaymentsOperator{}
		o.SetPhones(rpo.Phones...)
		a.SetReceivePaymentsOperator(o)
	}
	if mto := f.MoneyTransferOperator; mto != nil {
		o := &fiscal.MoneyTransferOperator{}
		o.SetPhones(mto.Phones...)
		o.SetName(mto.Name)
		o.SetAddress(mto.Address)
		if err := optional(mto.Inn, o.SetInn); err != nil {
			return nil, err
		}
		a.SetMoneyTransferOperator(o)
	}
	return a, nil
}

// optional calls set unless value is empty.
func optional(value string, set func(string) error) error {
	if value == "" {
		return nil
	}
	return set(value)
}

// setAmount calls set unless a is nil.
func setAmount(a *amount, set func(decimal.Decimal) error) error {
	if a == nil {
		return nil
	}
	return set(a.Decimal)
}

// first returns the first non-nil error.
func first(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// IsModelError reports whether err comes from document validation rather
// than from reading the file.
func IsModelError(err error) bool {
	return errors.Is(err, fiscal.ErrInvalidInput) || errors.Is(err, fiscal.ErrMissingRequiredField)
}
