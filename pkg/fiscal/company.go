package fiscal

// CorrectionCompany identifies the seller on a correction.
type CorrectionCompany struct {
	inn            string
	sno            TaxSystem
	paymentAddress string
}

// Inn returns the seller INN.
func (c *CorrectionCompany) Inn() string {
	return c.inn
}

// SetInn sets the taxpayer id, which is 10 characters for companies and 12
// for individual entrepreneurs.
func (c *CorrectionCompany) SetInn(inn string) error {
	if err := checkInn("company inn", inn); err != nil {
		return err
	}
	c.inn = inn
	return nil
}

// Sno returns the taxation system, "" when unset.
func (c *CorrectionCompany) Sno() TaxSystem {
	return c.sno
}

// SetSno sets the taxation system.
func (c *CorrectionCompany) SetSno(sno TaxSystem) error {
	if !sno.Valid() {
		return invalid("company sno", "unknown code %q", sno)
	}
	c.sno = sno
	return nil
}

// PaymentAddress returns the settlement address.
func (c *CorrectionCompany) PaymentAddress() string {
	return c.paymentAddress
}

// SetPaymentAddress sets the settlement address, at most 256 characters.
func (c *CorrectionCompany) SetPaymentAddress(address string) error {
	if err := checkLength("company payment address", address, 256); err != nil {
		return err
	}
	c.paymentAddress = address
	return nil
}

// Serialize returns the correction company wire fields.
func (c *CorrectionCompany) Serialize() (Fields, error) {
	r := requirements{entity: "company"}
	c.require(&r)
	if err := r.err(); err != nil {
		return nil, err
	}

	var f Fields
	c.write(&f)
	return f, nil
}

func (c *CorrectionCompany) require(r *requirements) {
	r.need(c.inn != "", "inn")
	r.need(c.paymentAddress != "", "payment_address")
}

func (c *CorrectionCompany) write(f *Fields) {
	if c.sno != "" {
		f.set("sno", string(c.sno))
	}
	f.set("inn", c.inn)
	f.set("payment_address", c.paymentAddress)
}

// Company identifies the seller on a receipt. Unlike CorrectionCompany it
// requires an email.
type Company struct {
	CorrectionCompany
	email string
}

// Email returns the seller email.
func (c *Company) Email() string {
	return c.email
}

// SetEmail sets the seller email, at most 64 characters.
func (c *Company) SetEmail(email string) error {
	if err := checkLength("company email", email, 64); err != nil {
		return err
	}
	c.email = email
	return nil
}

// Serialize returns the company wire fields.
func (c *Company) Serialize() (Fields, error) {
	r := requirements{entity: "company"}
	r.need(c.email != "", "email")
	c.require(&r)
	if err := r.err(); err != nil {
		return nil, err
	}

	var f Fields
	f.set("email", c.email)
	c.write(&f)
	return f, nil
}
