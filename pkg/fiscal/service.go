package fiscal

// Service carries delivery metadata of a document. The inn and payment
// address fields are only read by v3 endpoints.
type Service struct {
	callbackURL    string
	inn            string
	paymentAddress string
}

// CallbackURL returns the report callback url.
func (s *Service) CallbackURL() string {
	return s.callbackURL
}

// SetCallbackURL sets the URL the service posts the report to.
func (s *Service) SetCallbackURL(url string) error {
	if err := checkLength("service callback url", url, 256); err != nil {
		return err
	}
	s.callbackURL = url
	return nil
}

// Inn returns the seller INN.
func (s *Service) Inn() string {
	return s.inn
}

// SetInn sets the seller INN.
func (s *Service) SetInn(inn string) error {
	if err := checkInn("service inn", inn); err != nil {
		return err
	}
	s.inn = inn
	return nil
}

// PaymentAddress returns the settlement address.
func (s *Service) PaymentAddress() string {
	return s.paymentAddress
}

// SetPaymentAddress sets the settlement address, at most 256 characters.
func (s *Service) SetPaymentAddress(address string) error {
	if err := checkLength("service payment address", address, 256); err != nil {
		return err
	}
	s.paymentAddress = address
	return nil
}

// Serialize returns the service wire fields, omitting unset ones.
func (s *Service) Serialize() (Fields, error) {
	var f Fields
	if s.callbackURL != "" {
		f.set("callback_url", s.callbackURL)
	}
	if s.inn != "" {
		f.set("inn", s.inn)
	}
	if s.paymentAddress != "" {
		f.set("payment_address", s.paymentAddress)
	}
	return f, nil
}
