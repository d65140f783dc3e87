package fiscal

import "slices"

// PayingAgent describes a paying agent taking part in the sale.
type PayingAgent struct {
	operation string
	phones    []string
}

// Operation returns the paying agent operation name.
func (a *PayingAgent) Operation() string {
	return a.operation
}

// SetOperation sets the operation name, at most 24 characters.
func (a *PayingAgent) SetOperation(operation string) error {
	if err := checkLength("paying agent operation", operation, 24); err != nil {
		return err
	}
	a.operation = operation
	return nil
}

// Phones returns the paying agent phones.
func (a *PayingAgent) Phones() []string {
	return slices.Clone(a.phones)
}

// SetPhones replaces the paying agent phones.
func (a *PayingAgent) SetPhones(phones ...string) {
	a.phones = slices.Clone(phones)
}

// Serialize returns the paying agent wire fields.
func (a *PayingAgent) Serialize() (Fields, error) {
	var f Fields
	if a.operation != "" {
		f.set("operation", a.operation)
	}
	if len(a.phones) > 0 {
		f.set("phones", slices.Clone(a.phones))
	}
	return f, nil
}

// ReceivePaymentsOperator describes the operator accepting payments.
type ReceivePaymentsOperator struct {
	phones []string
}

// Phones returns the operator phones.
func (o *ReceivePaymentsOperator) Phones() []string {
	return slices.Clone(o.phones)
}

// SetPhones replaces the operator phones.
func (o *ReceivePaymentsOperator) SetPhones(phones ...string) {
	o.phones = slices.Clone(phones)
}

// Serialize returns the operator wire fields.
func (o *ReceivePaymentsOperator) Serialize() (Fields, error) {
	var f Fields
	if len(o.phones) > 0 {
		f.set("phones", slices.Clone(o.phones))
	}
	return f, nil
}

// MoneyTransferOperator describes the operator transferring the money.
type MoneyTransferOperator struct {
	phones  []string
	name    string
	inn     string
	address string
}

// Phones returns the operator phones.
func (o *MoneyTransferOperator) Phones() []string {
	return slices.Clone(o.phones)
}

// SetPhones replaces the operator phones.
func (o *MoneyTransferOperator) SetPhones(phones ...string) {
	o.phones = slices.Clone(phones)
}

// Name returns the operator name.
func (o *MoneyTransferOperator) Name() string {
	return o.name
}

// SetName sets the operator name.
func (o *MoneyTransferOperator) SetName(name string) {
	o.name = name
}

// Inn returns the operator INN.
func (o *MoneyTransferOperator) Inn() string {
	return o.inn
}

// SetInn sets the operator INN.
func (o *MoneyTransferOperator) SetInn(inn string) error {
	if err := checkInn("money transfer operator inn", inn); err != nil {
		return err
	}
	o.inn = inn
	return nil
}

// Address returns the operator address.
func (o *MoneyTransferOperator) Address() string {
	return o.address
}

// SetAddress sets the operator address.
func (o *MoneyTransferOperator) SetAddress(address string) {
	o.address = address
}

// Serialize returns the operator wire fields.
func (o *MoneyTransferOperator) Serialize() (Fields, error) {
	var f Fields
	if len(o.phones) > 0 {
		f.set("phones", slices.Clone(o.phones))
	}
	if o.name != "" {
		f.set("name", o.name)
	}
	if o.inn != "" {
		f.set("inn", o.inn)
	}
	if o.address != "" {
		f.set("address", o.address)
	}
	return f, nil
}

// SupplierInfo identifies the supplier when an agent sells on its behalf.
type SupplierInfo struct {
	phones []string
	name   string
	inn    string
}

// Phones returns the supplier phones.
func (s *SupplierInfo) Phones() []string {
	return slices.Clone(s.phones)
}

// SetPhones replaces the supplier phones.
func (s *SupplierInfo) SetPhones(phones ...string) {
	s.phones = slices.Clone(phones)
}

// Name returns the supplier name.
func (s *SupplierInfo) Name() string {
	return s.name
}

// SetName sets the supplier name.
func (s *SupplierInfo) SetName(name string) {
	s.name = name
}

// Inn returns the supplier INN.
func (s *SupplierInfo) Inn() string {
	return s.inn
}

// SetInn sets the supplier INN.
func (s *SupplierInfo) SetInn(inn string) error {
	if err := checkInn("supplier inn", inn); err != nil {
		return err
	}
	s.inn = inn
	return nil
}

// Serialize returns the supplier wire fields.
func (s *SupplierInfo) Serialize() (Fields, error) {
	var f Fields
	if len(s.phones) > 0 {
		f.set("phones", slices.Clone(s.phones))
	}
	if s.name != "" {
		f.set("name", s.name)
	}
	if s.inn != "" {
		f.set("inn", s.inn)
	}
	return f, nil
}

// AgentInfo attributes a receipt or an item to an intermediary. Every part is
// optional and only the parts that were set are serialized.
type AgentInfo struct {
	typ                     AgentType
	payingAgent             *PayingAgent
	receivePaymentsOperator *ReceivePaymentsOperator
	moneyTransferOperator   *MoneyTransferOperator
}

// Type returns the agent type, "" when unset.
func (a *AgentInfo) Type() AgentType {
	return a.typ
}

// SetType sets the agent type.
func (a *AgentInfo) SetType(t AgentType) error {
	if !t.Valid() {
		return invalid("agent type", "unknown code %q", t)
	}
	a.typ = t
	return nil
}

// PayingAgent returns the paying agent, nil when unset.
func (a *AgentInfo) PayingAgent() *PayingAgent {
	return a.payingAgent
}

// SetPayingAgent sets the paying agent.
func (a *AgentInfo) SetPayingAgent(p *PayingAgent) {
	a.payingAgent = p
}

// ReceivePaymentsOperator returns the receiving operator, nil when unset.
func (a *AgentInfo) ReceivePaymentsOperator() *ReceivePaymentsOperator {
	return a.receivePaymentsOperator
}

// SetReceivePaymentsOperator sets the receiving operator.
func (a *AgentInfo) SetReceivePaymentsOperator(o *ReceivePaymentsOperator) {
	a.receivePaymentsOperator = o
}

// MoneyTransferOperator returns the transfer operator, nil when unset.
func (a *AgentInfo) MoneyTransferOperator() *MoneyTransferOperator {
	return a.moneyTransferOperator
}

// SetMoneyTransferOperator sets the transfer operator.
func (a *AgentInfo) SetMoneyTransferOperator(o *MoneyTransferOperator) {
	a.moneyTransferOperator = o
}

// Serialize returns the agent wire fields.
func (a *AgentInfo) Serialize() (Fields, error) {
	r := requirements{entity: "agent_info"}

	var f Fields
	if a.typ != "" {
		f.set("type", string(a.typ))
	}
	if a.payingAgent != nil {
		f.set("paying_agent", r.nested("paying_agent", a.payingAgent))
	}
	if a.receivePaymentsOperator != nil {
		f.set("receive_payments_operator", r.nested("receive_payments_operator", a.receivePaymentsOperator))
	}
	if a.moneyTransferOperator != nil {
		f.set("money_transfer_operator", r.nested("money_transfer_operator", a.moneyTransferOperator))
	}

	if err := r.err(); err != nil {
		return nil, err
	}
	return f, nil
}
