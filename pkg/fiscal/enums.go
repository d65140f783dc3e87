package fiscal

// VatType is the tax rate code of a Vat declaration.
type VatType string

const (
	VatNone VatType = "none"
	Vat0    VatType = "vat0"
	Vat10   VatType = "vat10"
	Vat18   VatType = "vat18"
	Vat20   VatType = "vat20"
	// Vat110 is the calculated 10/110 rate.
	Vat110 VatType = "vat110"
	// Vat118 is the calculated 18/118 rate.
	Vat118 VatType = "vat118"
	// Vat120 is the calculated 20/120 rate.
	Vat120 VatType = "vat120"
)

// Valid reports whether t is a known rate code.
func (t VatType) Valid() bool {
	switch t {
	case VatNone, Vat0, Vat10, Vat18, Vat20, Vat110, Vat118, Vat120:
		return true
	default:
		return false
	}
}

// TaxSystem is the seller's taxation system (sno).
type TaxSystem string

const (
	// TaxSystemOSN is the general taxation system.
	TaxSystemOSN TaxSystem = "osn"
	// TaxSystemUSNIncome is the simplified system on income.
	TaxSystemUSNIncome TaxSystem = "usn_income"
	// TaxSystemUSNIncomeOutcome is the simplified system on income minus expenses.
	TaxSystemUSNIncomeOutcome TaxSystem = "usn_income_outcome"
	// TaxSystemENVD is the single tax on imputed income.
	TaxSystemENVD TaxSystem = "envd"
	// TaxSystemESN is the unified agricultural tax.
	TaxSystemESN TaxSystem = "esn"
	// TaxSystemPatent is the patent taxation system.
	TaxSystemPatent TaxSystem = "patent"
)

// Valid reports whether s is a known taxation system.
func (s TaxSystem) Valid() bool {
	switch s {
	case TaxSystemOSN, TaxSystemUSNIncome, TaxSystemUSNIncomeOutcome,
		TaxSystemENVD, TaxSystemESN, TaxSystemPatent:
		return true
	default:
		return false
	}
}

// PaymentMethod tells whether an item is prepaid, paid in full or on credit.
type PaymentMethod string

const (
	PaymentMethodFullPrepayment PaymentMethod = "full_prepayment"
	PaymentMethodPrepayment     PaymentMethod = "prepayment"
	PaymentMethodAdvance        PaymentMethod = "advance"
	PaymentMethodFullPayment    PaymentMethod = "full_payment"
	PaymentMethodPartialPayment PaymentMethod = "partial_payment"
	PaymentMethodCredit         PaymentMethod = "credit"
	PaymentMethodCreditPayment  PaymentMethod = "credit_payment"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodFullPrepayment, PaymentMethodPrepayment, PaymentMethodAdvance,
		PaymentMethodFullPayment, PaymentMethodPartialPayment, PaymentMethodCredit,
		PaymentMethodCreditPayment:
		return true
	default:
		return false
	}
}

// PaymentObject is what an item line sells.
type PaymentObject string

const (
	PaymentObjectCommodity            PaymentObject = "commodity"
	PaymentObjectExcise               PaymentObject = "excise"
	PaymentObjectJob                  PaymentObject = "job"
	PaymentObjectService              PaymentObject = "service"
	PaymentObjectGamblingBet          PaymentObject = "gambling_bet"
	PaymentObjectGamblingPrize        PaymentObject = "gambling_prize"
	PaymentObjectLottery              PaymentObject = "lottery"
	PaymentObjectLotteryPrize         PaymentObject = "lottery_prize"
	PaymentObjectIntellectualActivity PaymentObject = "intellectual_activity"
	PaymentObjectPayment              PaymentObject = "payment"
	PaymentObjectAgentCommission      PaymentObject = "agent_commission"
	PaymentObjectComposite            PaymentObject = "composite"
	PaymentObjectAnother              PaymentObject = "another"
	PaymentObjectPropertyRight        PaymentObject = "property_right"
	PaymentObjectNonOperatingGain     PaymentObject = "non-operating_gain"
	PaymentObjectInsurancePremium     PaymentObject = "insurance_premium"
	PaymentObjectSalesTax             PaymentObject = "sales_tax"
	PaymentObjectResortFee            PaymentObject = "resort_fee"
)

// Valid reports whether o is a known payment object.
func (o PaymentObject) Valid() bool {
	switch o {
	case PaymentObjectCommodity, PaymentObjectExcise, PaymentObjectJob, PaymentObjectService,
		PaymentObjectGamblingBet, PaymentObjectGamblingPrize, PaymentObjectLottery,
		PaymentObjectLotteryPrize, PaymentObjectIntellectualActivity, PaymentObjectPayment,
		PaymentObjectAgentCommission, PaymentObjectComposite, PaymentObjectAnother,
		PaymentObjectPropertyRight, PaymentObjectNonOperatingGain, PaymentObjectInsurancePremium,
		PaymentObjectSalesTax, PaymentObjectResortFee:
		return true
	default:
		return false
	}
}

// AgentType identifies the kind of intermediary in AgentInfo.
type AgentType string

const (
	AgentTypeBankPayingAgent    AgentType = "bank_paying_agent"
	AgentTypeBankPayingSubagent AgentType = "bank_paying_subagent"
	AgentTypePayingAgent        AgentType = "paying_agent"
	AgentTypePayingSubagent     AgentType = "paying_subagent"
	AgentTypeAttorney           AgentType = "attorney"
	AgentTypeCommissionAgent    AgentType = "commission_agent"
	AgentTypeAnother            AgentType = "another"
)

// Valid reports whether t is a known agent type.
func (t AgentType) Valid() bool {
	switch t {
	case AgentTypeBankPayingAgent, AgentTypeBankPayingSubagent, AgentTypePayingAgent,
		AgentTypePayingSubagent, AgentTypeAttorney, AgentTypeCommissionAgent, AgentTypeAnother:
		return true
	default:
		return false
	}
}

// CorrectionType says who initiated a correction.
type CorrectionType string

const (
	// CorrectionSelf is a correction made on the seller's own initiative.
	CorrectionSelf CorrectionType = "self"
	// CorrectionInstruction is a correction ordered by the tax authority.
	CorrectionInstruction CorrectionType = "instruction"
)

// Valid reports whether t is a known correction type.
func (t CorrectionType) Valid() bool {
	return t == CorrectionSelf || t == CorrectionInstruction
}

// PaymentType is the numeric code of a payment line.
type PaymentType int

const (
	PaymentCash       PaymentType = 0
	PaymentElectronic PaymentType = 1
	PaymentPrepaid    PaymentType = 2
	PaymentCredit     PaymentType = 3
	PaymentOther      PaymentType = 4
	// Codes 5 to 9 are extended payment types defined per register group.
	PaymentExtended5 PaymentType = 5
	PaymentExtended9 PaymentType = 9
)

// Valid reports whether t is within the range accepted by the service.
func (t PaymentType) Valid() bool {
	return t >= PaymentCash && t <= PaymentExtended9
}

// ReportStatus is the processing state of a submitted document.
type ReportStatus string

const (
	ReportDone ReportStatus = "done"
	ReportFail ReportStatus = "fail"
	ReportWait ReportStatus = "wait"
)

// Valid reports whether s is a known status.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportDone, ReportFail, ReportWait:
		return true
	default:
		return false
	}
}

// ReportErrorType classifies a report error.
type ReportErrorType string

const (
	ReportErrorSystem  ReportErrorType = "system"
	ReportErrorDriver  ReportErrorType = "driver"
	ReportErrorTimeout ReportErrorType = "timeout"
)
