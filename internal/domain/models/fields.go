package models

// FieldKind describes how a record field is entered and encoded.
type FieldKind string

const (
	FieldInteger FieldKind = "integer"
	FieldDecimal FieldKind = "decimal"
	FieldFlag    FieldKind = "flag"
	FieldEnum    FieldKind = "enum"
)

// Field names, shared by the form, the JSON API and the model artifact.
const (
	FieldLoanNumber            = "loannumber"
	FieldLoanAmount            = "loanamount"
	FieldTermDays              = "termdays"
	FieldMonthlyPayment        = "monthly_payment"
	FieldDebtToIncomeRatio     = "debt_to_income_ratio"
	FieldLoanToIncomeRatio     = "loan_to_income_ratio"
	FieldApprovalLagDays       = "approval_lag_days"
	FieldFirstPaymentDelayDays = "first_payment_delay_days"
	FieldPastDueDays           = "past_due_days"
	FieldLoanAgeDays           = "loan_age_days"
	FieldEarlyPaymentFlag      = "early_payment_flag"
	FieldCreditScore           = "credit_score"
	FieldAge                   = "age"
	FieldBankAccountType       = "bank_account_type"
	FieldBankName              = "bank_name_clients"
	FieldEmploymentStatus      = "employment_status_clients"
)

const (
	MinAge = 18
	MaxAge = 100
)

// FieldDefinition is the widget contract of one record field.
type FieldDefinition struct {
	Name    string    `json:"name"`
	Label   string    `json:"label"`
	Kind    FieldKind `json:"kind"`
	Min     *float64  `json:"min,omitempty"`
	Max     *float64  `json:"max,omitempty"`
	Step    float64   `json:"step,omitempty"`
	Options []string  `json:"options,omitempty"`
	Group   string    `json:"group"`
}

// IsNumeric is true for every kind the classifier receives as a number.
func (d FieldDefinition) IsNumeric() bool {
	return d.Kind != FieldEnum
}

func bound(v float64) *float64 { return &v }

func enumOptions[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// Fields returns the catalogue of the sixteen record fields in form order.
func Fields() []FieldDefinition {
	const numeric, categorical = "Numeric Features", "Categorical Features"
	return []FieldDefinition{
		{Name: FieldLoanNumber, Label: "Loan Number", Kind: FieldInteger, Min: bound(0), Step: 1, Group: numeric},
		{Name: FieldLoanAmount, Label: "Loan Amount", Kind: FieldDecimal, Min: bound(0), Step: 100, Group: numeric},
		{Name: FieldTermDays, Label: "Loan Term (days)", Kind: FieldInteger, Min: bound(0), Step: 1, Group: numeric},
		{Name: FieldMonthlyPayment, Label: "Monthly Payment", Kind: FieldDecimal, Min: bound(0), Step: 10, Group: numeric},
		{Name: FieldDebtToIncomeRatio, Label: "Debt-to-Income Ratio", Kind: FieldDecimal, Min: bound(0), Step: 0.01, Group: numeric},
		{Name: FieldLoanToIncomeRatio, Label: "Loan-to-Income Ratio", Kind: FieldDecimal, Min: bound(0), Step: 0.01, Group: numeric},
		{Name: FieldApprovalLagDays, Label: "Approval Lag (days)", Kind: FieldInteger, Min: bound(0), Step: 1, Group: numeric},
		{Name: FieldFirstPaymentDelayDays, Label: "First Payment Delay (days)", Kind: FieldInteger, Min: bound(0), Step: 1, Group: numeric},
		{Name: FieldPastDueDays, Label: "Past Due Days", Kind: FieldInteger, Min: bound(0), Step: 1, Group: numeric},
		{Name: FieldLoanAgeDays, Label: "Loan Age (days)", Kind: FieldInteger, Min: bound(0), Step: 1, Group: numeric},
		{Name: FieldEarlyPaymentFlag, Label: "Early Payment Flag", Kind: FieldFlag, Min: bound(0), Max: bound(1), Step: 1, Options: []string{"0", "1"}, Group: numeric},
		{Name: FieldCreditScore, Label: "Credit Score", Kind: FieldInteger, Min: bound(0), Step: 1, Group: numeric},
		{Name: FieldAge, Label: "Age", Kind: FieldInteger, Min: bound(MinAge), Max: bound(MaxAge), Step: 1, Group: numeric},
		{Name: FieldBankAccountType, Label: "Bank Account Type", Kind: FieldEnum, Options: enumOptions(bankAccountTypes), Group: categorical},
		{Name: FieldBankName, Label: "Bank Name", Kind: FieldEnum, Options: enumOptions(bankNames), Group: categorical},
		{Name: FieldEmploymentStatus, Label: "Employment Status", Kind: FieldEnum, Options: enumOptions(employmentStatuses), Group: categorical},
	}
}

// FieldNames returns the record field names in form order.
func FieldNames() []string {
	defs := Fields()
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return names
}

// LookupField finds a field definition by name.
func LookupField(name string) (FieldDefinition, bool) {
	for _, d := range Fields() {
		if d.Name == name {
			return d, true
		}
	}
	return FieldDefinition{}, false
}
