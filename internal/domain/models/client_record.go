package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ClientRecord is the fixed-schema description of one loan applicant and loan.
// Build it with NewClientRecord; a constructed record always satisfies the
// field constraints of Fields(). Records are values and never mutated.
type ClientRecord struct {
	LoanNumber            int              `json:"loannumber"`
	LoanAmount            float64          `json:"loanamount"`
	TermDays              int              `json:"termdays"`
	MonthlyPayment        float64          `json:"monthly_payment"`
	DebtToIncomeRatio     float64          `json:"debt_to_income_ratio"`
	LoanToIncomeRatio     float64          `json:"loan_to_income_ratio"`
	ApprovalLagDays       int              `json:"approval_lag_days"`
	FirstPaymentDelayDays int              `json:"first_payment_delay_days"`
	PastDueDays           int              `json:"past_due_days"`
	LoanAgeDays           int              `json:"loan_age_days"`
	EarlyPaymentFlag      int              `json:"early_payment_flag"`
	CreditScore           int              `json:"credit_score"`
	Age                   int              `json:"age"`
	BankAccountType       BankAccountType  `json:"bank_account_type"`
	BankName              BankName         `json:"bank_name_clients"`
	EmploymentStatus      EmploymentStatus `json:"employment_status_clients"`
}

// ClientRecordInput carries raw, unchecked field values.
type ClientRecordInput struct {
	LoanNumber            int
	LoanAmount            float64
	TermDays              int
	MonthlyPayment        float64
	DebtToIncomeRatio     float64
	LoanToIncomeRatio     float64
	ApprovalLagDays       int
	FirstPaymentDelayDays int
	PastDueDays           int
	LoanAgeDays           int
	EarlyPaymentFlag      int
	CreditScore           int
	Age                   int
	BankAccountType       string
	BankName              string
	EmploymentStatus      string
}

// FieldError names one violated field constraint.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationErrors collects every field error found while building a record.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Field + ": " + fe.Reason
	}
	return "invalid client record: " + strings.Join(parts, "; ")
}

// ByField indexes the errors by field name, first reason wins.
func (v ValidationErrors) ByField() map[string]string {
	out := make(map[string]string, len(v))
	for _, fe := range v {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Reason
		}
	}
	return out
}

// NewClientRecord checks every field of in against its declared constraint.
// No cross-field consistency is checked.
func NewClientRecord(in ClientRecordInput) (*ClientRecord, error) {
	var errs ValidationErrors

	rec := &ClientRecord{
		LoanNumber:            in.LoanNumber,
		LoanAmount:            in.LoanAmount,
		TermDays:              in.TermDays,
		MonthlyPayment:        in.MonthlyPayment,
		DebtToIncomeRatio:     in.DebtToIncomeRatio,
		LoanToIncomeRatio:     in.LoanToIncomeRatio,
		ApprovalLagDays:       in.ApprovalLagDays,
		FirstPaymentDelayDays: in.FirstPaymentDelayDays,
		PastDueDays:           in.PastDueDays,
		LoanAgeDays:           in.LoanAgeDays,
		EarlyPaymentFlag:      in.EarlyPaymentFlag,
		CreditScore:           in.CreditScore,
		Age:                   in.Age,
	}

	var err error
	if rec.BankAccountType, err = ParseBankAccountType(in.BankAccountType); err != nil {
		errs = append(errs, FieldError{Field: FieldBankAccountType, Reason: "must be one of " + strings.Join(enumOptions(bankAccountTypes), ", ")})
	}
	if rec.BankName, err = ParseBankName(in.BankName); err != nil {
		errs = append(errs, FieldError{Field: FieldBankName, Reason: "must be one of the listed banks"})
	}
	if rec.EmploymentStatus, err = ParseEmploymentStatus(in.EmploymentStatus); err != nil {
		errs = append(errs, FieldError{Field: FieldEmploymentStatus, Reason: "must be one of " + strings.Join(enumOptions(employmentStatuses), ", ")})
	}

	for _, def := range Fields() {
		if !def.IsNumeric() {
			continue
		}
		v, _ := rec.Number(def.Name)
		if reason := checkNumber(def, v); reason != "" {
			errs = append(errs, FieldError{Field: def.Name, Reason: reason})
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return rec, nil
}

func checkNumber(def FieldDefinition, v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "must be a finite number"
	}
	if def.Min != nil && v < *def.Min {
		if def.Max != nil {
			return fmt.Sprintf("must be between %s and %s", formatBound(*def.Min), formatBound(*def.Max))
		}
		return fmt.Sprintf("must be at least %s", formatBound(*def.Min))
	}
	if def.Max != nil && v > *def.Max {
		if def.Min != nil {
			return fmt.Sprintf("must be between %s and %s", formatBound(*def.Min), formatBound(*def.Max))
		}
		return fmt.Sprintf("must be at most %s", formatBound(*def.Max))
	}
	return ""
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// DefaultClientRecord mirrors the initial widget values: every numeric at its
// minimum and each enumeration at its first option.
func DefaultClientRecord() *ClientRecord {
	return &ClientRecord{
		Age:              MinAge,
		BankAccountType:  bankAccountTypes[0],
		BankName:         bankNames[0],
		EmploymentStatus: employmentStatuses[0],
	}
}

// Input converts the record back into raw form values.
func (r *ClientRecord) Input() ClientRecordInput {
	return ClientRecordInput{
		LoanNumber:            r.LoanNumber,
		LoanAmount:            r.LoanAmount,
		TermDays:              r.TermDays,
		MonthlyPayment:        r.MonthlyPayment,
		DebtToIncomeRatio:     r.DebtToIncomeRatio,
		LoanToIncomeRatio:     r.LoanToIncomeRatio,
		ApprovalLagDays:       r.ApprovalLagDays,
		FirstPaymentDelayDays: r.FirstPaymentDelayDays,
		PastDueDays:           r.PastDueDays,
		LoanAgeDays:           r.LoanAgeDays,
		EarlyPaymentFlag:      r.EarlyPaymentFlag,
		CreditScore:           r.CreditScore,
		Age:                   r.Age,
		BankAccountType:       string(r.BankAccountType),
		BankName:              string(r.BankName),
		EmploymentStatus:      string(r.EmploymentStatus),
	}
}

// Number returns a numeric field by name.
func (r *ClientRecord) Number(name string) (float64, bool) {
	switch name {
	case FieldLoanNumber:
		return float64(r.LoanNumber), true
	case FieldLoanAmount:
		return r.LoanAmount, true
	case FieldTermDays:
		return float64(r.TermDays), true
	case FieldMonthlyPayment:
		return r.MonthlyPayment, true
	case FieldDebtToIncomeRatio:
		return r.DebtToIncomeRatio, true
	case FieldLoanToIncomeRatio:
		return r.LoanToIncomeRatio, true
	case FieldApprovalLagDays:
		return float64(r.ApprovalLagDays), true
	case FieldFirstPaymentDelayDays:
		return float64(r.FirstPaymentDelayDays), true
	case FieldPastDueDays:
		return float64(r.PastDueDays), true
	case FieldLoanAgeDays:
		return float64(r.LoanAgeDays), true
	case FieldEarlyPaymentFlag:
		return float64(r.EarlyPaymentFlag), true
	case FieldCreditScore:
		return float64(r.CreditScore), true
	case FieldAge:
		return float64(r.Age), true
	}
	return 0, false
}

// Category returns a categorical field by name.
func (r *ClientRecord) Category(name string) (string, bool) {
	switch name {
	case FieldBankAccountType:
		return string(r.BankAccountType), true
	case FieldBankName:
		return string(r.BankName), true
	case FieldEmploymentStatus:
		return string(r.EmploymentStatus), true
	}
	return "", false
}

// FieldValue is one row of the client summary table.
type FieldValue struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Summary lists every field as a label/value row in form order.
func (r *ClientRecord) Summary() []FieldValue {
	defs := Fields()
	rows := make([]FieldValue, 0, len(defs))
	for _, def := range defs {
		rows = append(rows, FieldValue{Name: def.Name, Label: def.Label, Value: r.Display(def.Name)})
	}
	return rows
}

// Display renders a single field value the way the form shows it.
func (r *ClientRecord) Display(name string) string {
	if s, ok := r.Category(name); ok {
		return s
	}
	def, ok := LookupField(name)
	if !ok {
		return ""
	}
	v, _ := r.Number(name)
	if def.Kind == FieldDecimal {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return strconv.FormatFloat(v, 'f', 0, 64)
}
