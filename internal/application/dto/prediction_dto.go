// Package dto provides data transfer objects for the application layer.
package dto

import (
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"

	"github.com/turtacn/loanrisk/internal/domain/models"
)

// ClientRecordRequest is the bound form / JSON body of a client record.
// Numeric fields are pointers so an absent field fails `required` while an
// explicit 0 passes. Binding rules mirror the field catalogue; NewClientRecord
// stays the authority.
type ClientRecordRequest struct {
	LoanNumber            *int     `form:"loannumber" json:"loannumber" binding:"required,min=0"`
	LoanAmount            *float64 `form:"loanamount" json:"loanamount" binding:"required,min=0"`
	TermDays              *int     `form:"termdays" json:"termdays" binding:"required,min=0"`
	MonthlyPayment        *float64 `form:"monthly_payment" json:"monthly_payment" binding:"required,min=0"`
	DebtToIncomeRatio     *float64 `form:"debt_to_income_ratio" json:"debt_to_income_ratio" binding:"required,min=0"`
	LoanToIncomeRatio     *float64 `form:"loan_to_income_ratio" json:"loan_to_income_ratio" binding:"required,min=0"`
	ApprovalLagDays       *int     `form:"approval_lag_days" json:"approval_lag_days" binding:"required,min=0"`
	FirstPaymentDelayDays *int     `form:"first_payment_delay_days" json:"first_payment_delay_days" binding:"required,min=0"`
	PastDueDays           *int     `form:"past_due_days" json:"past_due_days" binding:"required,min=0"`
	LoanAgeDays           *int     `form:"loan_age_days" json:"loan_age_days" binding:"required,min=0"`
	EarlyPaymentFlag      *int     `form:"early_payment_flag" json:"early_payment_flag" binding:"required,oneof=0 1"`
	CreditScore           *int     `form:"credit_score" json:"credit_score" binding:"required,min=0"`
	Age                   *int     `form:"age" json:"age" binding:"required,min=18,max=100"`
	BankAccountType       string   `form:"bank_account_type" json:"bank_account_type" binding:"required"`
	BankName              string   `form:"bank_name_clients" json:"bank_name_clients" binding:"required"`
	EmploymentStatus      string   `form:"employment_status_clients" json:"employment_status_clients" binding:"required"`
}

// NewClientRecordRequest builds a request carrying every field of a copy of record.
func NewClientRecordRequest(record models.ClientRecord) *ClientRecordRequest {
	return &ClientRecordRequest{
		LoanNumber:            &record.LoanNumber,
		LoanAmount:            &record.LoanAmount,
		TermDays:              &record.TermDays,
		MonthlyPayment:        &record.MonthlyPayment,
		DebtToIncomeRatio:     &record.DebtToIncomeRatio,
		LoanToIncomeRatio:     &record.LoanToIncomeRatio,
		ApprovalLagDays:       &record.ApprovalLagDays,
		FirstPaymentDelayDays: &record.FirstPaymentDelayDays,
		PastDueDays:           &record.PastDueDays,
		LoanAgeDays:           &record.LoanAgeDays,
		EarlyPaymentFlag:      &record.EarlyPaymentFlag,
		CreditScore:           &record.CreditScore,
		Age:                   &record.Age,
		BankAccountType:       string(record.BankAccountType),
		BankName:              string(record.BankName),
		EmploymentStatus:      string(record.EmploymentStatus),
	}
}

// ToInput converts the request into unchecked record input. Absent numbers
// read as zero; run binding first so they are rejected.
func (r *ClientRecordRequest) ToInput() models.ClientRecordInput {
	return models.ClientRecordInput{
		LoanNumber:            deref(r.LoanNumber),
		LoanAmount:            deref(r.LoanAmount),
		TermDays:              deref(r.TermDays),
		MonthlyPayment:        deref(r.MonthlyPayment),
		DebtToIncomeRatio:     deref(r.DebtToIncomeRatio),
		LoanToIncomeRatio:     deref(r.LoanToIncomeRatio),
		ApprovalLagDays:       deref(r.ApprovalLagDays),
		FirstPaymentDelayDays: deref(r.FirstPaymentDelayDays),
		PastDueDays:           deref(r.PastDueDays),
		LoanAgeDays:           deref(r.LoanAgeDays),
		EarlyPaymentFlag:      deref(r.EarlyPaymentFlag),
		CreditScore:           deref(r.CreditScore),
		Age:                   deref(r.Age),
		BankAccountType:       strings.TrimSpace(r.BankAccountType),
		BankName:              strings.TrimSpace(r.BankName),
		EmploymentStatus:      strings.TrimSpace(r.EmploymentStatus),
	}
}

func deref[T int | float64](v *T) T {
	if v == nil {
		return 0
	}
	return *v
}

// Validate applies the binding rules to a request that was decoded outside
// gin, e.g. read from a file.
func (r *ClientRecordRequest) Validate() error {
	if err := binding.Validator.ValidateStruct(r); err != nil {
		return BindingError(err)
	}
	return nil
}

// ToRecord converts and validates the request.
func (r *ClientRecordRequest) ToRecord() (*models.ClientRecord, error) {
	return models.NewClientRecord(r.ToInput())
}

// requestFieldNames maps Go field names of ClientRecordRequest to record field names.
var requestFieldNames = func() map[string]string {
	t := reflect.TypeOf(ClientRecordRequest{})
	out := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		out[f.Name] = f.Tag.Get("json")
	}
	return out
}()

// PredictionResponse is the JSON body of a successful prediction.
type PredictionResponse struct {
	Label                int                         `json:"label"`
	LabelText            string                      `json:"label_text"`
	ProbabilityOfDefault float64                     `json:"probability_of_default"`
	ProbabilityDisplay   string                      `json:"probability_display"`
	Distribution         []models.OutcomeProbability `json:"distribution"`
	ModelVersion         string                      `json:"model_version"`
	ScoredAt             time.Time                   `json:"scored_at"`
	Record               *models.ClientRecord        `json:"record"`
}

// NewPredictionResponse assembles the response for record and its result.
func NewPredictionResponse(record *models.ClientRecord, res *models.PredictionResult) *PredictionResponse {
	return &PredictionResponse{
		Label:                res.Label,
		LabelText:            res.LabelText(),
		ProbabilityOfDefault: res.ProbabilityOfDefault,
		ProbabilityDisplay:   res.ProbabilityDisplay(),
		Distribution:         res.Distribution(),
		ModelVersion:         res.ModelVersion,
		ScoredAt:             res.ScoredAt,
		Record:               record,
	}
}

// FieldsResponse lists the record field catalogue.
type FieldsResponse struct {
	Fields []models.FieldDefinition `json:"fields"`
}
