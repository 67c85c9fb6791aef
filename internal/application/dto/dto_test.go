package dto

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/loanrisk/internal/domain/models"
	"github.com/turtacn/loanrisk/pkg/constants"
	"github.com/turtacn/loanrisk/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func validForm() url.Values {
	return url.Values{
		"loannumber":                {"2"},
		"loanamount":                {"15000"},
		"termdays":                  {"30"},
		"monthly_payment":           {"1200"},
		"debt_to_income_ratio":      {"0.35"},
		"loan_to_income_ratio":      {"1.2"},
		"approval_lag_days":         {"2"},
		"first_payment_delay_days":  {"15"},
		"past_due_days":             {"0"},
		"loan_age_days":             {"180"},
		"early_payment_flag":        {"1"},
		"credit_score":              {"650"},
		"age":                       {"35"},
		"bank_account_type":         {"Savings"},
		"bank_name_clients":         {"GT Bank"},
		"employment_status_clients": {"Permanent"},
	}
}

func bindForm(t *testing.T, form url.Values) (*ClientRecordRequest, error) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	var req ClientRecordRequest
	err := c.ShouldBind(&req)
	return &req, err
}

func TestClientRecordRequest_FormBinding(t *testing.T) {
	req, err := bindForm(t, validForm())
	require.NoError(t, err)

	rec, err := req.ToRecord()
	require.NoError(t, err)
	assert.Equal(t, 15000.0, rec.LoanAmount)
	assert.Equal(t, 35, rec.Age)
	assert.Equal(t, models.BankGT, rec.BankName)
	assert.Equal(t, models.EmploymentPermanent, rec.EmploymentStatus)
}

func TestBindingError_RuleViolations(t *testing.T) {
	tests := []struct {
		field  string
		value  string
		reason string
	}{
		{models.FieldAge, "17", "must be between 18 and 100"},
		{models.FieldAge, "101", "must be between 18 and 100"},
		{models.FieldLoanAmount, "-1", "must be at least 0"},
		{models.FieldEarlyPaymentFlag, "2", "must be between 0 and 1"},
		{models.FieldBankName, "", "is required"},
	}
	for _, tt := range tests {
		t.Run(tt.field+"="+tt.value, func(t *testing.T) {
			form := validForm()
			form.Set(tt.field, tt.value)
			_, err := bindForm(t, form)
			require.Error(t, err)

			var verrs models.ValidationErrors
			require.ErrorAs(t, BindingError(err), &verrs)
			assert.Equal(t, tt.reason, verrs.ByField()[tt.field])
		})
	}
}

func TestClientRecordRequest_JSONRequiresEveryField(t *testing.T) {
	full := `{"loannumber":0,"loanamount":0,"termdays":0,"monthly_payment":0,
		"debt_to_income_ratio":0,"loan_to_income_ratio":0,"approval_lag_days":0,
		"first_payment_delay_days":0,"past_due_days":0,"loan_age_days":0,
		"early_payment_flag":0,"credit_score":0,"age":18,
		"bank_account_type":"Current","bank_name_clients":"Access Bank",
		"employment_status_clients":"Contract"}`

	var req ClientRecordRequest
	require.NoError(t, json.Unmarshal([]byte(full), &req))
	require.NoError(t, req.Validate(), "explicit zeros are valid values")

	partial := `{"age":35,"bank_account_type":"Savings","bank_name_clients":"GT Bank","employment_status_clients":"Permanent"}`
	req = ClientRecordRequest{}
	require.NoError(t, json.Unmarshal([]byte(partial), &req))

	var verrs models.ValidationErrors
	require.ErrorAs(t, req.Validate(), &verrs)
	byField := verrs.ByField()
	for _, name := range []string{models.FieldLoanNumber, models.FieldLoanAmount, models.FieldCreditScore, models.FieldEarlyPaymentFlag} {
		assert.Equal(t, "is required", byField[name], name)
	}
	assert.NotContains(t, byField, models.FieldAge)
}

func TestBindingError_Undecodable(t *testing.T) {
	form := validForm()
	form.Set(models.FieldAge, "thirty")
	_, err := bindForm(t, form)
	require.Error(t, err)
	assert.True(t, errors.HasCode(BindingError(err), constants.ErrCodeInvalidRequest))
}

func TestSendError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", models.ValidationErrors{{Field: "age", Reason: "must be between 18 and 100"}}, http.StatusUnprocessableEntity, "validation_failed"},
		{"malformed output", errors.ErrMalformedClassifierOutput("3 probabilities"), http.StatusInternalServerError, "malformed_classifier_output"},
		{"unavailable", errors.ErrClassifierUnavailable("model:9000"), http.StatusServiceUnavailable, "classifier_unavailable"},
		{"plain error", assert.AnError, http.StatusInternalServerError, "server_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			SendError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.NotContains(t, w.Body.String(), assert.AnError.Error())
		})
	}
}

func TestNewPredictionResponse(t *testing.T) {
	rec := models.DefaultClientRecord()
	res := &models.PredictionResult{Label: 1, ProbabilityOfDefault: 0.7, ModelVersion: "v1"}

	resp := NewPredictionResponse(rec, res)
	assert.Equal(t, "Default", resp.LabelText)
	assert.Equal(t, "70.00%", resp.ProbabilityDisplay)
	require.Len(t, resp.Distribution, 2)
	assert.InDelta(t, 0.3, resp.Distribution[0].Probability, 1e-12)

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(resp))
	assert.Contains(t, buf.String(), `"bank_name_clients":"Access Bank"`)
}
