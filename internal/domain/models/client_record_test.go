package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioInput() ClientRecordInput {
	return ClientRecordInput{
		LoanNumber:            1,
		LoanAmount:            5000,
		TermDays:              30,
		MonthlyPayment:        500,
		DebtToIncomeRatio:     0.2,
		LoanToIncomeRatio:     0.15,
		ApprovalLagDays:       2,
		FirstPaymentDelayDays: 0,
		PastDueDays:           0,
		LoanAgeDays:           30,
		EarlyPaymentFlag:      1,
		CreditScore:           650,
		Age:                   35,
		BankAccountType:       "Savings",
		BankName:              "GT Bank",
		EmploymentStatus:      "Permanent",
	}
}

func TestNewClientRecord_Scenario(t *testing.T) {
	rec, err := NewClientRecord(scenarioInput())
	require.NoError(t, err)

	assert.Equal(t, 5000.0, rec.LoanAmount)
	assert.Equal(t, BankAccountSavings, rec.BankAccountType)
	assert.Equal(t, BankGT, rec.BankName)
	assert.Equal(t, EmploymentPermanent, rec.EmploymentStatus)
	assert.Equal(t, scenarioInput(), rec.Input())
}

func TestNewClientRecord_AgeBoundaries(t *testing.T) {
	tests := []struct {
		age int
		ok  bool
	}{
		{17, false},
		{18, true},
		{35, true},
		{100, true},
		{101, false},
	}
	for _, tt := range tests {
		in := scenarioInput()
		in.Age = tt.age
		_, err := NewClientRecord(in)
		if tt.ok {
			assert.NoError(t, err, "age %d", tt.age)
			continue
		}
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs, "age %d", tt.age)
		assert.Equal(t, "must be between 18 and 100", verrs.ByField()[FieldAge])
	}
}

func TestNewClientRecord_RejectsNegativeNumerics(t *testing.T) {
	in := scenarioInput()
	in.LoanAmount = -1
	in.PastDueDays = -3
	in.DebtToIncomeRatio = math.NaN()

	_, err := NewClientRecord(in)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)

	byField := verrs.ByField()
	assert.Equal(t, "must be at least 0", byField[FieldLoanAmount])
	assert.Equal(t, "must be at least 0", byField[FieldPastDueDays])
	assert.Equal(t, "must be a finite number", byField[FieldDebtToIncomeRatio])
}

func TestNewClientRecord_EarlyPaymentFlag(t *testing.T) {
	for _, flag := range []int{0, 1} {
		in := scenarioInput()
		in.EarlyPaymentFlag = flag
		_, err := NewClientRecord(in)
		assert.NoError(t, err)
	}

	in := scenarioInput()
	in.EarlyPaymentFlag = 2
	_, err := NewClientRecord(in)
	assert.Error(t, err)
}

func TestNewClientRecord_EnumerationClosure(t *testing.T) {
	in := scenarioInput()
	in.BankAccountType = "Checking"
	in.BankName = "gt bank"
	in.EmploymentStatus = ""

	_, err := NewClientRecord(in)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)

	byField := verrs.ByField()
	assert.Contains(t, byField, FieldBankAccountType)
	assert.Contains(t, byField, FieldBankName)
	assert.Contains(t, byField, FieldEmploymentStatus)
}

func TestEnumerations(t *testing.T) {
	assert.Len(t, BankAccountTypes(), 3)
	assert.Len(t, BankNames(), 18)
	assert.Len(t, EmploymentStatuses(), 7)

	for _, v := range BankNames() {
		parsed, err := ParseBankName(string(v))
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
	}

	// callers cannot widen the closed set through the returned slice
	names := BankNames()
	names[0] = "Fake Bank"
	_, err := ParseBankName("Fake Bank")
	assert.Error(t, err)
}

func TestFieldCatalogue(t *testing.T) {
	defs := Fields()
	require.Len(t, defs, 16)
	assert.Equal(t, FieldLoanNumber, defs[0].Name)
	assert.Equal(t, FieldEmploymentStatus, defs[len(defs)-1].Name)

	age, ok := LookupField(FieldAge)
	require.True(t, ok)
	assert.Equal(t, 18.0, *age.Min)
	assert.Equal(t, 100.0, *age.Max)

	bank, ok := LookupField(FieldBankName)
	require.True(t, ok)
	assert.Equal(t, FieldEnum, bank.Kind)
	assert.Len(t, bank.Options, 18)
}

func TestDefaultClientRecord_IsValid(t *testing.T) {
	def := DefaultClientRecord()
	rec, err := NewClientRecord(def.Input())
	require.NoError(t, err)
	assert.Equal(t, 18, rec.Age)
	assert.Equal(t, BankAccountCurrent, rec.BankAccountType)
	assert.Equal(t, BankAccess, rec.BankName)
	assert.Equal(t, EmploymentContract, rec.EmploymentStatus)
}

func TestClientRecord_Summary(t *testing.T) {
	rec, err := NewClientRecord(scenarioInput())
	require.NoError(t, err)

	rows := rec.Summary()
	require.Len(t, rows, 16)
	assert.Equal(t, FieldValue{Name: FieldLoanAmount, Label: "Loan Amount", Value: "5000.00"}, rows[1])
	assert.Equal(t, FieldValue{Name: FieldAge, Label: "Age", Value: "35"}, rows[12])
	assert.Equal(t, FieldValue{Name: FieldBankName, Label: "Bank Name", Value: "GT Bank"}, rows[14])
}
