package classifier

import (
	"fmt"
	"math"

	"github.com/turtacn/loanrisk/internal/domain/models"
	"github.com/turtacn/loanrisk/pkg/classifierpb"
	"google.golang.org/protobuf/types/known/structpb"
)

// EncodeRecord converts a record into the Struct sent to a model server.
func EncodeRecord(record *models.ClientRecord) (*structpb.Struct, error) {
	fields := make(map[string]interface{}, len(models.Fields()))
	for _, def := range models.Fields() {
		if def.IsNumeric() {
			v, _ := record.Number(def.Name)
			fields[def.Name] = v
			continue
		}
		v, _ := record.Category(def.Name)
		fields[def.Name] = v
	}
	return structpb.NewStruct(fields)
}

// DecodeRecord rebuilds and validates a record from a Struct. Integer fields must hold integral numbers.
func DecodeRecord(s *structpb.Struct) (*models.ClientRecord, error) {
	if s == nil {
		return nil, fmt.Errorf("record is required")
	}
	m := s.GetFields()
	num := func(name string) (float64, error) {
		v, ok := m[name]
		if !ok {
			return 0, fmt.Errorf("missing field %q", name)
		}
		n, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return 0, fmt.Errorf("field %q must be a number", name)
		}
		return n.NumberValue, nil
	}
	integer := func(name string) (int, error) {
		f, err := num(name)
		if err != nil {
			return 0, err
		}
		if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return 0, fmt.Errorf("field %q must be an integer", name)
		}
		return int(f), nil
	}
	str := func(name string) (string, error) {
		v, ok := m[name]
		if !ok {
			return "", fmt.Errorf("missing field %q", name)
		}
		sv, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return "", fmt.Errorf("field %q must be a string", name)
		}
		return sv.StringValue, nil
	}

	var in models.ClientRecordInput
	var err error
	ints := []struct {
		name string
		dst  *int
	}{
		{models.FieldLoanNumber, &in.LoanNumber},
		{models.FieldTermDays, &in.TermDays},
		{models.FieldApprovalLagDays, &in.ApprovalLagDays},
		{models.FieldFirstPaymentDelayDays, &in.FirstPaymentDelayDays},
		{models.FieldPastDueDays, &in.PastDueDays},
		{models.FieldLoanAgeDays, &in.LoanAgeDays},
		{models.FieldEarlyPaymentFlag, &in.EarlyPaymentFlag},
		{models.FieldCreditScore, &in.CreditScore},
		{models.FieldAge, &in.Age},
	}
	for _, f := range ints {
		if *f.dst, err = integer(f.name); err != nil {
			return nil, err
		}
	}
	floats := []struct {
		name string
		dst  *float64
	}{
		{models.FieldLoanAmount, &in.LoanAmount},
		{models.FieldMonthlyPayment, &in.MonthlyPayment},
		{models.FieldDebtToIncomeRatio, &in.DebtToIncomeRatio},
		{models.FieldLoanToIncomeRatio, &in.LoanToIncomeRatio},
	}
	for _, f := range floats {
		if *f.dst, err = num(f.name); err != nil {
			return nil, err
		}
	}
	strs := []struct {
		name string
		dst  *string
	}{
		{models.FieldBankAccountType, &in.BankAccountType},
		{models.FieldBankName, &in.BankName},
		{models.FieldEmploymentStatus, &in.EmploymentStatus},
	}
	for _, f := range strs {
		if *f.dst, err = str(f.name); err != nil {
			return nil, err
		}
	}
	return models.NewClientRecord(in)
}

// EncodeClassification converts classifier output into the response Struct.
func EncodeClassification(out *models.Classification, modelVersion string) (*structpb.Struct, error) {
	probs := make([]interface{}, len(out.Probabilities))
	for i, p := range out.Probabilities {
		probs[i] = p
	}
	return structpb.NewStruct(map[string]interface{}{
		classifierpb.FieldLabel:         out.Label,
		classifierpb.FieldProbabilities: probs,
		classifierpb.FieldModelVersion:  modelVersion,
	})
}

// DecodeClassification reads (label, probabilities) from a response Struct.
// Shape is not checked here; the scoring service enforces the output contract.
func DecodeClassification(s *structpb.Struct) (*models.Classification, error) {
	if s == nil {
		return nil, fmt.Errorf("empty response")
	}
	m := s.GetFields()
	lv, ok := m[classifierpb.FieldLabel].GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return nil, fmt.Errorf("response has no numeric %q", classifierpb.FieldLabel)
	}
	pv, ok := m[classifierpb.FieldProbabilities].GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, fmt.Errorf("response has no %q list", classifierpb.FieldProbabilities)
	}
	out := &models.Classification{Label: int(lv.NumberValue)}
	for i, v := range pv.ListValue.GetValues() {
		n, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return nil, fmt.Errorf("probability %d is not a number", i)
		}
		out.Probabilities = append(out.Probabilities, n.NumberValue)
	}
	if lv.NumberValue != math.Trunc(lv.NumberValue) {
		out.Label = -1
	}
	return out, nil
}
