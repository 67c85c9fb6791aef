package models

import "fmt"

// BankAccountType is the kind of account the client holds.
type BankAccountType string

const (
	BankAccountCurrent BankAccountType = "Current"
	BankAccountOther   BankAccountType = "Other"
	BankAccountSavings BankAccountType = "Savings"
)

var bankAccountTypes = []BankAccountType{BankAccountCurrent, BankAccountOther, BankAccountSavings}

// BankAccountTypes returns the closed set of account types in display order.
func BankAccountTypes() []BankAccountType {
	return append([]BankAccountType(nil), bankAccountTypes...)
}

// ParseBankAccountType accepts only members of the closed set.
func ParseBankAccountType(s string) (BankAccountType, error) {
	for _, v := range bankAccountTypes {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown bank account type %q", s)
}

// BankName is the client's bank.
type BankName string

const (
	BankAccess            BankName = "Access Bank"
	BankDiamond           BankName = "Diamond Bank"
	BankEcobank           BankName = "Ecobank"
	BankFCMB              BankName = "FCMB"
	BankFidelity          BankName = "Fidelity Bank"
	BankFirst             BankName = "First Bank"
	BankGT                BankName = "GT Bank"
	BankHeritage          BankName = "Heritage Bank"
	BankKeystone          BankName = "Keystone Bank"
	BankSkye              BankName = "Skye Bank"
	BankStanbicIBTC       BankName = "Stanbic IBTC"
	BankStandardChartered BankName = "Standard Chartered"
	BankSterling          BankName = "Sterling Bank"
	BankUBA               BankName = "UBA"
	BankUnion             BankName = "Union Bank"
	BankUnity             BankName = "Unity Bank"
	BankWema              BankName = "Wema Bank"
	BankZenith            BankName = "Zenith Bank"
)

var bankNames = []BankName{
	BankAccess, BankDiamond, BankEcobank, BankFCMB, BankFidelity, BankFirst, BankGT,
	BankHeritage, BankKeystone, BankSkye, BankStanbicIBTC, BankStandardChartered,
	BankSterling, BankUBA, BankUnion, BankUnity, BankWema, BankZenith,
}

// BankNames returns the closed set of banks in display order.
func BankNames() []BankName {
	return append([]BankName(nil), bankNames...)
}

// ParseBankName accepts only members of the closed set.
func ParseBankName(s string) (BankName, error) {
	for _, v := range bankNames {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown bank name %q", s)
}

// EmploymentStatus is the client's employment situation.
type EmploymentStatus string

const (
	EmploymentContract     EmploymentStatus = "Contract"
	EmploymentPermanent    EmploymentStatus = "Permanent"
	EmploymentRetired      EmploymentStatus = "Retired"
	EmploymentSelfEmployed EmploymentStatus = "Self Employed"
	EmploymentStudent      EmploymentStatus = "Student"
	EmploymentUnemployed   EmploymentStatus = "Unemployed"
	EmploymentUnknown      EmploymentStatus = "Unknown"
)

var employmentStatuses = []EmploymentStatus{
	EmploymentContract, EmploymentPermanent, EmploymentRetired, EmploymentSelfEmployed,
	EmploymentStudent, EmploymentUnemployed, EmploymentUnknown,
}

// EmploymentStatuses returns the closed set of statuses in display order.
func EmploymentStatuses() []EmploymentStatus {
	return append([]EmploymentStatus(nil), employmentStatuses...)
}

// ParseEmploymentStatus accepts only members of the closed set.
func ParseEmploymentStatus(s string) (EmploymentStatus, error) {
	for _, v := range employmentStatuses {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown employment status %q", s)
}
