// internal/wizard/reconcile.go
//
// The persisted schema and the wizard schema name the same data
// differently. This file is the only place that knows both sides:
//
//	persisted            wizard
//	dob              <-> date_of_birth
//	parent_name      <-> parent_or_spouse_name
//	national_id      <-> national_id_number
//	tax_id           <-> tax_id_number
//	existing_loans   <-> existing_loan_count
//	net_savings      <-> net_monthly_savings
//	loan_amount      <-> loan_amount_requested
//	account_holder   <-> account_holder_name
//	linked_mobile    <-> linked_mobile_number
//	ref1_*, ref2_*   <-> reference_1, reference_2
//
// Neither naming scheme may leak past this boundary.
package wizard

import (
	"fmt"
	"strconv"
	"strings"

	commonerrors "yesloans-backend/internal/common/errors"
	"yesloans-backend/internal/models"
)

// FromRecord copies a persisted record into wizard fields for editing.
// Zero numerics become empty strings, mirroring untouched form inputs.
func FromRecord(rec *models.ApplicationRecord) Fields {
	return Fields{
		FullName:           rec.FullName,
		DateOfBirth:        rec.DOB,
		Gender:             rec.Gender,
		PhoneNumber:        rec.PhoneNumber,
		Email:              rec.Email,
		ParentOrSpouseName: rec.ParentName,
		CurrentAddress:     rec.CurrentAddress,
		PermanentAddress:   rec.PermanentAddress,

		NationalIDNumber: rec.NationalID,
		TaxIDNumber:      rec.TaxID,
		IdentityVerified: rec.IdentityVerified,

		EmploymentType:       rec.EmploymentType,
		EmployerName:         rec.EmployerName,
		JobRole:              rec.JobRole,
		MonthlyIncome:        formatDecimal(rec.MonthlyIncome),
		WorkExperienceMonths: formatInt(rec.WorkExperienceMonths),

		CreditScore:          formatInt(rec.CreditScore),
		ExistingLoanCount:    formatInt(rec.ExistingLoans),
		MonthlyEMIObligation: formatDecimal(rec.MonthlyEMIObligation),
		NetMonthlySavings:    formatDecimal(rec.NetSavings),

		LoanAmountRequested: formatDecimal(rec.LoanAmount),
		LoanPurpose:         rec.LoanPurpose,
		TenureMonths:        formatInt(rec.TenureMonths),
		RepaymentMode:       rec.RepaymentMode,

		AccountHolderName:  rec.AccountHolder,
		AccountNumber:      rec.AccountNumber,
		RoutingCode:        rec.RoutingCode,
		BankName:           rec.BankName,
		LinkedMobileNumber: rec.LinkedMobile,

		Reference1: Reference{Name: rec.Ref1Name, Phone: rec.Ref1Phone, Relation: rec.Ref1Relation},
		Reference2: Reference{Name: rec.Ref2Name, Phone: rec.Ref2Phone, Relation: rec.Ref2Relation},
	}
}

// ToRecord converts wizard fields into the persisted shape. Empty numeric
// inputs become zero; malformed ones are a validation error.
func ToRecord(f Fields) (*models.ApplicationRecord, error) {
	var parseErrs []string

	toDecimal := func(name, s string) float64 {
		v, err := parseDecimal(s)
		if err != nil {
			parseErrs = append(parseErrs, fmt.Sprintf("%s: %v", name, err))
		}
		return v
	}
	toInt := func(name, s string) int {
		v, err := parseInt(s)
		if err != nil {
			parseErrs = append(parseErrs, fmt.Sprintf("%s: %v", name, err))
		}
		return v
	}

	rec := &models.ApplicationRecord{
		FullName:         f.FullName,
		DOB:              f.DateOfBirth,
		Gender:           f.Gender,
		PhoneNumber:      f.PhoneNumber,
		Email:            f.Email,
		ParentName:       f.ParentOrSpouseName,
		CurrentAddress:   f.CurrentAddress,
		PermanentAddress: f.PermanentAddress,

		NationalID:       f.NationalIDNumber,
		TaxID:            f.TaxIDNumber,
		IdentityVerified: f.IdentityVerified,

		EmploymentType:       f.EmploymentType,
		EmployerName:         f.EmployerName,
		JobRole:              f.JobRole,
		MonthlyIncome:        toDecimal("monthly_income", f.MonthlyIncome),
		WorkExperienceMonths: toInt("work_experience_months", f.WorkExperienceMonths),

		CreditScore:          toInt("credit_score", f.CreditScore),
		ExistingLoans:        toInt("existing_loan_count", f.ExistingLoanCount),
		MonthlyEMIObligation: toDecimal("monthly_emi_obligation", f.MonthlyEMIObligation),
		NetSavings:           toDecimal("net_monthly_savings", f.NetMonthlySavings),

		LoanAmount:    toDecimal("loan_amount_requested", f.LoanAmountRequested),
		LoanPurpose:   f.LoanPurpose,
		TenureMonths:  toInt("tenure_months", f.TenureMonths),
		RepaymentMode: f.RepaymentMode,

		AccountHolder: f.AccountHolderName,
		AccountNumber: f.AccountNumber,
		RoutingCode:   f.RoutingCode,
		BankName:      f.BankName,
		LinkedMobile:  f.LinkedMobileNumber,

		Ref1Name:     f.Reference1.Name,
		Ref1Phone:    f.Reference1.Phone,
		Ref1Relation: f.Reference1.Relation,
		Ref2Name:     f.Reference2.Name,
		Ref2Phone:    f.Reference2.Phone,
		Ref2Relation: f.Reference2.Relation,
	}

	if len(parseErrs) > 0 {
		return nil, commonerrors.NewValidationError(strings.Join(parseErrs, "; "))
	}

	return rec, nil
}

func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	return v, nil
}

func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not an integer")
	}
	return v, nil
}

func formatDecimal(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatInt(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}
