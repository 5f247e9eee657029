// internal/wizard/rules.go
package wizard

import (
	"fmt"
	"strings"
)

const nationalIDLength = 12

type requiredField struct {
	name  string
	value func(Fields) string
}

// requiredByStep is the declarative gate table: each step lists the fields
// that must be non-empty before the wizard may advance past it.
var requiredByStep = map[int][]requiredField{
	StepPersonal: {
		{"full_name", func(f Fields) string { return f.FullName }},
		{"date_of_birth", func(f Fields) string { return f.DateOfBirth }},
		{"parent_or_spouse_name", func(f Fields) string { return f.ParentOrSpouseName }},
		{"current_address", func(f Fields) string { return f.CurrentAddress }},
	},
	StepKYC: {
		{"national_id_number", func(f Fields) string { return f.NationalIDNumber }},
		{"tax_id_number", func(f Fields) string { return f.TaxIDNumber }},
	},
	StepEmployment: {
		{"employment_type", func(f Fields) string { return f.EmploymentType }},
		{"monthly_income", func(f Fields) string { return f.MonthlyIncome }},
		{"job_role", func(f Fields) string { return f.JobRole }},
	},
	StepFinancial: {
		{"credit_score", func(f Fields) string { return f.CreditScore }},
		{"monthly_emi_obligation", func(f Fields) string { return f.MonthlyEMIObligation }},
	},
	StepLoan: {
		{"loan_amount_requested", func(f Fields) string { return f.LoanAmountRequested }},
		{"tenure_months", func(f Fields) string { return f.TenureMonths }},
	},
	StepBank: {
		{"account_number", func(f Fields) string { return f.AccountNumber }},
		{"routing_code", func(f Fields) string { return f.RoutingCode }},
		{"linked_mobile_number", func(f Fields) string { return f.LinkedMobileNumber }},
	},
	StepReferences: {
		{"reference_1.name", func(f Fields) string { return f.Reference1.Name }},
		{"reference_1.relation", func(f Fields) string { return f.Reference1.Relation }},
	},
}

// Validate runs the gate for one step and reports every violated field.
func (s State) Validate(step int) []FieldViolation {
	var violations []FieldViolation

	for _, rf := range requiredByStep[step] {
		if strings.TrimSpace(rf.value(s.Fields)) == "" {
			violations = append(violations, FieldViolation{
				Field:   rf.name,
				Code:    CodeMissingRequired,
				Message: fmt.Sprintf("%s is required", rf.name),
			})
		}
	}

	if step == StepKYC {
		if id := strings.TrimSpace(s.Fields.NationalIDNumber); id != "" && len(id) != nationalIDLength {
			violations = append(violations, FieldViolation{
				Field:   "national_id_number",
				Code:    CodeInvalidLength,
				Message: fmt.Sprintf("national_id_number must be %d digits", nationalIDLength),
			})
		}
		// Edit mode carries the verified flag from the persisted record,
		// so only a fresh application demands the OTP challenge here.
		if !s.Mode.IsEdit && !s.Fields.IdentityVerified {
			violations = append(violations, FieldViolation{
				Field:   "identity_verified",
				Code:    CodeIdentityNotVerified,
				Message: "identity must be verified before continuing",
			})
		}
	}

	return violations
}
