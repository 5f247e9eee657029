// internal/models/application.go
package models

import "time"

// ApplicationStatus tracks where a loan application is in review.
type ApplicationStatus string

const (
	StatusSubmitted ApplicationStatus = "Submitted"
	StatusApproved  ApplicationStatus = "Approved"
	StatusRejected  ApplicationStatus = "Rejected"
)

// EmploymentType enumerates the declared employment situation.
type EmploymentType string

const (
	EmploymentSalaried     EmploymentType = "Salaried"
	EmploymentSelfEmployed EmploymentType = "Self-Employed"
	EmploymentFreelancer   EmploymentType = "Freelancer"
	EmploymentStudent      EmploymentType = "Student"
)

// LoanPurpose enumerates what the requested loan is for.
type LoanPurpose string

const (
	PurposeEducation LoanPurpose = "Education"
	PurposeMedical   LoanPurpose = "Medical"
	PurposeTravel    LoanPurpose = "Travel"
	PurposePersonal  LoanPurpose = "Personal"
	PurposeBusiness  LoanPurpose = "Business"
)

// ApplicationRecord is the persisted shape of a loan application. Field
// names follow the storage schema; the wizard layer has its own naming and
// the reconciler owns the translation between the two.
type ApplicationRecord struct {
	ID string `json:"id"`

	// Personal
	FullName         string `json:"full_name"`
	DOB              string `json:"dob"`
	Gender           string `json:"gender"`
	PhoneNumber      string `json:"phone_number"`
	Email            string `json:"email"`
	ParentName       string `json:"parent_name"`
	CurrentAddress   string `json:"current_address"`
	PermanentAddress string `json:"permanent_address"`

	// KYC
	NationalID       string `json:"national_id"`
	TaxID            string `json:"tax_id"`
	IdentityVerified bool   `json:"identity_verified"`

	// Employment
	EmploymentType       string  `json:"employment_type"`
	EmployerName         string  `json:"employer_name"`
	JobRole              string  `json:"job_role"`
	MonthlyIncome        float64 `json:"monthly_income"`
	WorkExperienceMonths int     `json:"work_experience_months"`

	// Financial. ExistingLoans is a count of open loans, not an amount.
	CreditScore          int     `json:"credit_score"`
	ExistingLoans        int     `json:"existing_loans"`
	MonthlyEMIObligation float64 `json:"monthly_emi_obligation"`
	NetSavings           float64 `json:"net_savings"`

	// Loan request
	LoanAmount    float64 `json:"loan_amount"`
	LoanPurpose   string  `json:"loan_purpose"`
	TenureMonths  int     `json:"tenure_months"`
	RepaymentMode string  `json:"repayment_mode"`

	// Bank
	AccountHolder string `json:"account_holder"`
	AccountNumber string `json:"account_number"`
	RoutingCode   string `json:"routing_code"`
	BankName      string `json:"bank_name"`
	LinkedMobile  string `json:"linked_mobile"`

	// References
	Ref1Name     string `json:"ref1_name"`
	Ref1Phone    string `json:"ref1_phone"`
	Ref1Relation string `json:"ref1_relation"`
	Ref2Name     string `json:"ref2_name"`
	Ref2Phone    string `json:"ref2_phone"`
	Ref2Relation string `json:"ref2_relation"`

	Status          ApplicationStatus `json:"status"`
	ApplicationDate time.Time         `json:"application_date"`
}

// ApplicationSummary is the dashboard projection of a persisted record.
type ApplicationSummary struct {
	ID              string            `json:"id"`
	LoanPurpose     string            `json:"loan_purpose"`
	LoanAmount      float64           `json:"loan_amount"`
	TenureMonths    int               `json:"tenure_months"`
	Status          ApplicationStatus `json:"status"`
	ApplicationDate time.Time         `json:"application_date"`
}
