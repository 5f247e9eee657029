// internal/wizard/models.go
package wizard

// Reference is one emergency-contact block on the final step.
type Reference struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Relation string `json:"relation"`
}

// Fields is the wizard-schema view of an application. Numeric inputs stay
// strings here because they arrive from form fields where empty means
// "not provided"; the reconciler owns conversion to the persisted types.
type Fields struct {
	// Step 1: Personal
	FullName           string `json:"full_name"`
	DateOfBirth        string `json:"date_of_birth"`
	Gender             string `json:"gender"`
	PhoneNumber        string `json:"phone_number"`
	Email              string `json:"email"`
	ParentOrSpouseName string `json:"parent_or_spouse_name"`
	CurrentAddress     string `json:"current_address"`
	PermanentAddress   string `json:"permanent_address"`

	// Step 2: KYC
	NationalIDNumber string `json:"national_id_number"`
	TaxIDNumber      string `json:"tax_id_number"`
	IdentityVerified bool   `json:"identity_verified"`

	// Step 3: Employment
	EmploymentType       string `json:"employment_type"`
	EmployerName         string `json:"employer_name"`
	JobRole              string `json:"job_role"`
	MonthlyIncome        string `json:"monthly_income"`
	WorkExperienceMonths string `json:"work_experience_months"`

	// Step 4: Financial
	CreditScore          string `json:"credit_score"`
	ExistingLoanCount    string `json:"existing_loan_count"`
	MonthlyEMIObligation string `json:"monthly_emi_obligation"`
	NetMonthlySavings    string `json:"net_monthly_savings"`

	// Step 5: Loan request
	LoanAmountRequested string `json:"loan_amount_requested"`
	LoanPurpose         string `json:"loan_purpose"`
	TenureMonths        string `json:"tenure_months"`
	RepaymentMode       string `json:"repayment_mode"`

	// Step 6: Bank
	AccountHolderName  string `json:"account_holder_name"`
	AccountNumber      string `json:"account_number"`
	RoutingCode        string `json:"routing_code"`
	BankName           string `json:"bank_name"`
	LinkedMobileNumber string `json:"linked_mobile_number"`

	// Step 7: References
	Reference1 Reference `json:"reference_1"`
	Reference2 Reference `json:"reference_2"`
}

// Mode distinguishes a fresh application from editing a persisted one.
type Mode struct {
	IsEdit   bool
	TargetID string
}

func CreateMode() Mode {
	return Mode{}
}

func EditMode(targetID string) Mode {
	return Mode{IsEdit: true, TargetID: targetID}
}

// FieldViolation describes a single gate failure for a wizard step.
type FieldViolation struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	CodeMissingRequired     = "MISSING_REQUIRED"
	CodeInvalidLength       = "INVALID_LENGTH"
	CodeIdentityNotVerified = "IDENTITY_NOT_VERIFIED"
	CodeStepOutOfRange      = "STEP_OUT_OF_RANGE"
)
