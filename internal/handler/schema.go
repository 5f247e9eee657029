// internal/handler/schema.go
package handler

import "yesloans-backend/internal/common/validation"

// submissionSchema is the shape gate for application payloads. It checks
// types only; the wizard rules own required-field and step semantics.
var submissionSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"full_name":             {Type: "string"},
		"date_of_birth":         {Type: "string"},
		"gender":                {Type: "string"},
		"phone_number":          {Type: "string"},
		"email":                 {Type: "string"},
		"parent_or_spouse_name": {Type: "string"},
		"current_address":       {Type: "string"},
		"permanent_address":     {Type: "string"},

		"national_id_number": {Type: "string"},
		"tax_id_number":      {Type: "string"},
		"identity_verified":  {Type: "boolean"},

		"employment_type":        {Type: "string"},
		"employer_name":          {Type: "string"},
		"job_role":               {Type: "string"},
		"monthly_income":         {Type: "string"},
		"work_experience_months": {Type: "string"},

		"credit_score":           {Type: "string"},
		"existing_loan_count":    {Type: "string"},
		"monthly_emi_obligation": {Type: "string"},
		"net_monthly_savings":    {Type: "string"},

		"loan_amount_requested": {Type: "string"},
		"loan_purpose":          {Type: "string"},
		"tenure_months":         {Type: "string"},
		"repayment_mode":        {Type: "string"},

		"account_holder_name":  {Type: "string"},
		"account_number":       {Type: "string"},
		"routing_code":         {Type: "string"},
		"bank_name":            {Type: "string"},
		"linked_mobile_number": {Type: "string"},

		"reference_1": {Type: "object"},
		"reference_2": {Type: "object"},
	},
	Required:             []string{"full_name", "email"},
	AdditionalProperties: true,
}
