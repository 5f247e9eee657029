// internal/repository/applications.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	commonerrors "yesloans-backend/internal/common/errors"
	"yesloans-backend/internal/common/logger"
	"yesloans-backend/internal/models"
)

const applicationColumns = `
	id, full_name, dob, gender, phone_number, email, parent_name,
	current_address, permanent_address, national_id, tax_id, identity_verified,
	employment_type, employer_name, job_role, monthly_income, work_experience_months,
	credit_score, existing_loans, monthly_emi_obligation, net_savings,
	loan_amount, loan_purpose, tenure_months, repayment_mode,
	account_holder, account_number, routing_code, bank_name, linked_mobile,
	ref1_name, ref1_phone, ref1_relation, ref2_name, ref2_phone, ref2_relation,
	status, application_date`

// ApplicationRepository persists loan applications in Postgres.
type ApplicationRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewApplicationRepository(db *sql.DB, log logger.Logger) *ApplicationRepository {
	return &ApplicationRepository{db: db, logger: log}
}

// Insert stores a new application. It assigns the id, sets the status to
// Submitted and stamps the application date, mutating rec in place.
func (r *ApplicationRepository) Insert(ctx context.Context, rec *models.ApplicationRecord) error {
	rec.ID = uuid.New().String()
	rec.Status = models.StatusSubmitted
	rec.ApplicationDate = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO loan_applications (`+applicationColumns+`
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
			$31, $32, $33, $34, $35, $36, $37, $38
		)`,
		rec.ID, rec.FullName, rec.DOB, rec.Gender, rec.PhoneNumber, rec.Email,
		rec.ParentName, rec.CurrentAddress, rec.PermanentAddress,
		rec.NationalID, rec.TaxID, rec.IdentityVerified,
		rec.EmploymentType, rec.EmployerName, rec.JobRole, rec.MonthlyIncome, rec.WorkExperienceMonths,
		rec.CreditScore, rec.ExistingLoans, rec.MonthlyEMIObligation, rec.NetSavings,
		rec.LoanAmount, rec.LoanPurpose, rec.TenureMonths, rec.RepaymentMode,
		rec.AccountHolder, rec.AccountNumber, rec.RoutingCode, rec.BankName, rec.LinkedMobile,
		rec.Ref1Name, rec.Ref1Phone, rec.Ref1Relation, rec.Ref2Name, rec.Ref2Phone, rec.Ref2Relation,
		rec.Status, rec.ApplicationDate,
	)
	if err != nil {
		return commonerrors.NewPersistenceError(fmt.Sprintf("insert failed: %v", err))
	}

	r.logger.Info("application record created", map[string]interface{}{
		"applicationId": rec.ID,
		"email":         rec.Email,
	})
	return nil
}

// Update rewrites the submitted fields of an existing application. Status
// and application date are owned by the review workflow and left untouched.
func (r *ApplicationRepository) Update(ctx context.Context, rec *models.ApplicationRecord) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE loan_applications SET
			full_name = $2, dob = $3, gender = $4, phone_number = $5, email = $6,
			parent_name = $7, current_address = $8, permanent_address = $9,
			national_id = $10, tax_id = $11, identity_verified = $12,
			employment_type = $13, employer_name = $14, job_role = $15,
			monthly_income = $16, work_experience_months = $17,
			credit_score = $18, existing_loans = $19, monthly_emi_obligation = $20,
			net_savings = $21, loan_amount = $22, loan_purpose = $23,
			tenure_months = $24, repayment_mode = $25,
			account_holder = $26, account_number = $27, routing_code = $28,
			bank_name = $29, linked_mobile = $30,
			ref1_name = $31, ref1_phone = $32, ref1_relation = $33,
			ref2_name = $34, ref2_phone = $35, ref2_relation = $36
		WHERE id = $1`,
		rec.ID, rec.FullName, rec.DOB, rec.Gender, rec.PhoneNumber, rec.Email,
		rec.ParentName, rec.CurrentAddress, rec.PermanentAddress,
		rec.NationalID, rec.TaxID, rec.IdentityVerified,
		rec.EmploymentType, rec.EmployerName, rec.JobRole,
		rec.MonthlyIncome, rec.WorkExperienceMonths,
		rec.CreditScore, rec.ExistingLoans, rec.MonthlyEMIObligation,
		rec.NetSavings, rec.LoanAmount, rec.LoanPurpose,
		rec.TenureMonths, rec.RepaymentMode,
		rec.AccountHolder, rec.AccountNumber, rec.RoutingCode,
		rec.BankName, rec.LinkedMobile,
		rec.Ref1Name, rec.Ref1Phone, rec.Ref1Relation,
		rec.Ref2Name, rec.Ref2Phone, rec.Ref2Relation,
	)
	if err != nil {
		return commonerrors.NewPersistenceError(fmt.Sprintf("update failed: %v", err))
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return commonerrors.NewPersistenceError(fmt.Sprintf("rows affected: %v", err))
	}
	if rows == 0 {
		return commonerrors.NewNotFoundError(rec.ID)
	}

	r.logger.Info("application record updated", map[string]interface{}{
		"applicationId": rec.ID,
	})
	return nil
}

// GetByID loads the full application record for editing.
func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*models.ApplicationRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+applicationColumns+`
		FROM loan_applications
		WHERE id = $1`, id)

	rec, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return nil, commonerrors.NewNotFoundError(id)
	}
	if err != nil {
		return nil, commonerrors.NewPersistenceError(fmt.Sprintf("query failed: %v", err))
	}
	return rec, nil
}

// ListByOwner returns the dashboard summaries for an applicant's email,
// newest first.
func (r *ApplicationRepository) ListByOwner(ctx context.Context, email string) ([]models.ApplicationSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, loan_purpose, loan_amount, tenure_months, status, application_date
		FROM loan_applications
		WHERE email = $1
		ORDER BY application_date DESC`, email)
	if err != nil {
		return nil, commonerrors.NewPersistenceError(fmt.Sprintf("query failed: %v", err))
	}
	defer rows.Close()

	summaries := []models.ApplicationSummary{}
	for rows.Next() {
		var s models.ApplicationSummary
		if err := rows.Scan(&s.ID, &s.LoanPurpose, &s.LoanAmount, &s.TenureMonths, &s.Status, &s.ApplicationDate); err != nil {
			return nil, commonerrors.NewPersistenceError(fmt.Sprintf("scan failed: %v", err))
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, commonerrors.NewPersistenceError(fmt.Sprintf("rows iteration: %v", err))
	}

	return summaries, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(row rowScanner) (*models.ApplicationRecord, error) {
	var rec models.ApplicationRecord
	err := row.Scan(
		&rec.ID, &rec.FullName, &rec.DOB, &rec.Gender, &rec.PhoneNumber, &rec.Email,
		&rec.ParentName, &rec.CurrentAddress, &rec.PermanentAddress,
		&rec.NationalID, &rec.TaxID, &rec.IdentityVerified,
		&rec.EmploymentType, &rec.EmployerName, &rec.JobRole,
		&rec.MonthlyIncome, &rec.WorkExperienceMonths,
		&rec.CreditScore, &rec.ExistingLoans, &rec.MonthlyEMIObligation, &rec.NetSavings,
		&rec.LoanAmount, &rec.LoanPurpose, &rec.TenureMonths, &rec.RepaymentMode,
		&rec.AccountHolder, &rec.AccountNumber, &rec.RoutingCode, &rec.BankName, &rec.LinkedMobile,
		&rec.Ref1Name, &rec.Ref1Phone, &rec.Ref1Relation,
		&rec.Ref2Name, &rec.Ref2Phone, &rec.Ref2Relation,
		&rec.Status, &rec.ApplicationDate,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
