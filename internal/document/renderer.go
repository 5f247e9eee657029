// internal/document/renderer.go
package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"yesloans-backend/internal/common/config"
	commonerrors "yesloans-backend/internal/common/errors"
	"yesloans-backend/internal/common/logger"
	"yesloans-backend/internal/models"
)

// Renderer produces the application receipt PDF that accompanies the
// confirmation email. Output files land in the configured temp directory
// and are removed by the caller once the notification attempt finishes.
type Renderer struct {
	tempDir string
	logger  logger.Logger
}

func NewRenderer(cfg config.DocumentConfig, log logger.Logger) *Renderer {
	dir := cfg.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	return &Renderer{tempDir: dir, logger: log}
}

type section struct {
	title string
	lines []line
}

type line struct {
	label string
	value string
}

// Render writes the receipt PDF for rec and returns the file path.
func (r *Renderer) Render(ctx context.Context, rec *models.ApplicationRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", commonerrors.NewDocumentRenderError(fmt.Sprintf("render cancelled: %v", err))
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "YesLoans Application Form", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 100, 100)
	generated := fmt.Sprintf("Generated on: %s", time.Now().Format("02 Jan 2006 15:04"))
	pdf.CellFormat(0, 6, generated, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for i, sec := range r.sections(rec) {
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, fmt.Sprintf("%d. %s", i+1, sec.title), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		for _, ln := range sec.lines {
			if ln.value == "" {
				continue
			}
			pdf.CellFormat(55, 6, ln.label, "", 0, "L", false, 0, "")
			pdf.MultiCell(0, 6, ln.value, "", "L", false)
		}
		pdf.Ln(2)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(0, 5,
		"I hereby declare that the information provided above is true and correct "+
			"to the best of my knowledge. I authorize YesLoans to verify the details "+
			"submitted in this application.",
		"", "L", false)

	path := filepath.Join(r.tempDir, r.fileName(rec))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", commonerrors.NewDocumentRenderError(fmt.Sprintf("write pdf: %v", err))
	}

	r.logger.Info("Application receipt rendered", map[string]interface{}{
		"application_id": rec.ID,
		"path":           path,
	})
	return path, nil
}

func (r *Renderer) fileName(rec *models.ApplicationRecord) string {
	if rec.ID != "" {
		return fmt.Sprintf("loan-application-%s.pdf", rec.ID)
	}
	return fmt.Sprintf("loan-application-%d.pdf", time.Now().UnixNano())
}

func (r *Renderer) sections(rec *models.ApplicationRecord) []section {
	return []section{
		{title: "Personal Details", lines: []line{
			{"Full Name", rec.FullName},
			{"Date of Birth", rec.DOB},
			{"Gender", rec.Gender},
			{"Phone Number", rec.PhoneNumber},
			{"Email", rec.Email},
			{"Parent / Spouse Name", rec.ParentName},
			{"Current Address", rec.CurrentAddress},
			{"Permanent Address", rec.PermanentAddress},
		}},
		{title: "Identity Verification", lines: []line{
			{"National ID", rec.NationalID},
			{"Tax ID", rec.TaxID},
			{"Identity Verified", yesNo(rec.IdentityVerified)},
		}},
		{title: "Employment Details", lines: []line{
			{"Employment Type", rec.EmploymentType},
			{"Employer Name", rec.EmployerName},
			{"Job Role", rec.JobRole},
			{"Monthly Income", decimal(rec.MonthlyIncome)},
			{"Work Experience (months)", count(rec.WorkExperienceMonths)},
		}},
		{title: "Financial Details", lines: []line{
			{"Credit Score", count(rec.CreditScore)},
			{"Existing Loans", count(rec.ExistingLoans)},
			{"Monthly EMI Obligation", decimal(rec.MonthlyEMIObligation)},
			{"Net Monthly Savings", decimal(rec.NetSavings)},
		}},
		{title: "Loan Request", lines: []line{
			{"Loan Amount", decimal(rec.LoanAmount)},
			{"Loan Purpose", rec.LoanPurpose},
			{"Tenure (months)", count(rec.TenureMonths)},
			{"Repayment Mode", rec.RepaymentMode},
		}},
		{title: "Bank Details", lines: []line{
			{"Account Holder", rec.AccountHolder},
			{"Account Number", rec.AccountNumber},
			{"Routing Code", rec.RoutingCode},
			{"Bank Name", rec.BankName},
			{"Linked Mobile", rec.LinkedMobile},
		}},
		{title: "References", lines: []line{
			{"Reference 1 Name", rec.Ref1Name},
			{"Reference 1 Phone", rec.Ref1Phone},
			{"Reference 1 Relation", rec.Ref1Relation},
			{"Reference 2 Name", rec.Ref2Name},
			{"Reference 2 Phone", rec.Ref2Phone},
			{"Reference 2 Relation", rec.Ref2Relation},
		}},
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func decimal(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func count(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}
