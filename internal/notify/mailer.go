// internal/notify/mailer.go
package notify

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"yesloans-backend/internal/common/config"
	commonerrors "yesloans-backend/internal/common/errors"
	"yesloans-backend/internal/common/logger"
)

// SESService is the SES surface the mailer needs, defined for mocking.
type SESService interface {
	SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

// Mailer sends the application confirmation email with the receipt PDF
// attached. The message is built as raw MIME because the SES simple send
// API does not support attachments.
type Mailer struct {
	config    config.NotificationConfig
	logger    logger.Logger
	sesClient SESService
}

func NewMailer(cfg config.NotificationConfig, log logger.Logger) (*Mailer, error) {
	m := &Mailer{config: cfg, logger: log}

	if cfg.EmailEnabled {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		m.sesClient = ses.NewFromConfig(awsCfg)
	}

	return m, nil
}

// SendApplicationReceipt emails the applicant at to, attaching the PDF at
// attachmentPath. A disabled mailer is a no-op, not an error.
func (m *Mailer) SendApplicationReceipt(ctx context.Context, to, fullName, attachmentPath string) error {
	if !m.config.EmailEnabled {
		m.logger.Info("Email notifications disabled, skipping receipt", map[string]interface{}{
			"to": to,
		})
		return nil
	}

	to = strings.TrimSpace(to)
	if !isValidEmail(to) {
		return commonerrors.NewNotificationError(fmt.Sprintf("invalid recipient address: %q", to))
	}

	attachment, err := os.ReadFile(attachmentPath)
	if err != nil {
		return commonerrors.NewNotificationError(fmt.Sprintf("read attachment: %v", err))
	}

	message := m.buildRawMessage(to, fullName, filepath.Base(attachmentPath), attachment)

	_, err = m.sesClient.SendRawEmail(ctx, &ses.SendRawEmailInput{
		Source:       aws.String(fmt.Sprintf("%s <%s>", m.config.FromName, m.config.FromEmail)),
		Destinations: []string{to},
		RawMessage:   &types.RawMessage{Data: []byte(message)},
	})
	if err != nil {
		return commonerrors.NewNotificationError(fmt.Sprintf("ses send: %v", err))
	}

	m.logger.Info("Confirmation email sent", map[string]interface{}{
		"to":         to,
		"attachment": filepath.Base(attachmentPath),
	})
	return nil
}

func (m *Mailer) buildRawMessage(to, fullName, attachmentName string, attachment []byte) string {
	const boundary = "yesloans-receipt-boundary"

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("From: %s <%s>\r\n", m.config.FromName, m.config.FromEmail))
	builder.WriteString(fmt.Sprintf("To: %s\r\n", to))
	builder.WriteString("Subject: Your Loan Application Has Been Received\r\n")
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=\"%s\"\r\n", boundary))
	builder.WriteString("\r\n")

	// HTML body part
	builder.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	builder.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(m.buildHTMLBody(fullName))
	builder.WriteString("\r\n")

	// PDF attachment part
	builder.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	builder.WriteString("Content-Type: application/pdf\r\n")
	builder.WriteString("Content-Transfer-Encoding: base64\r\n")
	builder.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=\"%s\"\r\n", attachmentName))
	builder.WriteString("\r\n")

	encoded := base64.StdEncoding.EncodeToString(attachment)
	for len(encoded) > 76 {
		builder.WriteString(encoded[:76])
		builder.WriteString("\r\n")
		encoded = encoded[76:]
	}
	builder.WriteString(encoded)
	builder.WriteString("\r\n")

	builder.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	return builder.String()
}

func (m *Mailer) buildHTMLBody(fullName string) string {
	name := strings.TrimSpace(fullName)
	if name == "" {
		name = "Applicant"
	}
	return fmt.Sprintf(
		"<h2>Congratulations %s!</h2>"+
			"<p>Your loan application has been received successfully.</p>"+
			"<p>A copy of your completed application form is attached for your records. "+
			"Our team will review your details and contact you shortly.</p>"+
			"<p>Regards,<br/>%s</p>",
		name, m.config.FromName)
}

func isValidEmail(email string) bool {
	if email == "" {
		return false
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	if len(parts[0]) == 0 || len(parts[1]) == 0 {
		return false
	}
	return strings.Contains(parts[1], ".")
}
