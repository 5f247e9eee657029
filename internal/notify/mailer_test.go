// internal/notify/mailer_test.go
package notify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"

	"yesloans-backend/internal/common/config"
	commonerrors "yesloans-backend/internal/common/errors"
	"yesloans-backend/internal/common/logger"
)

type MockSESService struct {
	SendRawEmailFunc func(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

func (m *MockSESService) SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error) {
	return m.SendRawEmailFunc(ctx, params, optFns...)
}

func testMailerConfig() config.NotificationConfig {
	return config.NotificationConfig{
		EmailEnabled: true,
		FromEmail:    "noreply@yesloans.example.com",
		FromName:     "YesLoans Support",
		AWSRegion:    "us-east-1",
	}
}

func writeAttachment(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loan-application-test.pdf")
	err := os.WriteFile(path, []byte("%PDF-1.4 fake receipt"), 0o644)
	assert.NoError(t, err)
	return path
}

func TestSendApplicationReceipt(t *testing.T) {
	var captured *ses.SendRawEmailInput
	mailer := &Mailer{
		config: testMailerConfig(),
		logger: logger.NewTestLogger(t),
		sesClient: &MockSESService{
			SendRawEmailFunc: func(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error) {
				captured = params
				return &ses.SendRawEmailOutput{}, nil
			},
		},
	}

	err := mailer.SendApplicationReceipt(context.Background(), "asha.verma@example.com", "Asha Verma", writeAttachment(t))
	assert.NoError(t, err)
	assert.NotNil(t, captured)
	assert.Equal(t, []string{"asha.verma@example.com"}, captured.Destinations)

	raw := string(captured.RawMessage.Data)
	assert.Contains(t, raw, "To: asha.verma@example.com")
	assert.Contains(t, raw, "Subject: Your Loan Application Has Been Received")
	assert.Contains(t, raw, "Congratulations Asha Verma!")
	assert.Contains(t, raw, `filename="loan-application-test.pdf"`)
	assert.Contains(t, raw, "Content-Transfer-Encoding: base64")
}

func TestSendApplicationReceiptSESFailure(t *testing.T) {
	mailer := &Mailer{
		config: testMailerConfig(),
		logger: logger.NewTestLogger(t),
		sesClient: &MockSESService{
			SendRawEmailFunc: func(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error) {
				return nil, errors.New("throttled")
			},
		},
	}

	err := mailer.SendApplicationReceipt(context.Background(), "asha.verma@example.com", "Asha", writeAttachment(t))
	assert.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeNotificationSendFailed, commonerrors.CodeOf(err))
}

func TestSendApplicationReceiptInvalidRecipient(t *testing.T) {
	mailer := &Mailer{
		config: testMailerConfig(),
		logger: logger.NewTestLogger(t),
		sesClient: &MockSESService{
			SendRawEmailFunc: func(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error) {
				t.Fatal("send must not be attempted for an invalid address")
				return nil, nil
			},
		},
	}

	err := mailer.SendApplicationReceipt(context.Background(), "not-an-email", "Asha", writeAttachment(t))
	assert.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeNotificationSendFailed, commonerrors.CodeOf(err))
}

func TestSendApplicationReceiptMissingAttachment(t *testing.T) {
	mailer := &Mailer{
		config: testMailerConfig(),
		logger: logger.NewTestLogger(t),
		sesClient: &MockSESService{
			SendRawEmailFunc: func(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error) {
				t.Fatal("send must not be attempted without the attachment")
				return nil, nil
			},
		},
	}

	err := mailer.SendApplicationReceipt(context.Background(), "asha.verma@example.com", "Asha", "/nonexistent/receipt.pdf")
	assert.Error(t, err)
}

func TestSendApplicationReceiptDisabled(t *testing.T) {
	cfg := testMailerConfig()
	cfg.EmailEnabled = false

	mailer := &Mailer{config: cfg, logger: logger.NewTestLogger(t)}

	err := mailer.SendApplicationReceipt(context.Background(), "asha.verma@example.com", "Asha", "/ignored.pdf")
	assert.NoError(t, err)
}
