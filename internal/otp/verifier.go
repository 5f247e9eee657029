// internal/otp/verifier.go
package otp

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"yesloans-backend/internal/common/config"
	commonerrors "yesloans-backend/internal/common/errors"
	"yesloans-backend/internal/common/logger"
	"yesloans-backend/internal/common/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSService is the slice of the SNS client the verifier publishes through.
type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Verifier issues and checks challenge codes against the store.
//
// The authoritative delivery channel is the operational log: the code is
// always logged, and SMS publication is an optional extra. A production
// deployment must treat the log surface as a development convenience and
// enable a real channel.
type Verifier struct {
	store  ChallengeStore
	sms    SNSService
	logger logger.Logger
}

func NewVerifier(cfg config.OTPConfig, store ChallengeStore, log logger.Logger) (*Verifier, error) {
	v := &Verifier{
		store:  store,
		logger: log.WithFields(map[string]interface{}{"component": "otp-verifier"}),
	}

	if cfg.SMSEnabled {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		v.sms = sns.NewFromConfig(awsCfg)
	}

	return v, nil
}

// Send issues a fresh 4-digit challenge for contact, replacing any pending
// one. Repeated sends for the same contact invalidate earlier codes.
func (v *Verifier) Send(ctx context.Context, contact string) error {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return &commonerrors.StandardError{
			Code:    commonerrors.ErrCodeOTPContactRequired,
			Message: "Phone required",
		}
	}

	code := generateCode()
	if err := v.store.Put(ctx, contact, code); err != nil {
		return commonerrors.NewOTPStoreError(err.Error())
	}

	metrics.OTPChallengesIssued.Inc()
	v.logger.Info("OTP issued", map[string]interface{}{
		"contact": contact,
		"code":    code,
	})

	if v.sms != nil {
		_, err := v.sms.Publish(ctx, &sns.PublishInput{
			PhoneNumber: aws.String(contact),
			Message:     aws.String(fmt.Sprintf("Your YesLoans verification code is %s", code)),
		})
		if err != nil {
			// The logged code remains usable, so a failed SMS never
			// fails the send.
			v.logger.Warn("SMS delivery failed", map[string]interface{}{
				"contact": contact,
				"error":   err,
			})
		}
	}

	return nil
}

// Verify consumes the pending challenge iff submitted matches it. On a
// mismatch the challenge stays pending so the caller can retry without a
// new send.
func (v *Verifier) Verify(ctx context.Context, contact, submitted string) (bool, error) {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return false, &commonerrors.StandardError{
			Code:    commonerrors.ErrCodeOTPContactRequired,
			Message: "Phone required",
		}
	}

	ok, err := v.store.CompareAndDelete(ctx, contact, submitted)
	if err != nil {
		return false, commonerrors.NewOTPStoreError(err.Error())
	}

	result := "mismatch"
	if ok {
		result = "verified"
	}
	metrics.OTPVerifications.WithLabelValues(result).Inc()

	return ok, nil
}

func generateCode() string {
	return fmt.Sprintf("%d", 1000+rand.Intn(9000))
}
