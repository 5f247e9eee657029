// internal/otp/verifier_test.go
package otp

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"yesloans-backend/internal/common/config"
	commonerrors "yesloans-backend/internal/common/errors"
	"yesloans-backend/internal/common/logger"
)

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

func newTestVerifier(t *testing.T) (*Verifier, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewRedisStore(client, 5*time.Minute, logger.NewTestLogger(t))
	v, err := NewVerifier(config.OTPConfig{}, store, logger.NewTestLogger(t))
	assert.NoError(t, err)
	return v, mr
}

func TestSendIssuesFourDigitCode(t *testing.T) {
	v, mr := newTestVerifier(t)
	ctx := context.Background()

	assert.NoError(t, v.Send(ctx, "9999999999"))

	code, err := mr.Get("otp:9999999999")
	assert.NoError(t, err)
	assert.Len(t, code, 4)
	assert.GreaterOrEqual(t, code, "1000")
	assert.LessOrEqual(t, code, "9999")
}

func TestSendEmptyContact(t *testing.T) {
	v, _ := newTestVerifier(t)

	err := v.Send(context.Background(), "   ")
	assert.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeOTPContactRequired, commonerrors.CodeOf(err))
}

func TestVerifyLifecycle(t *testing.T) {
	v, mr := newTestVerifier(t)
	ctx := context.Background()

	assert.NoError(t, v.Send(ctx, "9999999999"))
	code, err := mr.Get("otp:9999999999")
	assert.NoError(t, err)

	// Wrong code: rejected, challenge still pending.
	ok, err := v.Verify(ctx, "9999999999", "0000")
	assert.NoError(t, err)
	assert.False(t, ok)

	// Right code verifies.
	ok, err = v.Verify(ctx, "9999999999", code)
	assert.NoError(t, err)
	assert.True(t, ok)

	// Single use: the consumed code is gone.
	ok, err = v.Verify(ctx, "9999999999", code)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestResendInvalidatesEarlierCode(t *testing.T) {
	v, mr := newTestVerifier(t)
	ctx := context.Background()

	assert.NoError(t, v.Send(ctx, "9999999999"))
	first, err := mr.Get("otp:9999999999")
	assert.NoError(t, err)

	// Force a different second code: the issued value is random, so pin
	// the first one out of range before resending.
	mr.Set("otp:9999999999", "0000")
	assert.NoError(t, v.Send(ctx, "9999999999"))
	second, err := mr.Get("otp:9999999999")
	assert.NoError(t, err)
	assert.NotEqual(t, "0000", second)

	if first != second {
		ok, verr := v.Verify(ctx, "9999999999", first)
		assert.NoError(t, verr)
		assert.False(t, ok)
	}

	ok, err := v.Verify(ctx, "9999999999", second)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyWithoutPendingChallenge(t *testing.T) {
	v, _ := newTestVerifier(t)

	ok, err := v.Verify(context.Background(), "9999999999", "1234")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyEmptyContact(t *testing.T) {
	v, _ := newTestVerifier(t)

	_, err := v.Verify(context.Background(), "", "1234")
	assert.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeOTPContactRequired, commonerrors.CodeOf(err))
}

func TestSendPublishesSMSWhenConfigured(t *testing.T) {
	v, mr := newTestVerifier(t)
	ctx := context.Background()

	var published *sns.PublishInput
	v.sms = &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			published = params
			return &sns.PublishOutput{}, nil
		},
	}

	assert.NoError(t, v.Send(ctx, "9999999999"))

	code, err := mr.Get("otp:9999999999")
	assert.NoError(t, err)
	assert.NotNil(t, published)
	assert.Equal(t, "9999999999", *published.PhoneNumber)
	assert.Contains(t, *published.Message, code)
}

func TestSendSucceedsWhenSMSFails(t *testing.T) {
	v, mr := newTestVerifier(t)
	ctx := context.Background()

	v.sms = &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return nil, assert.AnError
		},
	}

	// The logged code stays authoritative, so send still succeeds.
	assert.NoError(t, v.Send(ctx, "9999999999"))

	_, err := mr.Get("otp:9999999999")
	assert.NoError(t, err)
}
