// internal/handler/intake_test.go
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"yesloans-backend/internal/common/config"
	commonerrors "yesloans-backend/internal/common/errors"
	"yesloans-backend/internal/common/logger"
	"yesloans-backend/internal/models"
	"yesloans-backend/internal/otp"
	"yesloans-backend/internal/pipeline"
	"yesloans-backend/internal/wizard"
)

type fakeSubmitter struct {
	calls     int
	lastState wizard.State
	result    *pipeline.Result
	err       error
}

func (f *fakeSubmitter) Submit(ctx context.Context, state wizard.State) (*pipeline.Result, error) {
	f.calls++
	f.lastState = state
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeReader struct {
	record    *models.ApplicationRecord
	summaries []models.ApplicationSummary
	err       error
}

func (f *fakeReader) GetByID(ctx context.Context, id string) (*models.ApplicationRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

func (f *fakeReader) ListByOwner(ctx context.Context, email string) ([]models.ApplicationSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.summaries, nil
}

func newOTPService(t *testing.T) (*otp.Verifier, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := otp.NewRedisStore(client, 5*time.Minute, logger.NewTestLogger(t))
	verifier, err := otp.NewVerifier(config.OTPConfig{}, store, logger.NewTestLogger(t))
	assert.NoError(t, err)
	return verifier, mr
}

func completePayload() map[string]interface{} {
	return map[string]interface{}{
		"full_name":              "Asha Verma",
		"date_of_birth":          "1994-03-12",
		"phone_number":           "9876543210",
		"email":                  "asha.verma@example.com",
		"parent_or_spouse_name":  "Ravi Verma",
		"current_address":        "12 Lake View Road, Pune",
		"national_id_number":     "123456789012",
		"tax_id_number":          "ABCDE1234F",
		"identity_verified":      true,
		"employment_type":        "Salaried",
		"monthly_income":         "85000",
		"job_role":               "Analyst",
		"credit_score":           "742",
		"monthly_emi_obligation": "12000",
		"loan_amount_requested":  "500000",
		"tenure_months":          "36",
		"account_number":         "001122334455",
		"routing_code":           "YESB0000123",
		"linked_mobile_number":   "9876543210",
		"reference_1": map[string]interface{}{
			"name":     "Meera Joshi",
			"relation": "Colleague",
		},
	}
}

func postJSON(t *testing.T, handlerFunc http.HandlerFunc, target string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handlerFunc(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func TestSubmitApplicationCreated(t *testing.T) {
	submitter := &fakeSubmitter{result: &pipeline.Result{ApplicationID: "app-1", Outcome: pipeline.OutcomeSaved}}
	h := NewIntakeHandler(nil, submitter, &fakeReader{}, logger.NewTestLogger(t))

	rr := postJSON(t, h.SubmitApplication, "/api/applications", completePayload())
	assert.Equal(t, http.StatusCreated, rr.Code)

	body := decodeBody(t, rr)
	assert.Equal(t, "Application Saved & Detailed Email Sent!", body["message"])
	assert.Equal(t, "app-1", body["application_id"])

	assert.Equal(t, 1, submitter.calls)
	assert.False(t, submitter.lastState.Mode.IsEdit)
	assert.Equal(t, wizard.FinalStep, submitter.lastState.Step)
}

func TestSubmitApplicationDegradedMessage(t *testing.T) {
	submitter := &fakeSubmitter{result: &pipeline.Result{
		ApplicationID: "app-1",
		Outcome:       pipeline.OutcomeDegraded,
		FailedStage:   "notification",
	}}
	h := NewIntakeHandler(nil, submitter, &fakeReader{}, logger.NewTestLogger(t))

	rr := postJSON(t, h.SubmitApplication, "/api/applications", completePayload())
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Application Saved (Email failed)", decodeBody(t, rr)["message"])
}

func TestSubmitApplicationPersistenceFailure(t *testing.T) {
	submitter := &fakeSubmitter{err: commonerrors.NewPersistenceError("connection reset")}
	h := NewIntakeHandler(nil, submitter, &fakeReader{}, logger.NewTestLogger(t))

	rr := postJSON(t, h.SubmitApplication, "/api/applications", completePayload())
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestSubmitApplicationMissingFields(t *testing.T) {
	submitter := &fakeSubmitter{}
	h := NewIntakeHandler(nil, submitter, &fakeReader{}, logger.NewTestLogger(t))

	payload := completePayload()
	delete(payload, "parent_or_spouse_name")
	delete(payload, "routing_code")

	rr := postJSON(t, h.SubmitApplication, "/api/applications", payload)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 0, submitter.calls)

	body := decodeBody(t, rr)
	violations := body["violations"].([]interface{})
	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.(map[string]interface{})["field"].(string))
	}
	assert.Contains(t, fields, "parent_or_spouse_name")
	assert.Contains(t, fields, "routing_code")
}

func TestSubmitApplicationUnverifiedIdentity(t *testing.T) {
	submitter := &fakeSubmitter{}
	h := NewIntakeHandler(nil, submitter, &fakeReader{}, logger.NewTestLogger(t))

	payload := completePayload()
	payload["identity_verified"] = false

	rr := postJSON(t, h.SubmitApplication, "/api/applications", payload)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 0, submitter.calls)
}

func TestSubmitApplicationWrongFieldType(t *testing.T) {
	submitter := &fakeSubmitter{}
	h := NewIntakeHandler(nil, submitter, &fakeReader{}, logger.NewTestLogger(t))

	payload := completePayload()
	payload["monthly_income"] = 85000

	rr := postJSON(t, h.SubmitApplication, "/api/applications", payload)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 0, submitter.calls)
}

func TestUpdateApplicationUsesEditMode(t *testing.T) {
	submitter := &fakeSubmitter{result: &pipeline.Result{ApplicationID: "app-42", Outcome: pipeline.OutcomeSaved}}
	h := NewIntakeHandler(nil, submitter, &fakeReader{}, logger.NewTestLogger(t))

	// identity_verified false is allowed in edit mode.
	payload := completePayload()
	payload["identity_verified"] = false

	body, err := json.Marshal(payload)
	assert.NoError(t, err)

	router := chi.NewRouter()
	router.Put("/api/applications/{id}", h.UpdateApplication)

	req := httptest.NewRequest(http.MethodPut, "/api/applications/app-42", strings.NewReader(string(body)))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.True(t, submitter.lastState.Mode.IsEdit)
	assert.Equal(t, "app-42", submitter.lastState.Mode.TargetID)
}

func TestUpdateApplicationUnknownID(t *testing.T) {
	submitter := &fakeSubmitter{err: commonerrors.NewNotFoundError("missing")}
	h := NewIntakeHandler(nil, submitter, &fakeReader{}, logger.NewTestLogger(t))

	body, err := json.Marshal(completePayload())
	assert.NoError(t, err)

	router := chi.NewRouter()
	router.Put("/api/applications/{id}", h.UpdateApplication)

	req := httptest.NewRequest(http.MethodPut, "/api/applications/missing", strings.NewReader(string(body)))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetApplicationServesWizardView(t *testing.T) {
	reader := &fakeReader{record: &models.ApplicationRecord{
		ID:         "app-1",
		FullName:   "Asha Verma",
		DOB:        "1994-03-12",
		ParentName: "Ravi Verma",
		LoanAmount: 500000,
	}}
	h := NewIntakeHandler(nil, &fakeSubmitter{}, reader, logger.NewTestLogger(t))

	router := chi.NewRouter()
	router.Get("/api/applications/{id}", h.GetApplication)

	req := httptest.NewRequest(http.MethodGet, "/api/applications/app-1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "1994-03-12", body["date_of_birth"])
	assert.Equal(t, "Ravi Verma", body["parent_or_spouse_name"])
	assert.Equal(t, "500000", body["loan_amount_requested"])
}

func TestListApplications(t *testing.T) {
	applied := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	reader := &fakeReader{summaries: []models.ApplicationSummary{
		{ID: "app-1", LoanPurpose: "Education", LoanAmount: 500000, TenureMonths: 36, Status: models.StatusSubmitted, ApplicationDate: applied},
	}}
	h := NewIntakeHandler(nil, &fakeSubmitter{}, reader, logger.NewTestLogger(t))

	req := httptest.NewRequest(http.MethodGet, "/api/my-applications?email=asha.verma@example.com", nil)
	rr := httptest.NewRecorder()
	h.ListApplications(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var out []map[string]interface{}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Len(t, out, 1)
	assert.Equal(t, "app-1", out[0]["id"])
}

func TestListApplicationsRequiresEmail(t *testing.T) {
	h := NewIntakeHandler(nil, &fakeSubmitter{}, &fakeReader{}, logger.NewTestLogger(t))

	req := httptest.NewRequest(http.MethodGet, "/api/my-applications", nil)
	rr := httptest.NewRecorder()
	h.ListApplications(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSendAndVerifyOTPEndpoints(t *testing.T) {
	verifier, mr := newOTPService(t)
	h := NewIntakeHandler(verifier, &fakeSubmitter{}, &fakeReader{}, logger.NewTestLogger(t))

	rr := postJSON(t, h.SendOTP, "/api/send-otp", map[string]string{"phone": "9999999999"})
	assert.Equal(t, http.StatusOK, rr.Code)

	code, err := mr.Get("otp:9999999999")
	assert.NoError(t, err)

	// Wrong code first: not verified, challenge survives.
	rr = postJSON(t, h.VerifyOTP, "/api/verify-otp", map[string]string{"phone": "9999999999", "otp": "0000"})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, false, decodeBody(t, rr)["verified"])

	// Correct code verifies and consumes the challenge.
	rr = postJSON(t, h.VerifyOTP, "/api/verify-otp", map[string]string{"phone": "9999999999", "otp": code})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, decodeBody(t, rr)["verified"])

	// Replaying the same code fails.
	rr = postJSON(t, h.VerifyOTP, "/api/verify-otp", map[string]string{"phone": "9999999999", "otp": code})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, false, decodeBody(t, rr)["verified"])
}

func TestSendOTPRequiresPhone(t *testing.T) {
	verifier, _ := newOTPService(t)
	h := NewIntakeHandler(verifier, &fakeSubmitter{}, &fakeReader{}, logger.NewTestLogger(t))

	rr := postJSON(t, h.SendOTP, "/api/send-otp", map[string]string{"phone": "  "})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
