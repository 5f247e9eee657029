// internal/handler/intake.go
package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	commonerrors "yesloans-backend/internal/common/errors"
	"yesloans-backend/internal/common/logger"
	"yesloans-backend/internal/common/validation"
	"yesloans-backend/internal/models"
	"yesloans-backend/internal/pipeline"
	"yesloans-backend/internal/wizard"
)

// OTPService issues and verifies phone challenges.
type OTPService interface {
	Send(ctx context.Context, contact string) error
	Verify(ctx context.Context, contact, submitted string) (bool, error)
}

// Submitter runs the submission pipeline for a completed wizard state.
type Submitter interface {
	Submit(ctx context.Context, state wizard.State) (*pipeline.Result, error)
}

// ApplicationReader serves the read side of the intake API.
type ApplicationReader interface {
	GetByID(ctx context.Context, id string) (*models.ApplicationRecord, error)
	ListByOwner(ctx context.Context, email string) ([]models.ApplicationSummary, error)
}

type IntakeHandler struct {
	otp       OTPService
	submitter Submitter
	reader    ApplicationReader
	logger    logger.Logger
}

func NewIntakeHandler(otp OTPService, submitter Submitter, reader ApplicationReader, log logger.Logger) *IntakeHandler {
	return &IntakeHandler{
		otp:       otp,
		submitter: submitter,
		reader:    reader,
		logger:    log,
	}
}

func (h *IntakeHandler) RegisterRoutes(r chi.Router) {
	r.Post("/send-otp", h.SendOTP)
	r.Post("/verify-otp", h.VerifyOTP)
	r.Post("/applications", h.SubmitApplication)
	r.Put("/applications/{id}", h.UpdateApplication)
	r.Get("/applications/{id}", h.GetApplication)
	r.Get("/my-applications", h.ListApplications)
}

type otpRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

func (h *IntakeHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "invalid JSON body"})
		return
	}

	if err := h.otp.Send(r.Context(), req.Phone); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "OTP sent"})
}

func (h *IntakeHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "invalid JSON body"})
		return
	}

	verified, err := h.otp.Verify(r.Context(), req.Phone, req.OTP)
	if err != nil {
		writeError(w, err)
		return
	}

	message := "OTP verified"
	if !verified {
		message = "Invalid OTP"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"verified": verified,
		"message":  message,
	})
}

func (h *IntakeHandler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	h.handleSubmission(w, r, wizard.CreateMode())
}

func (h *IntakeHandler) UpdateApplication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "application id required"})
		return
	}
	h.handleSubmission(w, r, wizard.EditMode(id))
}

func (h *IntakeHandler) handleSubmission(w http.ResponseWriter, r *http.Request, mode wizard.Mode) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "failed to read request body"})
		return
	}

	// Shape gate first, then the typed decode.
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "invalid JSON body"})
		return
	}

	result, err := validation.ValidateInput(raw, submissionSchema)
	if err != nil {
		writeError(w, commonerrors.NewValidationError(err.Error()))
		return
	}
	if !result.Valid {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":      "Application data failed validation",
			"code":       commonerrors.ErrCodeValidationFailed,
			"violations": result.Errors,
		})
		return
	}

	var fields wizard.Fields
	if err := json.Unmarshal(body, &fields); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "invalid JSON body"})
		return
	}

	state := wizard.Submission(fields, mode)
	if violations := validateAllSteps(state); len(violations) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":      "Application data failed validation",
			"code":       commonerrors.ErrCodeValidationFailed,
			"violations": violations,
		})
		return
	}

	pipelineResult, err := h.submitter.Submit(r.Context(), state)
	if err != nil {
		writeError(w, err)
		return
	}

	message := "Application Saved & Detailed Email Sent!"
	if pipelineResult.Outcome == pipeline.OutcomeDegraded {
		message = "Application Saved (Email failed)"
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":        message,
		"application_id": pipelineResult.ApplicationID,
	})
}

func (h *IntakeHandler) GetApplication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.reader.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	// Serve the wizard-schema view so the form can prefill directly.
	writeJSON(w, http.StatusOK, wizard.FromRecord(rec))
}

func (h *IntakeHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "email query parameter required"})
		return
	}

	summaries, err := h.reader.ListByOwner(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summaries)
}

// validateAllSteps runs every step gate against a final-step state, so a
// submission cannot skip the per-step requirements by posting directly.
func validateAllSteps(state wizard.State) []wizard.FieldViolation {
	var violations []wizard.FieldViolation
	for step := wizard.FirstStep; step <= wizard.FinalStep; step++ {
		violations = append(violations, state.Validate(step)...)
	}
	return violations
}
