package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"backend/internal/catalog"
	"backend/internal/model"
	"backend/internal/reference"
	"backend/internal/repository"
	"backend/internal/validation"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// --- DTOs ---

// CouponEntry is one coupon row as entered in the form.
type CouponEntry struct {
	Code   string `json:"code"`
	Amount string `json:"amount"`
}

type SubmitCouponsRequest struct {
	Type       string        `json:"type" binding:"required"`
	Civility   string        `json:"civility" binding:"required"`
	LastName   string        `json:"lastName" binding:"required"`
	FirstName  string        `json:"firstName" binding:"required"`
	Email      string        `json:"email" binding:"required"`
	Phone      string        `json:"phone"`
	Country    string        `json:"country" binding:"required"`
	NumCoupons int           `json:"numCoupons" binding:"required"`
	HideCodes  bool          `json:"hideCodes"`
	Coupons    []CouponEntry `json:"coupons" binding:"required"`
}

type SubmitCouponsResponse struct {
	ReferenceNumber string `json:"referenceNumber"`
	Status          string `json:"status"`
	TrackingPath    string `json:"trackingPath"`
	CreatedAt       string `json:"createdAt"`
}

type UpdateStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	AdminNotes string `json:"adminNotes"`
}

// AdminSubmission is the back-office projection: unmasked codes plus the
// internal note fields the public tracking payload never exposes.
type AdminSubmission struct {
	model.Submission
	InternalNotes string `json:"internalNotes"`
	AdminNotes    string `json:"adminNotes"`
}

// --- Field validation errors ---

// FieldError is one field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates field failures. It is detected before any I/O,
// so a request failing validation has changed no state.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// --- Interface ---

// Publisher pushes tracking events to live subscribers. The websocket hub
// implements it; tests substitute a recorder.
type Publisher interface {
	Publish(ref string, event string, data interface{})
}

type SubmissionService interface {
	SubmitCoupons(ctx context.Context, req SubmitCouponsRequest, userAgent string) (SubmitCouponsResponse, error)
	GetTracking(ctx context.Context, ref string) (TrackingResponse, error)
	Attestation(ctx context.Context, ref string) (data []byte, filename string, err error)
	UpdateStatus(ctx context.Context, ref string, req UpdateStatusRequest, actor string) (AdminSubmission, error)
	MarkEmailSent(ctx context.Context, ref string, actor string) (AdminSubmission, error)
	ListSubmissions(ctx context.Context, filter repository.SubmissionListFilter) ([]AdminSubmission, int64, error)
	Statistics(ctx context.Context) (StatisticsResponse, error)
}

type submissionService struct {
	repo      repository.SubmissionRepository
	audit     repository.AuditRepository
	txManager repository.TransactionManager
	publisher Publisher
	logger    *zap.Logger
}

func NewSubmissionService(
	repo repository.SubmissionRepository,
	audit repository.AuditRepository,
	txManager repository.TransactionManager,
	publisher Publisher,
	logger *zap.Logger,
) SubmissionService {
	return &submissionService{
		repo:      repo,
		audit:     audit,
		txManager: txManager,
		publisher: publisher,
		logger:    logger,
	}
}

// --- Submission flow ---

func (s *submissionService) SubmitCoupons(ctx context.Context, req SubmitCouponsRequest, userAgent string) (SubmitCouponsResponse, error) {
	// The form keeps the row list reconciled against numCoupons on every
	// change; re-apply the same reconciliation here so the stored invariant
	// len(coupons) == numCoupons cannot depend on client behavior.
	req.NumCoupons = validation.ClampNumCoupons(req.NumCoupons)
	req.Coupons = validation.Resize(req.Coupons, req.NumCoupons)

	if err := s.validate(req); err != nil {
		return SubmitCouponsResponse{}, err
	}

	submission := buildSubmission(req, userAgent)

	if !reference.IsValid(submission.ReferenceNumber) {
		return SubmitCouponsResponse{}, fmt.Errorf("generated reference %q failed validation", submission.ReferenceNumber)
	}

	// Pre-write existence check: a colliding reference must never silently
	// overwrite another submission. The primary key backs this up at the
	// store level.
	exists, err := s.repo.ExistsByReference(ctx, submission.ReferenceNumber)
	if err != nil {
		return SubmitCouponsResponse{}, fmt.Errorf("failed to check reference: %w", err)
	}
	if exists {
		return SubmitCouponsResponse{}, repository.ErrDuplicateReference
	}

	if err := s.repo.Create(ctx, submission); err != nil {
		s.logger.Error("submission create failed",
			zap.String("reference", submission.ReferenceNumber), zap.Error(err))
		return SubmitCouponsResponse{}, fmt.Errorf("failed to save submission: %w", err)
	}

	s.logger.Info("submission created",
		zap.String("reference", submission.ReferenceNumber),
		zap.String("type", submission.Type),
		zap.Int("numCoupons", submission.NumCoupons))

	return SubmitCouponsResponse{
		ReferenceNumber: submission.ReferenceNumber,
		Status:          submission.Status,
		TrackingPath:    "/tracking/" + submission.ReferenceNumber,
		CreatedAt:       submission.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (s *submissionService) validate(req SubmitCouponsRequest) error {
	verr := &ValidationError{}

	svc, known := catalog.FindByName(req.Type)
	if !known {
		verr.add("type", "unrecognized coupon type")
	}

	if req.Civility == "" {
		verr.add("civility", "required")
	}
	requireBoundedName(verr, "lastName", req.LastName)
	requireBoundedName(verr, "firstName", req.FirstName)

	if err := validation.ValidateEmail(req.Email); err != nil {
		verr.add("email", err.Error())
	} else if len(req.Email) > validation.MaxEmailLen {
		verr.add("email", fmt.Sprintf("must be at most %d characters", validation.MaxEmailLen))
	}
	if len(req.Phone) > validation.MaxPhoneLen {
		verr.add("phone", fmt.Sprintf("must be at most %d characters", validation.MaxPhoneLen))
	}
	if req.Country == "" {
		verr.add("country", "required")
	}

	for i, coupon := range req.Coupons {
		field := fmt.Sprintf("coupons[%d]", i)
		code := strings.TrimSpace(coupon.Code)
		if code == "" {
			verr.add(field+".code", "required")
		} else if known && !validation.ValidateCouponCode(code, svc.Slug) {
			verr.add(field+".code", validation.CouponCodeErrorMessage(svc.Slug))
		}
		if !validation.IsNumericAmount(strings.TrimSpace(coupon.Amount)) {
			verr.add(field+".amount", "invalid amount")
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func requireBoundedName(verr *ValidationError, field, value string) {
	if value == "" {
		verr.add(field, "required")
		return
	}
	if len(value) > validation.MaxNameLen {
		verr.add(field, fmt.Sprintf("must be at most %d characters", validation.MaxNameLen))
	}
}

// buildSubmission transforms validated form input into the persistable
// record: reference number, normalized codes, sequential coupon ids,
// derived full name and total, initial lifecycle fields.
func buildSubmission(req SubmitCouponsRequest, userAgent string) *model.Submission {
	coupons := make([]model.Coupon, 0, len(req.Coupons))
	total := decimal.Zero
	for i, entry := range req.Coupons {
		// The form uppercases as the user types, but the stored record must
		// not depend on that.
		code := strings.ToUpper(strings.TrimSpace(entry.Code))
		amount := strings.TrimSpace(entry.Amount)
		coupons = append(coupons, model.Coupon{
			Seq:    i + 1,
			Code:   code,
			Amount: amount,
			Status: model.StatusPending,
		})
		total = total.Add(validation.ParseAmount(amount))
	}

	return &model.Submission{
		ReferenceNumber: reference.Generate(),
		Type:            req.Type,
		Status:          model.StatusPending,
		Civility:        req.Civility,
		LastName:        req.LastName,
		FirstName:       req.FirstName,
		FullName:        req.Civility + " " + req.FirstName + " " + req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		Country:         req.Country,
		NumCoupons:      req.NumCoupons,
		HideCodes:       req.HideCodes,
		Coupons:         coupons,
		TotalAmount:     total,
		EmailSent:       false,
		UserAgent:       userAgent,
	}
}

// --- Tracking read ---

func (s *submissionService) GetTracking(ctx context.Context, ref string) (TrackingResponse, error) {
	submission, err := s.repo.FindByReference(ctx, ref)
	if err != nil {
		return TrackingResponse{}, err
	}
	return toTrackingResponse(submission), nil
}

// --- External-actor write path ---

// UpdateStatus applies a status change from the verification back office.
// The status set is closed at this boundary; display stays permissive for
// whatever is already stored.
func (s *submissionService) UpdateStatus(ctx context.Context, ref string, req UpdateStatusRequest, actor string) (AdminSubmission, error) {
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if !model.IsKnownStatus(status) {
		return AdminSubmission{}, &ValidationError{Fields: []FieldError{{
			Field:   "status",
			Message: "must be one of pending, processing, completed, verified, rejected",
		}}}
	}

	var submission *model.Submission
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		submission, findErr = s.repo.FindByReference(txCtx, ref)
		if findErr != nil {
			return findErr
		}

		now := time.Now()
		submission.Status = status
		if req.AdminNotes != "" {
			submission.AdminNotes = req.AdminNotes
		}
		if status == model.StatusProcessing && submission.ProcessingStartedAt == nil {
			submission.ProcessingStartedAt = &now
		}
		if model.IsTerminalStatus(status) && submission.ProcessingCompletedAt == nil {
			submission.ProcessingCompletedAt = &now
		}

		if updateErr := s.repo.Update(txCtx, submission); updateErr != nil {
			return fmt.Errorf("failed to update submission: %w", updateErr)
		}
		if fanErr := s.repo.UpdateCouponStatuses(txCtx, ref, status); fanErr != nil {
			return fanErr
		}
		return s.recordAudit(txCtx, actor, model.ActionUpdateStatus, ref, map[string]string{
			"status":     status,
			"adminNotes": req.AdminNotes,
		})
	})
	if err != nil {
		return AdminSubmission{}, err
	}

	s.logger.Info("submission status updated",
		zap.String("reference", ref), zap.String("status", status))

	return s.reloadAndPublish(ctx, ref)
}

func (s *submissionService) MarkEmailSent(ctx context.Context, ref string, actor string) (AdminSubmission, error) {
	submission, err := s.repo.FindByReference(ctx, ref)
	if err != nil {
		return AdminSubmission{}, err
	}

	now := time.Now()
	submission.EmailSent = true
	submission.EmailSentAt = &now
	if err := s.repo.Update(ctx, submission); err != nil {
		return AdminSubmission{}, fmt.Errorf("failed to update submission: %w", err)
	}
	if err := s.recordAudit(ctx, actor, model.ActionMarkEmailSent, ref, nil); err != nil {
		return AdminSubmission{}, err
	}

	return s.reloadAndPublish(ctx, ref)
}

// recordAudit appends the action to the back-office trail.
func (s *submissionService) recordAudit(ctx context.Context, actor, action, ref string, details map[string]string) error {
	entry := &model.AuditLog{
		Actor:     actor,
		Action:    action,
		Reference: ref,
	}
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			return err
		}
		entry.Details = string(raw)
	}
	if err := s.audit.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// reloadAndPublish re-reads the stored document and pushes it to any live
// tracking subscribers of the reference.
func (s *submissionService) reloadAndPublish(ctx context.Context, ref string) (AdminSubmission, error) {
	reloaded, err := s.repo.FindByReference(ctx, ref)
	if err != nil {
		return AdminSubmission{}, fmt.Errorf("failed to reload submission: %w", err)
	}

	if s.publisher != nil {
		s.publisher.Publish(ref, "updated", toTrackingResponse(reloaded))
	}

	return toAdminSubmission(reloaded), nil
}

// --- Back-office listing ---

func (s *submissionService) ListSubmissions(ctx context.Context, filter repository.SubmissionListFilter) ([]AdminSubmission, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	submissions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch submissions: %w", err)
	}

	result := make([]AdminSubmission, 0, len(submissions))
	for i := range submissions {
		result = append(result, toAdminSubmission(&submissions[i]))
	}
	return result, total, nil
}

func toAdminSubmission(sub *model.Submission) AdminSubmission {
	return AdminSubmission{
		Submission:    *sub,
		InternalNotes: sub.InternalNotes,
		AdminNotes:    sub.AdminNotes,
	}
}

// IsNotFound reports whether err is the gateway's not-found outcome, which
// callers render as a dedicated screen rather than a transport error.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
