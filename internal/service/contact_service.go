package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/validation"

	"go.uber.org/zap"
)

type ContactRequest struct {
	Civility  string `json:"civility"`
	LastName  string `json:"lastName" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Phone     string `json:"phone"`
	Subject   string `json:"subject" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

type ContactResponse struct {
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt"`
}

type ContactService interface {
	SubmitMessage(ctx context.Context, req ContactRequest, userAgent string) (ContactResponse, error)
}

type contactService struct {
	repo   repository.ContactRepository
	logger *zap.Logger
}

func NewContactService(repo repository.ContactRepository, logger *zap.Logger) ContactService {
	return &contactService{repo: repo, logger: logger}
}

func (s *contactService) SubmitMessage(ctx context.Context, req ContactRequest, userAgent string) (ContactResponse, error) {
	if err := validateContact(req); err != nil {
		return ContactResponse{}, err
	}

	message := &model.ContactMessage{
		Civility:  req.Civility,
		LastName:  req.LastName,
		FirstName: req.FirstName,
		Email:     req.Email,
		Phone:     req.Phone,
		Subject:   req.Subject,
		Message:   req.Message,
		Type:      "contact",
		UserAgent: userAgent,
	}

	if err := s.repo.Create(ctx, message); err != nil {
		s.logger.Error("contact message create failed", zap.Error(err))
		return ContactResponse{}, fmt.Errorf("failed to save message: %w", err)
	}

	return ContactResponse{
		ID:        message.ID.String(),
		CreatedAt: message.CreatedAt.Format(time.RFC3339),
	}, nil
}

func validateContact(req ContactRequest) error {
	verr := &ValidationError{}

	requireBoundedName(verr, "lastName", req.LastName)
	requireBoundedName(verr, "firstName", req.FirstName)
	if err := validation.ValidateEmail(req.Email); err != nil {
		verr.add("email", err.Error())
	}
	if len(req.Phone) > validation.MaxPhoneLen {
		verr.add("phone", fmt.Sprintf("must be at most %d characters", validation.MaxPhoneLen))
	}
	if req.Subject == "" {
		verr.add("subject", "required")
	} else if len(req.Subject) > validation.MaxSubjectLen {
		verr.add("subject", fmt.Sprintf("must be at most %d characters", validation.MaxSubjectLen))
	}
	if req.Message == "" {
		verr.add("message", "required")
	} else if len(req.Message) > validation.MaxMessageLen {
		verr.add("message", fmt.Sprintf("must be at most %d characters", validation.MaxMessageLen))
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}
