package service

import (
	"context"

	"backend/internal/model"
	"backend/internal/repository"
)

// AuditEntry is one back-office action as shown in the trail.
type AuditEntry struct {
	ID        string `json:"id"`
	Actor     string `json:"actor"`
	Action    string `json:"action"`
	Reference string `json:"reference"`
	Details   string `json:"details"`
	CreatedAt string `json:"createdAt"`
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, reference string, page, limit int) ([]AuditEntry, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) GetAuditLogs(ctx context.Context, reference string, page, limit int) ([]AuditEntry, int64, error) {
	logs, total, err := s.repo.List(ctx, reference, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]AuditEntry, 0, len(logs))
	for _, l := range logs {
		res = append(res, toAuditEntry(l))
	}
	return res, total, nil
}

func toAuditEntry(l model.AuditLog) AuditEntry {
	actor := l.Actor
	if actor == "" {
		actor = "system"
	}
	return AuditEntry{
		ID:        l.ID.String(),
		Actor:     actor,
		Action:    l.Action,
		Reference: l.Reference,
		Details:   l.Details,
		CreatedAt: l.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
