package service

import (
	"context"
	"fmt"
	"time"

	"rentalfleet/internal/repository"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username,omitempty"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name,omitempty"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

type AuditService interface {
	ListAuditLogs(ctx context.Context, action string, page, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) ListAuditLogs(ctx context.Context, action string, page, limit int) ([]AuditLogResponse, int64, error) {
	entries, total, err := s.repo.List(ctx, action, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}

	res := make([]AuditLogResponse, 0, len(entries))
	for _, e := range entries {
		entry := AuditLogResponse{
			ID:         e.ID.String(),
			Action:     e.Action,
			EntityID:   e.EntityID,
			EntityName: e.EntityName,
			Details:    e.Details,
			CreatedAt:  e.CreatedAt.Format(time.RFC3339),
		}
		if e.User != nil {
			entry.Username = e.User.Username
		}
		res = append(res, entry)
	}

	return res, total, nil
}
