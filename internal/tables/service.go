package tables

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mesaqr/mesaqr-backend/pkg/db/models"
	pkgerrors "github.com/mesaqr/mesaqr-backend/pkg/errors"
	"gorm.io/gorm"
)

// MintInput describes a new table token. The session window is optional; a
// token without one is valid whenever it is active.
type MintInput struct {
	TableNumber  int        `json:"table_number" validate:"gt=0"`
	SessionStart *time.Time `json:"session_start"`
	SessionEnd   *time.Time `json:"session_end"`
}

// Service owns the QR table token lifecycle. Rendering the QR image from a
// token URL is left to the admin frontend.
type Service interface {
	Mint(ctx context.Context, input MintInput) (*models.TableToken, error)
	List(ctx context.Context) ([]models.TableToken, error)
	SetActive(ctx context.Context, id uint, active bool) error
	Resolve(ctx context.Context, token string) (*models.TableToken, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds the table token service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tables repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// Mint creates an active token with a fresh opaque value.
func (s *service) Mint(ctx context.Context, input MintInput) (*models.TableToken, error) {
	if input.TableNumber <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "table number must be positive")
	}
	if input.SessionStart != nil && input.SessionEnd != nil && input.SessionEnd.Before(*input.SessionStart) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session window ends before it starts")
	}

	token := &models.TableToken{
		Token:        uuid.NewString(),
		TableNumber:  input.TableNumber,
		IsActive:     true,
		SessionStart: input.SessionStart,
		SessionEnd:   input.SessionEnd,
	}
	created, err := s.repo.Create(ctx, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create table token")
	}
	return created, nil
}

func (s *service) List(ctx context.Context) ([]models.TableToken, error) {
	tokens, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list table tokens")
	}
	return tokens, nil
}

func (s *service) SetActive(ctx context.Context, id uint, active bool) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "table token not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load table token")
	}
	if err := s.repo.Update(ctx, id, map[string]any{"is_active": active}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update table token")
	}
	return nil
}

// Resolve validates a scanned token for the menu page and records the scan.
// Invalid and unknown tokens are indistinguishable to the caller.
func (s *service) Resolve(ctx context.Context, token string) (*models.TableToken, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "token required")
	}

	record, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Mesa inactiva")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load table token")
	}

	now := s.now()
	if !record.ValidAt(now) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Mesa inactiva")
	}

	if err := s.repo.Touch(ctx, record.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "touch table token")
	}
	record.LastUsed = &now
	return record, nil
}
