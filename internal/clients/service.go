package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printflowhq/printflow-backend/pkg/db"
	"github.com/printflowhq/printflow-backend/pkg/db/models"
	pkgerrors "github.com/printflowhq/printflow-backend/pkg/errors"
	"github.com/printflowhq/printflow-backend/pkg/pagination"
)

// Service exposes client registry semantics.
type Service interface {
	CreateClient(ctx context.Context, input CreateClientInput) (*models.Client, error)
	GetClient(ctx context.Context, id uuid.UUID) (*models.Client, error)
	ListClients(ctx context.Context, params pagination.Params, query string) (*pagination.Page[models.Client], error)
	UpdateClient(ctx context.Context, id uuid.UUID, input UpdateClientInput) (*models.Client, error)
	DeleteClient(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds a client service backed by the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("clients repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateClient(ctx context.Context, input CreateClientInput) (*models.Client, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client name is required")
	}

	client := &models.Client{
		Name:      name,
		Phone:     input.Phone,
		Email:     normalizeEmail(input.Email),
		BirthDate: input.BirthDate,
		Notes:     input.Notes,
	}
	if err := s.repo.Create(ctx, client); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a client with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create client")
	}
	return client, nil
}

func (s *service) GetClient(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load client")
	}
	return client, nil
}

func (s *service) ListClients(ctx context.Context, params pagination.Params, query string) (*pagination.Page[models.Client], error) {
	page, err := s.repo.List(ctx, params.Normalize(), strings.TrimSpace(query))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list clients")
	}
	return page, nil
}

func (s *service) UpdateClient(ctx context.Context, id uuid.UUID, input UpdateClientInput) (*models.Client, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "client name is required")
		}
		client.Name = name
	}
	if input.Phone != nil {
		client.Phone = input.Phone
	}
	if input.Email != nil {
		client.Email = normalizeEmail(input.Email)
	}
	if input.BirthDate != nil {
		client.BirthDate = input.BirthDate
	}
	if input.Notes != nil {
		client.Notes = input.Notes
	}

	if err := s.repo.Update(ctx, client); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a client with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update client")
	}
	return client, nil
}

// DeleteClient removes a client. Clients with orders on file stay put; the
// foreign key violation is surfaced as a conflict instead of a raw error.
func (s *service) DeleteClient(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
	}
	if db.IsForeignKeyViolation(err) {
		return pkgerrors.New(pkgerrors.CodeConflict, "client cannot be deleted while orders reference it")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete client")
}

// normalizeEmail lowercases and trims, mapping blank to absent so the unique
// index never fires on empty strings.
func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	normalized := strings.ToLower(strings.TrimSpace(*email))
	if normalized == "" {
		return nil
	}
	return &normalized
}
