package clients

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printflowhq/printflow-backend/pkg/db/models"
	pkgerrors "github.com/printflowhq/printflow-backend/pkg/errors"
	"github.com/printflowhq/printflow-backend/pkg/pagination"
)

type stubClientsRepo struct {
	clients   map[uuid.UUID]*models.Client
	createErr error
	updateErr error
	deleteErr error
}

func newStubClientsRepo() *stubClientsRepo {
	return &stubClientsRepo{clients: make(map[uuid.UUID]*models.Client)}
}

func (s *stubClientsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubClientsRepo) Create(ctx context.Context, client *models.Client) error {
	if s.createErr != nil {
		return s.createErr
	}
	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	dup := *client
	s.clients[client.ID] = &dup
	return nil
}

func (s *stubClientsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	client, ok := s.clients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	dup := *client
	return &dup, nil
}

func (s *stubClientsRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := s.clients[id]
	return ok, nil
}

func (s *stubClientsRepo) Update(ctx context.Context, client *models.Client) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	dup := *client
	s.clients[client.ID] = &dup
	return nil
}

func (s *stubClientsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.clients[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.clients, id)
	return nil
}

func (s *stubClientsRepo) List(ctx context.Context, params pagination.Params, query string) (*pagination.Page[models.Client], error) {
	rows := make([]models.Client, 0, len(s.clients))
	for _, client := range s.clients {
		rows = append(rows, *client)
	}
	return &pagination.Page[models.Client]{Data: rows, Total: int64(len(rows))}, nil
}

func (s *stubClientsRepo) ListByBirthMonth(ctx context.Context, month time.Month) ([]models.Client, error) {
	return nil, nil
}

type uniqueErr struct{}

func (uniqueErr) Error() string { return `duplicate key value violates unique constraint "clients_email_key"` }

type fkErr struct{}

func (fkErr) Error() string { return `update or delete on table "clients" violates foreign key constraint "orders_client_id_fkey"` }

func newClientService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func TestCreateClient_TrimsAndNormalizes(t *testing.T) {
	repo := newStubClientsRepo()
	svc := newClientService(t, repo)

	email := "  Maria@Example.COM "
	client, err := svc.CreateClient(context.Background(), CreateClientInput{
		Name:  "  Maria Silva  ",
		Email: &email,
	})
	if err != nil {
		t.Fatalf("CreateClient returned error: %v", err)
	}
	if client.Name != "Maria Silva" {
		t.Fatalf("expected trimmed name, got %q", client.Name)
	}
	if client.Email == nil || *client.Email != "maria@example.com" {
		t.Fatalf("expected normalized email, got %v", client.Email)
	}
}

func TestCreateClient_BlankName(t *testing.T) {
	svc := newClientService(t, newStubClientsRepo())

	_, err := svc.CreateClient(context.Background(), CreateClientInput{Name: "   "})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}
}

func TestCreateClient_BlankEmailBecomesAbsent(t *testing.T) {
	svc := newClientService(t, newStubClientsRepo())

	email := "   "
	client, err := svc.CreateClient(context.Background(), CreateClientInput{Name: "Maria", Email: &email})
	if err != nil {
		t.Fatalf("CreateClient returned error: %v", err)
	}
	if client.Email != nil {
		t.Fatalf("expected blank email stored as absent, got %v", *client.Email)
	}
}

func TestCreateClient_DuplicateEmail(t *testing.T) {
	repo := newStubClientsRepo()
	repo.createErr = uniqueErr{}
	svc := newClientService(t, repo)

	email := "maria@example.com"
	_, err := svc.CreateClient(context.Background(), CreateClientInput{Name: "Maria", Email: &email})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
	if got := pkgerrors.As(err).Message(); got != "a client with this email already exists" {
		t.Fatalf("expected entity-aware conflict message, got %q", got)
	}
}

func TestUpdateClient_PartialFields(t *testing.T) {
	repo := newStubClientsRepo()
	svc := newClientService(t, repo)

	phone := "11999990000"
	created, err := svc.CreateClient(context.Background(), CreateClientInput{Name: "Maria", Phone: &phone})
	if err != nil {
		t.Fatalf("CreateClient returned error: %v", err)
	}

	newName := "Maria Souza"
	updated, err := svc.UpdateClient(context.Background(), created.ID, UpdateClientInput{Name: &newName})
	if err != nil {
		t.Fatalf("UpdateClient returned error: %v", err)
	}
	if updated.Name != "Maria Souza" {
		t.Fatalf("expected updated name, got %q", updated.Name)
	}
	if updated.Phone == nil || *updated.Phone != phone {
		t.Fatalf("expected untouched phone, got %v", updated.Phone)
	}
}

func TestUpdateClient_NotFound(t *testing.T) {
	svc := newClientService(t, newStubClientsRepo())

	name := "Maria"
	_, err := svc.UpdateClient(context.Background(), uuid.New(), UpdateClientInput{Name: &name})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteClient_ReferencedByOrders(t *testing.T) {
	repo := newStubClientsRepo()
	svc := newClientService(t, repo)

	created, err := svc.CreateClient(context.Background(), CreateClientInput{Name: "Maria"})
	if err != nil {
		t.Fatalf("CreateClient returned error: %v", err)
	}

	repo.deleteErr = fkErr{}
	err = svc.DeleteClient(context.Background(), created.ID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict for referenced client, got %v", err)
	}
}

func TestDeleteClient_NotFound(t *testing.T) {
	svc := newClientService(t, newStubClientsRepo())

	err := svc.DeleteClient(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
