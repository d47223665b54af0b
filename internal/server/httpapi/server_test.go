package httpapi

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/facturio/facturio/internal/common"
	"github.com/facturio/facturio/internal/dbx"
	"github.com/facturio/facturio/internal/logging"
	"github.com/facturio/facturio/internal/server/auth"
	sc "github.com/facturio/facturio/internal/server/config"
	"github.com/facturio/facturio/internal/server/models"
	attachmentsrepo "github.com/facturio/facturio/internal/server/repositories/attachments"
	clientsrepo "github.com/facturio/facturio/internal/server/repositories/clients"
	facturesrepo "github.com/facturio/facturio/internal/server/repositories/factures"
	reclamationsrepo "github.com/facturio/facturio/internal/server/repositories/reclamations"
	usersrepo "github.com/facturio/facturio/internal/server/repositories/users"
	"github.com/facturio/facturio/internal/server/services"
	"github.com/gin-gonic/gin"
)

// in-memory repositories backing the HTTP tests

type memUsers struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*models.User
}

func newMemUsers() *memUsers { return &memUsers{nextID: 1, items: map[int64]*models.User{}} }

func (m *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = m.nextID
	m.nextID++
	u.CreatedAt = time.Now()
	cp := *u
	m.items[u.ID] = &cp
	return u, nil
}

func (m *memUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.items[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.items {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.items {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) List(ctx context.Context, skip, limit int) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.User
	for id := int64(1); id < m.nextID; id++ {
		if u, ok := m.items[id]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	if skip >= len(out) {
		return nil, nil
	}
	out = out[skip:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memUsers) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.items[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *memUsers) SetActive(ctx context.Context, id int64, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.items[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.IsActive = active
	return nil
}

func (m *memUsers) SetRole(ctx context.Context, id int64, role models.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.items[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Role = role
	return nil
}

type memClients struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*models.Client
}

func newMemClients() *memClients { return &memClients{nextID: 1, items: map[int64]*models.Client{}} }

func (m *memClients) Create(ctx context.Context, c *models.Client) (*models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.nextID
	m.nextID++
	cp := *c
	m.items[c.ID] = &cp
	return c, nil
}

func (m *memClients) GetByID(ctx context.Context, id int64) (*models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.items[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (m *memClients) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.items {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memClients) List(ctx context.Context, skip, limit int) ([]*models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Client
	for id := int64(1); id < m.nextID; id++ {
		if c, ok := m.items[id]; ok {
			cp := *c
			out = append(out, &cp)
		}
	}
	if skip >= len(out) {
		return nil, nil
	}
	out = out[skip:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memClients) Update(ctx context.Context, c *models.Client) (*models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[c.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	m.items[c.ID] = &cp
	return c, nil
}

func (m *memClients) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.items, id)
	return nil
}

type memFactures struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*models.Facture
}

func newMemFactures() *memFactures {
	return &memFactures{nextID: 1, items: map[int64]*models.Facture{}}
}

func (m *memFactures) Create(ctx context.Context, f *models.Facture) (*models.Facture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f.ID = m.nextID
	m.nextID++
	cp := *f
	m.items[f.ID] = &cp
	return f, nil
}

func (m *memFactures) GetByID(ctx context.Context, id int64) (*models.Facture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.items[id]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (m *memFactures) GetByNumero(ctx context.Context, numero string) (*models.Facture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.items {
		if f.Numero == numero {
			cp := *f
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memFactures) List(ctx context.Context, skip, limit int) ([]*models.Facture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Facture
	for id := int64(1); id < m.nextID; id++ {
		if f, ok := m.items[id]; ok {
			cp := *f
			out = append(out, &cp)
		}
	}
	if skip >= len(out) {
		return nil, nil
	}
	out = out[skip:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memFactures) ListByClient(ctx context.Context, clientID int64) ([]*models.Facture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Facture
	for id := int64(1); id < m.nextID; id++ {
		if f, ok := m.items[id]; ok && f.ClientID == clientID {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memFactures) UpdateStatut(ctx context.Context, id int64, statut models.StatutFacture) (*models.Facture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	f.Statut = statut
	cp := *f
	return &cp, nil
}

func (m *memFactures) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.items, id)
	return nil
}

type memReclamations struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*models.Reclamation
}

func newMemReclamations() *memReclamations {
	return &memReclamations{nextID: 1, items: map[int64]*models.Reclamation{}}
}

func (m *memReclamations) Create(ctx context.Context, r *models.Reclamation) (*models.Reclamation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = m.nextID
	m.nextID++
	r.DateCreation = time.Now()
	cp := *r
	m.items[r.ID] = &cp
	return r, nil
}

func (m *memReclamations) GetByID(ctx context.Context, id int64) (*models.Reclamation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.items[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (m *memReclamations) List(ctx context.Context, skip, limit int) ([]*models.Reclamation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Reclamation
	for id := int64(1); id < m.nextID; id++ {
		if r, ok := m.items[id]; ok {
			cp := *r
			out = append(out, &cp)
		}
	}
	if skip >= len(out) {
		return nil, nil
	}
	out = out[skip:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memReclamations) ListByClient(ctx context.Context, clientID int64) ([]*models.Reclamation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Reclamation
	for id := int64(1); id < m.nextID; id++ {
		if r, ok := m.items[id]; ok && r.ClientID == clientID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memReclamations) UpdateStatut(ctx context.Context, id int64, statut models.StatutReclamation) (*models.Reclamation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	r.Statut = statut
	cp := *r
	return &cp, nil
}

func (m *memReclamations) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.items, id)
	return nil
}

type memAttachments struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*models.Attachment
}

func newMemAttachments() *memAttachments {
	return &memAttachments{nextID: 1, items: map[int64]*models.Attachment{}}
}

func (m *memAttachments) Create(ctx context.Context, a *models.Attachment) (*models.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = m.nextID
	m.nextID++
	a.CreatedAt = time.Now()
	cp := *a
	m.items[a.ID] = &cp
	return a, nil
}

func (m *memAttachments) GetByID(ctx context.Context, id int64) (*models.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.items[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (m *memAttachments) ListByReclamation(ctx context.Context, reclamationID int64) ([]*models.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Attachment
	for id := int64(1); id < m.nextID; id++ {
		if a, ok := m.items[id]; ok && a.ReclamationID == reclamationID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memAttachments) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.items, id)
	return nil
}

type memRepoManager struct {
	users        *memUsers
	clients      *memClients
	factures     *memFactures
	reclamations *memReclamations
	attachments  *memAttachments
}

func newMemRepoManager() *memRepoManager {
	return &memRepoManager{
		users:        newMemUsers(),
		clients:      newMemClients(),
		factures:     newMemFactures(),
		reclamations: newMemReclamations(),
		attachments:  newMemAttachments(),
	}
}

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.users }
func (m *memRepoManager) Clients(db dbx.DBTX) clientsrepo.Repository   { return m.clients }
func (m *memRepoManager) Factures(db dbx.DBTX) facturesrepo.Repository { return m.factures }
func (m *memRepoManager) Reclamations(db dbx.DBTX) reclamationsrepo.Repository {
	return m.reclamations
}
func (m *memRepoManager) Attachments(db dbx.DBTX) attachmentsrepo.Repository { return m.attachments }

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger           { return l }

type testEnv struct {
	router *gin.Engine
	rm     *memRepoManager
	codec  *auth.TokenCodec
	db     *sql.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	codec, err := auth.NewTokenCodec("test-secret", auth.DefaultAlgorithm, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec error: %v", err)
	}

	rm := newMemRepoManager()
	hasher := auth.NewArgon2idHasher()
	cfg := &sc.Config{S3Bucket: "facturio", S3Region: "us-east-1", S3BaseEndpoint: "http://localhost:9000"}

	users := services.NewUserService(db, rm, hasher, codec, nopLogger{})
	clients := services.NewClientService(db, rm)
	factures := services.NewFactureService(db, rm)
	reclamations := services.NewReclamationService(db, rm, cfg)

	srv := NewServer(users, clients, factures, reclamations, codec, nopLogger{})
	return &testEnv{router: srv.Router(), rm: rm, codec: codec, db: db}
}
