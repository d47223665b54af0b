package clients

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/facturio/facturio/internal/common"
	"github.com/facturio/facturio/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func strPtr(s string) *string { return &s }

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+clients\s*\(nom,\s*email,\s*telephone\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id\s*$`

	rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(7))
	mock.ExpectQuery(q).
		WithArgs("Acme", "acme@example.com", strPtr("+33123456789")).
		WillReturnRows(rows)

	c := &models.Client{Nom: "Acme", Email: "acme@example.com", Telephone: strPtr("+33123456789")}
	got, err := repo.Create(context.Background(), c)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 7 {
		t.Fatalf("unexpected client: %+v", got)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+clients`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Client{Nom: "Acme", Email: "acme@example.com"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*nom,\s*email,\s*telephone\s+FROM\s+clients\s+WHERE\s+id\s*=\s*\$1\s*$`

	rows := sqlmock.NewRows([]string{"id", "nom", "email", "telephone"}).
		AddRow(int64(7), "Acme", "acme@example.com", nil)
	mock.ExpectQuery(q).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Nom != "Acme" || got.Telephone != nil {
		t.Fatalf("unexpected client: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+clients\s+WHERE\s+id\s*=\s*\$1\s*$`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestList_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*FROM\s+clients\s+ORDER\s+BY\s+id\s+OFFSET\s+\$1\s+LIMIT\s+\$2\s*$`

	rows := sqlmock.NewRows([]string{"id", "nom", "email", "telephone"}).
		AddRow(int64(1), "Acme", "acme@example.com", "+3312345").
		AddRow(int64(2), "Globex", "globex@example.com", nil)
	mock.ExpectQuery(q).
		WithArgs(0, 100).
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), 0, 100)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[1].Nom != "Globex" {
		t.Fatalf("unexpected clients: %+v", got)
	}
}

func TestUpdate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+clients\s+SET\s+nom\s*=\s*\$2,\s*email\s*=\s*\$3,\s*telephone\s*=\s*\$4\s+WHERE\s+id\s*=\s*\$1\s+RETURNING\s+id,\s*nom,\s*email,\s*telephone\s*$`

	rows := sqlmock.NewRows([]string{"id", "nom", "email", "telephone"}).
		AddRow(int64(7), "Acme Corp", "acme@example.com", nil)
	mock.ExpectQuery(q).
		WithArgs(int64(7), "Acme Corp", "acme@example.com", nil).
		WillReturnRows(rows)

	c := &models.Client{ID: 7, Nom: "Acme Corp", Email: "acme@example.com"}
	got, err := repo.Update(context.Background(), c)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.Nom != "Acme Corp" {
		t.Fatalf("unexpected client: %+v", got)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^UPDATE\s+clients\s+SET`).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), &models.Client{ID: 99, Nom: "Ghost", Email: "g@example.com"})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+clients\s+WHERE\s+id\s*=\s*\$1\s*$`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), 7); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+clients\s+WHERE\s+id\s*=\s*\$1\s*$`).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), 99); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
