package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/IDM-desaive/formbricks/pkg/model"
	"github.com/IDM-desaive/formbricks/pkg/storage"
)

func newSessionStore(db *sqlx.DB) *sessionStore {
	return &sessionStore{
		db: db,
	}
}

type sessionStore struct {
	db *sqlx.DB
}

type sqlDataSession struct {
	ID          string         `db:"id"`
	PersonID    sql.NullString `db:"person_id"`
	TransPerson []byte         `db:"trans_person"`
	ExpiresAt   time.Time      `db:"expires_at"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

var sqlParamsSession = []string{
	"id",
	"person_id",
	"trans_person",
	"expires_at",
	"created_at",
	"updated_at",
}

func (d *sqlDataSession) Scan(m *model.Session) error {
	var createdAt, updatedAt = m.CreatedAt, m.UpdatedAt

	if m.CreatedAt.IsZero() {
		createdAt = time.Now().Round(time.Second).UTC()
	}

	if m.UpdatedAt.IsZero() {
		updatedAt = time.Now().Round(time.Second).UTC()
	}

	d.ID = m.ID
	d.PersonID = sql.NullString{}
	if m.PersonID != nil {
		d.PersonID = sql.NullString{String: *m.PersonID, Valid: true}
	}
	d.TransPerson = nil
	if m.TransPerson != nil {
		data, err := json.Marshal(m.TransPerson)
		if err != nil {
			return errors.Wrap(err, "failed to marshal transient person snapshot")
		}
		d.TransPerson = data
	}
	d.ExpiresAt = m.ExpiresAt
	d.CreatedAt = createdAt
	d.UpdatedAt = updatedAt

	return nil
}

func (d *sqlDataSession) Model() (*model.Session, error) {
	m := &model.Session{
		ID:        d.ID,
		ExpiresAt: d.ExpiresAt,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}

	if d.PersonID.Valid {
		personID := d.PersonID.String
		m.PersonID = &personID
	}

	if len(d.TransPerson) > 0 {
		p := &model.Person{}
		if err := json.Unmarshal(d.TransPerson, p); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal transient person snapshot")
		}
		if p.Attributes == nil {
			p.Attributes = make(map[string]string)
		}
		m.TransPerson = p
	}

	return m, nil
}

func (s *sessionStore) FindByID(id string) (*model.Session, error) {
	return findSessionByID(s.db, id)
}

func (s *sessionStore) FindByTransientPersonID(personID string) (*model.Session, error) {
	return findSessionByTransientPersonID(s.db, personID)
}

func (s *sessionStore) Create(m *model.Session) error {
	return createSession(s.db, m)
}

func (s *sessionStore) Update(m *model.Session) error {
	return updateSession(s.db, m)
}

func findSessionByID(db *sqlx.DB, id string) (*model.Session, error) {
	d := sqlDataSession{}
	query := "SELECT * FROM sessions WHERE id=$1"
	if err := db.Get(&d, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find session")
	}

	return d.Model()
}

func findSessionByTransientPersonID(db *sqlx.DB, personID string) (*model.Session, error) {
	d := sqlDataSession{}
	query := "SELECT * FROM sessions WHERE trans_person->>'id'=$1 LIMIT 1"
	if err := db.Get(&d, query, personID); err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find session by transient person")
	}

	return d.Model()
}

func createSession(db *sqlx.DB, m *model.Session) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	d := sqlDataSession{}
	if err := d.Scan(m); err != nil {
		return errors.Wrap(err, "failed to convert session model to SQL data")
	}

	query := fmt.Sprintf(
		"INSERT INTO sessions (%s) VALUES (%s)",
		strings.Join(sqlParamsSession, ", "),
		":"+strings.Join(sqlParamsSession, ", :"),
	)
	if _, err := db.NamedExec(query, d); err != nil {
		return errors.Wrap(err, "failed to create session")
	}

	m.CreatedAt = d.CreatedAt
	m.UpdatedAt = d.UpdatedAt

	return nil
}

func updateSession(db *sqlx.DB, m *model.Session) error {
	if _, err := findSessionByID(db, m.ID); err != nil {
		return err
	}

	// Set the UpdateAt date to now
	m.UpdatedAt = time.Now().Round(time.Second).UTC()

	d := sqlDataSession{}
	if err := d.Scan(m); err != nil {
		return errors.Wrap(err, "failed to convert session model to SQL data")
	}

	var queryParams []string
	for _, param := range sqlParamsSession {
		queryParams = append(queryParams, fmt.Sprintf("%s=:%s", param, param))
	}
	query := fmt.Sprintf("UPDATE sessions SET %s WHERE id=:id", strings.Join(queryParams, ", "))
	if _, err := db.NamedExec(query, d); err != nil {
		return errors.Wrap(err, "failed to update session")
	}

	return nil
}
