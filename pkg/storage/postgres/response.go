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
)

func newResponseStore(db *sqlx.DB) *responseStore {
	return &responseStore{
		db: db,
	}
}

type responseStore struct {
	db *sqlx.DB
}

type sqlDataResponse struct {
	ID        string         `db:"id"`
	SurveyID  string         `db:"survey_id"`
	PersonID  sql.NullString `db:"person_id"`
	Finished  bool           `db:"finished"`
	Data      []byte         `db:"data"`
	Meta      []byte         `db:"meta"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

var sqlParamsResponse = []string{
	"id",
	"survey_id",
	"person_id",
	"finished",
	"data",
	"meta",
	"created_at",
	"updated_at",
}

func (d *sqlDataResponse) Scan(m *model.Response) error {
	var createdAt, updatedAt = m.CreatedAt, m.UpdatedAt

	if m.CreatedAt.IsZero() {
		createdAt = time.Now().Round(time.Second).UTC()
	}

	if m.UpdatedAt.IsZero() {
		updatedAt = time.Now().Round(time.Second).UTC()
	}

	data, err := json.Marshal(m.Data)
	if err != nil {
		return errors.Wrap(err, "failed to marshal response data")
	}

	meta, err := json.Marshal(m.Meta)
	if err != nil {
		return errors.Wrap(err, "failed to marshal response meta")
	}

	d.ID = m.ID
	d.SurveyID = m.SurveyID
	d.PersonID = sql.NullString{}
	if m.PersonID != nil {
		d.PersonID = sql.NullString{String: *m.PersonID, Valid: true}
	}
	d.Finished = m.Finished
	d.Data = data
	d.Meta = meta
	d.CreatedAt = createdAt
	d.UpdatedAt = updatedAt

	return nil
}

func (s *responseStore) Create(m *model.Response) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	d := sqlDataResponse{}
	if err := d.Scan(m); err != nil {
		return errors.Wrap(err, "failed to convert response model to SQL data")
	}

	query := fmt.Sprintf(
		"INSERT INTO responses (%s) VALUES (%s)",
		strings.Join(sqlParamsResponse, ", "),
		":"+strings.Join(sqlParamsResponse, ", :"),
	)
	if _, err := s.db.NamedExec(query, d); err != nil {
		return errors.Wrap(err, "failed to create response")
	}

	m.CreatedAt = d.CreatedAt
	m.UpdatedAt = d.UpdatedAt

	return nil
}
