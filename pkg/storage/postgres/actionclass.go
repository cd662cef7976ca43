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

func newActionClassStore(db *sqlx.DB) *actionClassStore {
	return &actionClassStore{
		db: db,
	}
}

type actionClassStore struct {
	db *sqlx.DB
}

type sqlDataActionClass struct {
	ID            string         `db:"id"`
	EnvironmentID string         `db:"environment_id"`
	Name          string         `db:"name"`
	Description   sql.NullString `db:"description"`
	Type          string         `db:"type"`
	NoCodeConfig  []byte         `db:"no_code_config"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

var sqlParamsActionClass = []string{
	"id",
	"environment_id",
	"name",
	"description",
	"type",
	"no_code_config",
	"created_at",
	"updated_at",
}

func (d *sqlDataActionClass) Scan(m *model.ActionClass) error {
	var createdAt, updatedAt = m.CreatedAt, m.UpdatedAt

	if m.CreatedAt.IsZero() {
		createdAt = time.Now().Round(time.Second).UTC()
	}

	if m.UpdatedAt.IsZero() {
		updatedAt = time.Now().Round(time.Second).UTC()
	}

	d.ID = m.ID
	d.EnvironmentID = m.EnvironmentID
	d.Name = m.Name
	d.Description = sql.NullString{}
	if m.Description != nil {
		d.Description = sql.NullString{String: *m.Description, Valid: true}
	}
	d.Type = m.Type
	d.NoCodeConfig = m.NoCodeConfig
	d.CreatedAt = createdAt
	d.UpdatedAt = updatedAt

	return nil
}

func (d *sqlDataActionClass) Model() (*model.ActionClass, error) {
	m := &model.ActionClass{
		ID:            d.ID,
		EnvironmentID: d.EnvironmentID,
		Name:          d.Name,
		Type:          d.Type,
		NoCodeConfig:  json.RawMessage(d.NoCodeConfig),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}

	if d.Description.Valid {
		description := d.Description.String
		m.Description = &description
	}

	return m, nil
}

func (s *actionClassStore) FindByEnvironmentID(environmentID string) ([]model.ActionClass, error) {
	rows := make([]sqlDataActionClass, 0)
	models := make([]model.ActionClass, 0)

	query := "SELECT * FROM action_classes WHERE environment_id=$1 ORDER BY created_at"
	if err := s.db.Select(&rows, query, environmentID); err != nil {
		return nil, errors.Wrap(err, "failed to fetch action classes of environment")
	}

	for _, d := range rows {
		m, err := d.Model()
		if err != nil {
			return nil, errors.Wrap(err, "failed to convert SQL data to action class model")
		}
		models = append(models, *m)
	}

	return models, nil
}

func (s *actionClassStore) Create(m *model.ActionClass) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	d := sqlDataActionClass{}
	if err := d.Scan(m); err != nil {
		return errors.Wrap(err, "failed to convert action class model to SQL data")
	}

	query := fmt.Sprintf(
		"INSERT INTO action_classes (%s) VALUES (%s)",
		strings.Join(sqlParamsActionClass, ", "),
		":"+strings.Join(sqlParamsActionClass, ", :"),
	)
	if _, err := s.db.NamedExec(query, d); err != nil {
		return errors.Wrap(err, "failed to create action class")
	}

	m.CreatedAt = d.CreatedAt
	m.UpdatedAt = d.UpdatedAt

	return nil
}
