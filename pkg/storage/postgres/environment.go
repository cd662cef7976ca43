package postgres

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/IDM-desaive/formbricks/pkg/model"
	"github.com/IDM-desaive/formbricks/pkg/storage"
)

func newEnvironmentStore(db *sqlx.DB) *environmentStore {
	return &environmentStore{
		db: db,
	}
}

type environmentStore struct {
	db *sqlx.DB
}

type sqlDataEnvironment struct {
	ID                   string    `db:"id"`
	ProductID            string    `db:"product_id"`
	Type                 string    `db:"type"`
	WidgetSetupCompleted bool      `db:"widget_setup_completed"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}

var sqlParamsEnvironment = []string{
	"id",
	"product_id",
	"type",
	"widget_setup_completed",
	"created_at",
	"updated_at",
}

func (d *sqlDataEnvironment) Scan(m *model.Environment) error {
	var createdAt, updatedAt = m.CreatedAt, m.UpdatedAt

	if m.CreatedAt.IsZero() {
		createdAt = time.Now().Round(time.Second).UTC()
	}

	if m.UpdatedAt.IsZero() {
		updatedAt = time.Now().Round(time.Second).UTC()
	}

	d.ID = m.ID
	d.ProductID = m.ProductID
	d.Type = m.Type
	d.WidgetSetupCompleted = m.WidgetSetupCompleted
	d.CreatedAt = createdAt
	d.UpdatedAt = updatedAt

	return nil
}

func (d *sqlDataEnvironment) Model() (*model.Environment, error) {
	m := &model.Environment{
		ID:                   d.ID,
		ProductID:            d.ProductID,
		Type:                 d.Type,
		WidgetSetupCompleted: d.WidgetSetupCompleted,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}

	return m, nil
}

func (s *environmentStore) FindByID(id string) (*model.Environment, error) {
	d := sqlDataEnvironment{}
	query := "SELECT * FROM environments WHERE id=$1"
	if err := s.db.Get(&d, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find environment")
	}

	return d.Model()
}

func (s *environmentStore) Create(m *model.Environment) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	d := sqlDataEnvironment{}
	if err := d.Scan(m); err != nil {
		return errors.Wrap(err, "failed to convert environment model to SQL data")
	}

	query := fmt.Sprintf(
		"INSERT INTO environments (%s) VALUES (%s)",
		strings.Join(sqlParamsEnvironment, ", "),
		":"+strings.Join(sqlParamsEnvironment, ", :"),
	)
	if _, err := s.db.NamedExec(query, d); err != nil {
		return errors.Wrap(err, "failed to create environment")
	}

	m.CreatedAt = d.CreatedAt
	m.UpdatedAt = d.UpdatedAt

	return nil
}
