package postgres

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/IDM-desaive/formbricks/pkg/model"
	"github.com/IDM-desaive/formbricks/pkg/storage"
)

func newAttributeClassStore(db *sqlx.DB) *attributeClassStore {
	return &attributeClassStore{
		db: db,
	}
}

type attributeClassStore struct {
	db *sqlx.DB
}

type sqlDataAttributeClass struct {
	ID            string    `db:"id"`
	EnvironmentID string    `db:"environment_id"`
	Name          string    `db:"name"`
	Type          string    `db:"type"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (d *sqlDataAttributeClass) Model() (*model.AttributeClass, error) {
	m := &model.AttributeClass{
		ID:            d.ID,
		EnvironmentID: d.EnvironmentID,
		Name:          d.Name,
		Type:          d.Type,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}

	return m, nil
}

func (s *attributeClassStore) FindByName(environmentID, name string) (*model.AttributeClass, error) {
	d := sqlDataAttributeClass{}
	query := "SELECT * FROM attribute_classes WHERE environment_id=$1 AND name=$2"
	if err := s.db.Get(&d, query, environmentID, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find attribute class")
	}

	return d.Model()
}

// Create inserts the class or, when a concurrent request created the same
// (environment_id, name) pair first, fetches the winning row. The unique
// constraint settles the first-use race.
func (s *attributeClassStore) Create(m *model.AttributeClass) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().Round(time.Second).UTC()

	query := `INSERT INTO attribute_classes (id, environment_id, name, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (environment_id, name) DO NOTHING`
	if _, err := s.db.Exec(query, m.ID, m.EnvironmentID, m.Name, m.Type, now, now); err != nil {
		return errors.Wrap(err, "failed to create attribute class")
	}

	existing, err := s.FindByName(m.EnvironmentID, m.Name)
	if err != nil {
		return err
	}
	*m = *existing

	return nil
}

func newAttributeStore(db *sqlx.DB) *attributeStore {
	return &attributeStore{
		db: db,
	}
}

type attributeStore struct {
	db *sqlx.DB
}

type sqlDataAttribute struct {
	ID               string    `db:"id"`
	AttributeClassID string    `db:"attribute_class_id"`
	PersonID         string    `db:"person_id"`
	Value            string    `db:"value"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (d *sqlDataAttribute) Model() (*model.Attribute, error) {
	m := &model.Attribute{
		ID:               d.ID,
		AttributeClassID: d.AttributeClassID,
		PersonID:         d.PersonID,
		Value:            d.Value,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}

	return m, nil
}

// Upsert writes the value for the unique (attribute_class_id, person_id)
// pair, creating the row when absent and overwriting otherwise.
func (s *attributeStore) Upsert(m *model.Attribute) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().Round(time.Second).UTC()

	query := `INSERT INTO attributes (id, attribute_class_id, person_id, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (attribute_class_id, person_id)
		DO UPDATE SET value=EXCLUDED.value, updated_at=EXCLUDED.updated_at`
	if _, err := s.db.Exec(query, m.ID, m.AttributeClassID, m.PersonID, m.Value, now, now); err != nil {
		return errors.Wrap(err, "failed to upsert attribute")
	}

	return nil
}

func (s *attributeStore) FindByPersonID(personID string) ([]model.Attribute, error) {
	rows := make([]sqlDataAttribute, 0)
	models := make([]model.Attribute, 0)

	query := "SELECT * FROM attributes WHERE person_id=$1"
	if err := s.db.Select(&rows, query, personID); err != nil {
		return nil, errors.Wrap(err, "failed to fetch attributes of person")
	}

	for _, d := range rows {
		m, err := d.Model()
		if err != nil {
			return nil, errors.Wrap(err, "failed to convert SQL data to attribute model")
		}
		models = append(models, *m)
	}

	return models, nil
}
