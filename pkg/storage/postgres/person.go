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

func newPersonStore(db *sqlx.DB) *personStore {
	return &personStore{
		db: db,
	}
}

type personStore struct {
	db *sqlx.DB
}

type sqlDataPerson struct {
	ID            string    `db:"id"`
	EnvironmentID string    `db:"environment_id"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

var sqlParamsPerson = []string{
	"id",
	"environment_id",
	"created_at",
	"updated_at",
}

func (d *sqlDataPerson) Scan(m *model.Person) error {
	var createdAt, updatedAt = m.CreatedAt, m.UpdatedAt

	if m.CreatedAt.IsZero() {
		createdAt = time.Now().Round(time.Second).UTC()
	}

	if m.UpdatedAt.IsZero() {
		updatedAt = time.Now().Round(time.Second).UTC()
	}

	d.ID = m.ID
	d.EnvironmentID = m.EnvironmentID
	d.CreatedAt = createdAt
	d.UpdatedAt = updatedAt

	return nil
}

func (d *sqlDataPerson) Model() (*model.Person, error) {
	m := &model.Person{
		ID:            d.ID,
		EnvironmentID: d.EnvironmentID,
		Attributes:    make(map[string]string),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}

	return m, nil
}

func (s *personStore) FindByID(id string) (*model.Person, error) {
	m, err := findPersonByID(s.db, id)
	if err != nil {
		return nil, err
	}

	if err := loadPersonAttributes(s.db, m); err != nil {
		return nil, err
	}

	return m, nil
}

func (s *personStore) FindByUserID(environmentID, userID string) (*model.Person, error) {
	d := sqlDataPerson{}
	query := `SELECT p.* FROM people p
		JOIN attributes a ON a.person_id=p.id
		JOIN attribute_classes ac ON ac.id=a.attribute_class_id
		WHERE p.environment_id=$1 AND ac.name='userId' AND a.value=$2`
	if err := s.db.Get(&d, query, environmentID, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find person by user id")
	}

	m, err := d.Model()
	if err != nil {
		return nil, err
	}

	if err := loadPersonAttributes(s.db, m); err != nil {
		return nil, err
	}

	return m, nil
}

func (s *personStore) Create(m *model.Person) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Attributes == nil {
		m.Attributes = make(map[string]string)
	}

	d := sqlDataPerson{}
	if err := d.Scan(m); err != nil {
		return errors.Wrap(err, "failed to convert person model to SQL data")
	}

	query := fmt.Sprintf(
		"INSERT INTO people (%s) VALUES (%s)",
		strings.Join(sqlParamsPerson, ", "),
		":"+strings.Join(sqlParamsPerson, ", :"),
	)
	if _, err := s.db.NamedExec(query, d); err != nil {
		return errors.Wrap(err, "failed to create person")
	}

	m.CreatedAt = d.CreatedAt
	m.UpdatedAt = d.UpdatedAt

	return nil
}

func (s *personStore) CountMonthlyActive(environmentID string, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(DISTINCT p.id) FROM people p
		JOIN sessions s ON s.person_id=p.id
		WHERE p.environment_id=$1 AND s.created_at>=$2`
	if err := s.db.Get(&count, query, environmentID, since); err != nil {
		return 0, errors.Wrap(err, "failed to count monthly active people")
	}

	return count, nil
}

func findPersonByID(db *sqlx.DB, id string) (*model.Person, error) {
	d := sqlDataPerson{}
	query := "SELECT * FROM people WHERE id=$1"
	if err := db.Get(&d, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find person")
	}

	return d.Model()
}

// loadPersonAttributes resolves the person's attribute rows into its
// key/value map, keyed by attribute class name.
func loadPersonAttributes(db *sqlx.DB, m *model.Person) error {
	rows := make([]struct {
		Name  string `db:"name"`
		Value string `db:"value"`
	}, 0)

	query := `SELECT ac.name, a.value FROM attributes a
		JOIN attribute_classes ac ON ac.id=a.attribute_class_id
		WHERE a.person_id=$1`
	if err := db.Select(&rows, query, m.ID); err != nil {
		return errors.Wrap(err, "failed to load person attributes")
	}

	m.Attributes = make(map[string]string, len(rows))
	for _, r := range rows {
		m.Attributes[r.Name] = r.Value
	}

	return nil
}
