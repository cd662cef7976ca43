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

func newSurveyStore(db *sqlx.DB) *surveyStore {
	return &surveyStore{
		db: db,
	}
}

type surveyStore struct {
	db *sqlx.DB
}

type sqlDataSurvey struct {
	ID            string        `db:"id"`
	EnvironmentID string        `db:"environment_id"`
	Name          string        `db:"name"`
	Type          string        `db:"type"`
	Status        string        `db:"status"`
	Questions     []byte        `db:"questions"`
	Triggers      []byte        `db:"triggers"`
	DisplayOption string        `db:"display_option"`
	RecontactDays sql.NullInt64 `db:"recontact_days"`
	AutoClose     sql.NullInt64 `db:"auto_close"`
	Delay         int           `db:"delay"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

var sqlParamsSurvey = []string{
	"id",
	"environment_id",
	"name",
	"type",
	"status",
	"questions",
	"triggers",
	"display_option",
	"recontact_days",
	"auto_close",
	"delay",
	"created_at",
	"updated_at",
}

func (d *sqlDataSurvey) Scan(m *model.Survey) error {
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
	d.Type = m.Type
	d.Status = m.Status
	d.Questions = m.Questions
	d.Triggers = m.Triggers
	d.DisplayOption = m.DisplayOption
	d.RecontactDays = sql.NullInt64{}
	if m.RecontactDays != nil {
		d.RecontactDays = sql.NullInt64{Int64: int64(*m.RecontactDays), Valid: true}
	}
	d.AutoClose = sql.NullInt64{}
	if m.AutoClose != nil {
		d.AutoClose = sql.NullInt64{Int64: int64(*m.AutoClose), Valid: true}
	}
	d.Delay = m.Delay
	d.CreatedAt = createdAt
	d.UpdatedAt = updatedAt

	return nil
}

func (d *sqlDataSurvey) Model() (*model.Survey, error) {
	m := &model.Survey{
		ID:            d.ID,
		EnvironmentID: d.EnvironmentID,
		Name:          d.Name,
		Type:          d.Type,
		Status:        d.Status,
		Questions:     json.RawMessage(d.Questions),
		Triggers:      json.RawMessage(d.Triggers),
		DisplayOption: d.DisplayOption,
		Delay:         d.Delay,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}

	if d.RecontactDays.Valid {
		days := int(d.RecontactDays.Int64)
		m.RecontactDays = &days
	}

	if d.AutoClose.Valid {
		autoClose := int(d.AutoClose.Int64)
		m.AutoClose = &autoClose
	}

	return m, nil
}

func (s *surveyStore) FindByID(id string) (*model.Survey, error) {
	d := sqlDataSurvey{}
	query := "SELECT * FROM surveys WHERE id=$1"
	if err := s.db.Get(&d, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find survey")
	}

	return d.Model()
}

func (s *surveyStore) FindByEnvironmentID(environmentID string) ([]model.Survey, error) {
	rows := make([]sqlDataSurvey, 0)
	models := make([]model.Survey, 0)

	query := "SELECT * FROM surveys WHERE environment_id=$1 ORDER BY created_at"
	if err := s.db.Select(&rows, query, environmentID); err != nil {
		return nil, errors.Wrap(err, "failed to fetch surveys of environment")
	}

	for _, d := range rows {
		m, err := d.Model()
		if err != nil {
			return nil, errors.Wrap(err, "failed to convert SQL data to survey model")
		}
		models = append(models, *m)
	}

	return models, nil
}

func (s *surveyStore) Create(m *model.Survey) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	d := sqlDataSurvey{}
	if err := d.Scan(m); err != nil {
		return errors.Wrap(err, "failed to convert survey model to SQL data")
	}

	query := fmt.Sprintf(
		"INSERT INTO surveys (%s) VALUES (%s)",
		strings.Join(sqlParamsSurvey, ", "),
		":"+strings.Join(sqlParamsSurvey, ", :"),
	)
	if _, err := s.db.NamedExec(query, d); err != nil {
		return errors.Wrap(err, "failed to create survey")
	}

	m.CreatedAt = d.CreatedAt
	m.UpdatedAt = d.UpdatedAt

	return nil
}
