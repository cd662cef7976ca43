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

func newProductStore(db *sqlx.DB) *productStore {
	return &productStore{
		db: db,
	}
}

type productStore struct {
	db *sqlx.DB
}

type sqlDataProduct struct {
	ID                string    `db:"id"`
	Name              string    `db:"name"`
	TeamID            string    `db:"team_id"`
	BrandColor        string    `db:"brand_color"`
	RecontactDays     int       `db:"recontact_days"`
	Placement         string    `db:"placement"`
	ClickOutsideClose bool      `db:"click_outside_close"`
	DarkOverlay       bool      `db:"dark_overlay"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

var sqlParamsProduct = []string{
	"id",
	"name",
	"team_id",
	"brand_color",
	"recontact_days",
	"placement",
	"click_outside_close",
	"dark_overlay",
	"created_at",
	"updated_at",
}

func (d *sqlDataProduct) Scan(m *model.Product) error {
	var createdAt, updatedAt = m.CreatedAt, m.UpdatedAt

	if m.CreatedAt.IsZero() {
		createdAt = time.Now().Round(time.Second).UTC()
	}

	if m.UpdatedAt.IsZero() {
		updatedAt = time.Now().Round(time.Second).UTC()
	}

	d.ID = m.ID
	d.Name = m.Name
	d.TeamID = m.TeamID
	d.BrandColor = m.BrandColor
	d.RecontactDays = m.RecontactDays
	d.Placement = m.Placement
	d.ClickOutsideClose = m.ClickOutsideClose
	d.DarkOverlay = m.DarkOverlay
	d.CreatedAt = createdAt
	d.UpdatedAt = updatedAt

	return nil
}

func (d *sqlDataProduct) Model() (*model.Product, error) {
	m := &model.Product{
		ID:                d.ID,
		Name:              d.Name,
		TeamID:            d.TeamID,
		BrandColor:        d.BrandColor,
		RecontactDays:     d.RecontactDays,
		Placement:         d.Placement,
		ClickOutsideClose: d.ClickOutsideClose,
		DarkOverlay:       d.DarkOverlay,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}

	return m, nil
}

func (s *productStore) FindByEnvironmentID(environmentID string) (*model.Product, error) {
	d := sqlDataProduct{}
	query := `SELECT p.* FROM products p
		JOIN environments e ON e.product_id=p.id
		WHERE e.id=$1`
	if err := s.db.Get(&d, query, environmentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find product by environment")
	}

	return d.Model()
}

func (s *productStore) Create(m *model.Product) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	d := sqlDataProduct{}
	if err := d.Scan(m); err != nil {
		return errors.Wrap(err, "failed to convert product model to SQL data")
	}

	query := fmt.Sprintf(
		"INSERT INTO products (%s) VALUES (%s)",
		strings.Join(sqlParamsProduct, ", "),
		":"+strings.Join(sqlParamsProduct, ", :"),
	)
	if _, err := s.db.NamedExec(query, d); err != nil {
		return errors.Wrap(err, "failed to create product")
	}

	m.CreatedAt = d.CreatedAt
	m.UpdatedAt = d.UpdatedAt

	return nil
}
