package repos

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"mathiphone/internal/domain"
)

const productCols = `
    id, name, category, model, type, storage, color, condition, battery_health,
    price_ars, price_usd, screen_size, chip, camera, features_json, available,
    warranty_months, description, image_url,
    COALESCE(created_at,'') AS created_at, COALESCE(updated_at,'') AS updated_at`

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// List returns every product, newest first. An empty category lists all of them.
func (r *ProductRepo) List(category string) ([]domain.Product, error) {
	q := `SELECT ` + productCols + ` FROM products`
	args := []any{}
	if category != "" {
		q += ` WHERE category = ?`
		args = append(args, category)
	}
	q += ` ORDER BY created_at DESC, rowid DESC`

	var out []domain.Product
	if err := r.db.Select(&out, q, args...); err != nil {
		return nil, err
	}
	return decodeAll(out)
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	if err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id); err != nil {
		return p, err
	}
	return p, p.DecodeFeatures()
}

// GetMany loads ids in the given order, skipping ids that no longer exist.
func (r *ProductRepo) GetMany(ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}
	query, args, err := sqlx.In(`SELECT `+productCols+` FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var rows []domain.Product
	if err := r.db.Select(&rows, query, args...); err != nil {
		return nil, err
	}
	rows, err = decodeAll(rows)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Product, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// Create assigns id and timestamps and inserts p.
func (r *ProductRepo) Create(p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	p.CreatedAt, p.UpdatedAt = now, now
	p.EncodeFeatures()
	_, err := r.db.NamedExec(`
	  INSERT INTO products(
	    id, name, category, model, type, storage, color, condition, battery_health,
	    price_ars, price_usd, screen_size, chip, camera, features_json, available,
	    warranty_months, description, image_url, created_at, updated_at)
	  VALUES(
	    :id, :name, :category, :model, :type, :storage, :color, :condition, :battery_health,
	    :price_ars, :price_usd, :screen_size, :chip, :camera, :features_json, :available,
	    :warranty_months, :description, :image_url, :created_at, :updated_at)
	`, p)
	return err
}

// Update overwrites every editable column. Returns sql.ErrNoRows for an unknown id.
func (r *ProductRepo) Update(p *domain.Product) error {
	p.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	p.EncodeFeatures()
	res, err := r.db.NamedExec(`
	  UPDATE products SET
	    name=:name, category=:category, model=:model, type=:type, storage=:storage, color=:color,
	    condition=:condition, battery_health=:battery_health, price_ars=:price_ars, price_usd=:price_usd,
	    screen_size=:screen_size, chip=:chip, camera=:camera, features_json=:features_json,
	    available=:available, warranty_months=:warranty_months, description=:description,
	    image_url=:image_url, updated_at=:updated_at
	  WHERE id=:id
	`, p)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

// Delete removes a product (compare selections cascade). Returns sql.ErrNoRows for an unknown id.
func (r *ProductRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func mustAffect(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func decodeAll(ps []domain.Product) ([]domain.Product, error) {
	if ps == nil {
		return []domain.Product{}, nil
	}
	for i := range ps {
		if err := ps[i].DecodeFeatures(); err != nil {
			return nil, err
		}
	}
	return ps, nil
}
