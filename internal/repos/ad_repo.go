package repos

import (
	"swapboard/internal/domain"

	"github.com/jmoiron/sqlx"
)

type AdRepo struct{ db *sqlx.DB }

func NewAdRepo(db *sqlx.DB) *AdRepo { return &AdRepo{db: db} }

const adColumns = `
    a.id, a.owner_id, COALESCE(u.name,'') AS owner_name, a.title, a.description,
    a.image_url, a.category, a.condition, a.created_at`

// Create assigns id-independent fields (timestamp, folds) and inserts the ad.
// The caller supplies ID and OwnerID.
func (r *AdRepo) Create(ad domain.Ad) (domain.Ad, error) {
	ad.CreatedAt = now()
	_, err := r.db.Exec(`
	  INSERT INTO ads
	    (id, owner_id, title, description, image_url, category, condition,
	     title_fold, description_fold, category_fold, created_at)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, ad.ID, ad.OwnerID, ad.Title, ad.Description, ad.ImageURL, ad.Category, ad.Condition,
		domain.Fold(ad.Title), domain.Fold(ad.Description), domain.Fold(ad.Category), ad.CreatedAt)
	if err != nil {
		return domain.Ad{}, err
	}
	return r.Get(ad.ID)
}

func (r *AdRepo) Get(id string) (domain.Ad, error) {
	var a domain.Ad
	err := r.db.Get(&a, `SELECT`+adColumns+`
	  FROM ads a LEFT JOIN users u ON u.id = a.owner_id
	  WHERE a.id = ?`, id)
	if err != nil {
		return domain.Ad{}, notFound(err, "ad not found")
	}
	return a, nil
}

// Update rewrites the editable fields. owner_id and created_at are never
// touched.
func (r *AdRepo) Update(ad domain.Ad) (domain.Ad, error) {
	res, err := r.db.Exec(`
	  UPDATE ads SET
	    title = ?, description = ?, image_url = ?, category = ?, condition = ?,
	    title_fold = ?, description_fold = ?, category_fold = ?
	  WHERE id = ?
	`, ad.Title, ad.Description, ad.ImageURL, ad.Category, ad.Condition,
		domain.Fold(ad.Title), domain.Fold(ad.Description), domain.Fold(ad.Category), ad.ID)
	if err != nil {
		return domain.Ad{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Ad{}, domain.NotFound("ad not found")
	}
	return r.Get(ad.ID)
}

// Delete removes the ad together with every proposal that references it.
func (r *AdRepo) Delete(id string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM proposals WHERE ad_sender = ? OR ad_receiver = ?`, id, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM ads WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("ad not found")
	}
	return tx.Commit()
}

// List returns ads matching every supplied criterion, newest first.
func (r *AdRepo) List(f domain.AdFilter) ([]domain.Ad, error) {
	where := `1 = 1`
	args := []any{}
	if q := domain.Fold(f.Search); q != "" {
		where += ` AND (a.title_fold LIKE ? ESCAPE '\' OR a.description_fold LIKE ? ESCAPE '\')`
		pat := "%" + likeEscape(q) + "%"
		args = append(args, pat, pat)
	}
	if c := domain.Fold(f.Category); c != "" {
		where += ` AND a.category_fold = ?`
		args = append(args, c)
	}
	if c := domain.Fold(f.Condition); c != "" {
		where += ` AND a.condition = ?`
		args = append(args, c)
	}

	sql := `SELECT` + adColumns + `
	  FROM ads a LEFT JOIN users u ON u.id = a.owner_id
	  WHERE ` + where + `
	  ORDER BY a.created_at DESC, a.rowid DESC`

	out := []domain.Ad{}
	err := r.db.Select(&out, sql, args...)
	return out, err
}
