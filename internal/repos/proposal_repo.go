package repos

import (
	"swapboard/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProposalRepo struct{ db *sqlx.DB }

func NewProposalRepo(db *sqlx.DB) *ProposalRepo { return &ProposalRepo{db: db} }

// Create inserts the proposal. The UNIQUE(ad_sender, ad_receiver) constraint
// is the final arbiter for concurrent creators and maps to domain.ErrConflict.
func (r *ProposalRepo) Create(p domain.Proposal) (domain.Proposal, error) {
	p.CreatedAt = now()
	_, err := r.db.Exec(`
	  INSERT INTO proposals(id, ad_sender, ad_receiver, comment, comment_fold, status, created_at)
	  VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.AdSender, p.AdReceiver, p.Comment, domain.Fold(p.Comment), p.Status, p.CreatedAt)
	if isUniqueViolation(err) {
		return domain.Proposal{}, domain.Conflict("a proposal between these ads already exists")
	}
	if err != nil {
		return domain.Proposal{}, err
	}
	return p, nil
}

func (r *ProposalRepo) Get(id string) (domain.Proposal, error) {
	var p domain.Proposal
	err := r.db.Get(&p, `
	  SELECT id, ad_sender, ad_receiver, comment, status, created_at
	  FROM proposals WHERE id = ?`, id)
	if err != nil {
		return domain.Proposal{}, notFound(err, "proposal not found")
	}
	return p, nil
}

func (r *ProposalRepo) PairExists(senderAdID, receiverAdID string) (bool, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM proposals WHERE ad_sender = ? AND ad_receiver = ?`,
		senderAdID, receiverAdID)
	return n > 0, err
}

func (r *ProposalRepo) UpdateStatus(id string, st domain.Status) (domain.Proposal, error) {
	res, err := r.db.Exec(`UPDATE proposals SET status = ? WHERE id = ?`, st, id)
	if err != nil {
		return domain.Proposal{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Proposal{}, domain.NotFound("proposal not found")
	}
	return r.Get(id)
}

// List applies the filter conjunctively, newest first.
func (r *ProposalRepo) List(f domain.ProposalFilter) ([]domain.Proposal, error) {
	where := `1 = 1`
	args := []any{}
	if f.Participant != "" {
		where += ` AND (s.owner_id = ? OR rc.owner_id = ?)`
		args = append(args, f.Participant, f.Participant)
	}
	if f.AdSender != "" {
		where += ` AND p.ad_sender = ?`
		args = append(args, f.AdSender)
	}
	if f.AdReceiver != "" {
		where += ` AND p.ad_receiver = ?`
		args = append(args, f.AdReceiver)
	}
	if f.Status != "" {
		where += ` AND p.status = ?`
		args = append(args, f.Status)
	}
	if q := domain.Fold(f.Search); q != "" {
		where += ` AND p.comment_fold LIKE ? ESCAPE '\'`
		args = append(args, "%"+likeEscape(q)+"%")
	}

	sql := `
	  SELECT p.id, p.ad_sender, p.ad_receiver, p.comment, p.status, p.created_at
	  FROM proposals p
	  JOIN ads s  ON s.id  = p.ad_sender
	  JOIN ads rc ON rc.id = p.ad_receiver
	  WHERE ` + where + `
	  ORDER BY p.created_at DESC, p.rowid DESC`

	out := []domain.Proposal{}
	err := r.db.Select(&out, sql, args...)
	return out, err
}
