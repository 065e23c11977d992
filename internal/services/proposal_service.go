package services

import (
	"errors"
	"strings"

	"swapboard/internal/domain"
	"swapboard/internal/metrics"
	"swapboard/internal/repos"
	"swapboard/internal/rules"
	"swapboard/internal/validate"

	"github.com/google/uuid"
)

// ProposalInput is the create payload. Status is accepted on the wire but
// never honoured.
type ProposalInput struct {
	AdSender   string `json:"ad_sender" validate:"required"`
	AdReceiver string `json:"ad_receiver" validate:"required"`
	Comment    string `json:"comment" validate:"required"`
	Status     string `json:"status" validate:"-"`
}

type ProposalQuery struct {
	AdSender   string
	AdReceiver string
	Status     string
	Search     string
}

type ProposalService struct {
	Proposals *repos.ProposalRepo
	Rules     *rules.Engine
	Metrics   *metrics.Metrics
}

func NewProposalService(props *repos.ProposalRepo, ads *repos.AdRepo, m *metrics.Metrics) *ProposalService {
	return &ProposalService{Proposals: props, Rules: rules.NewEngine(ads, props), Metrics: m}
}

func (s *ProposalService) Create(actor *domain.User, in ProposalInput) (domain.Proposal, error) {
	if actor == nil {
		return domain.Proposal{}, domain.ErrUnauthenticated
	}
	in.AdSender = strings.TrimSpace(in.AdSender)
	in.AdReceiver = strings.TrimSpace(in.AdReceiver)
	in.Comment = strings.TrimSpace(in.Comment)
	if err := validate.Struct(in); err != nil {
		return domain.Proposal{}, err
	}

	p, err := s.Rules.PrepareProposal(actor.ID, rules.ProposalDraft{
		AdSender:   in.AdSender,
		AdReceiver: in.AdReceiver,
		Comment:    in.Comment,
	})
	if err != nil {
		s.denied(err)
		return domain.Proposal{}, err
	}
	p.ID = uuid.NewString()
	created, err := s.Proposals.Create(p)
	if err != nil {
		return domain.Proposal{}, err
	}
	s.Metrics.ProposalCreated()
	return created, nil
}

// ListVisible returns proposals in which actor owns either ad.
func (s *ProposalService) ListVisible(actor *domain.User, q ProposalQuery) ([]domain.Proposal, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	f, err := q.filter()
	if err != nil {
		return nil, err
	}
	f.Participant = actor.ID
	f.Search = ""
	return s.Proposals.List(f)
}

// ListAll is the unscoped browse used by administrators.
func (s *ProposalService) ListAll(q ProposalQuery) ([]domain.Proposal, error) {
	f, err := q.filter()
	if err != nil {
		return nil, err
	}
	return s.Proposals.List(f)
}

// UpdateStatus changes status on behalf of the receiver ad's owner.
func (s *ProposalService) UpdateStatus(actor *domain.User, id, status string) (domain.Proposal, error) {
	if actor == nil {
		return domain.Proposal{}, domain.ErrUnauthenticated
	}
	p, err := s.Proposals.Get(id)
	if err != nil {
		return domain.Proposal{}, err
	}
	st, err := s.Rules.AuthorizeStatusUpdate(actor.ID, p, strings.TrimSpace(status))
	if err != nil {
		s.denied(err)
		return domain.Proposal{}, err
	}
	updated, err := s.Proposals.UpdateStatus(p.ID, st)
	if err != nil {
		return domain.Proposal{}, err
	}
	s.Metrics.StatusChanged(string(st))
	return updated, nil
}

func (s *ProposalService) denied(err error) {
	if errors.Is(err, domain.ErrPermissionDenied) {
		s.Metrics.Denied("proposal")
	}
}

func (q ProposalQuery) filter() (domain.ProposalFilter, error) {
	f := domain.ProposalFilter{
		AdSender:   strings.TrimSpace(q.AdSender),
		AdReceiver: strings.TrimSpace(q.AdReceiver),
		Search:     strings.TrimSpace(q.Search),
	}
	if raw := strings.TrimSpace(q.Status); raw != "" {
		st, ok := domain.ParseStatus(raw)
		if !ok {
			return f, &domain.Error{
				Kind:   domain.ErrValidation,
				Msg:    "invalid filter",
				Fields: map[string]string{"status": "must be one of: pending accepted rejected"},
			}
		}
		f.Status = st
	}
	return f, nil
}
