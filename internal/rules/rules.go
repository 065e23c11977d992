// Package rules holds the ownership and lifecycle decisions for ads and
// exchange proposals. It never writes; stores are consulted only to read the
// entities being checked.
package rules

import (
	"errors"

	"swapboard/internal/domain"
)

// Operation is a mutating action on an ad.
type Operation string

const (
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

type AdReader interface {
	Get(id string) (domain.Ad, error)
}

type ProposalReader interface {
	PairExists(senderAdID, receiverAdID string) (bool, error)
}

type Engine struct {
	Ads       AdReader
	Proposals ProposalReader
}

func NewEngine(ads AdReader, proposals ProposalReader) *Engine {
	return &Engine{Ads: ads, Proposals: proposals}
}

// AuthorizeAdMutation allows update and delete only for the ad owner.
// Reads need no authorization and are not routed here.
func AuthorizeAdMutation(actor string, ad domain.Ad, op Operation) error {
	if actor == "" || actor != ad.OwnerID {
		return domain.Denied("only the author may %s this ad", op)
	}
	return nil
}

// ProposalDraft is the caller-controlled part of a new proposal.
type ProposalDraft struct {
	AdSender   string
	AdReceiver string
	Comment    string
}

// PrepareProposal runs the creation checks in order and stops at the first
// failure. The returned proposal is always pending; it has no id or
// timestamp yet.
func (e *Engine) PrepareProposal(actor string, d ProposalDraft) (domain.Proposal, error) {
	if d.AdSender == d.AdReceiver {
		return domain.Proposal{}, domain.Validation("cannot propose exchange on the same ad")
	}
	sender, err := e.loadAd(d.AdSender, "sender ad not found")
	if err != nil {
		return domain.Proposal{}, err
	}
	receiver, err := e.loadAd(d.AdReceiver, "receiver ad not found")
	if err != nil {
		return domain.Proposal{}, err
	}
	if err := CheckProposalParties(actor, sender, receiver); err != nil {
		return domain.Proposal{}, err
	}
	taken, err := e.Proposals.PairExists(sender.ID, receiver.ID)
	if err != nil {
		return domain.Proposal{}, err
	}
	if taken {
		return domain.Proposal{}, domain.Conflict("a proposal between these ads already exists")
	}
	return domain.Proposal{
		AdSender:   sender.ID,
		AdReceiver: receiver.ID,
		Comment:    d.Comment,
		Status:     domain.StatusPending,
	}, nil
}

// CheckProposalParties applies the entity-level creation rules to already
// loaded ads.
func CheckProposalParties(actor string, sender, receiver domain.Ad) error {
	if sender.ID == receiver.ID {
		return domain.Validation("cannot propose exchange on the same ad")
	}
	if sender.OwnerID != actor {
		return domain.Denied("may only propose using own ads")
	}
	if receiver.OwnerID == actor {
		return domain.Denied("cannot target own ad")
	}
	return nil
}

// AuthorizeStatusUpdate lets the receiver ad's owner move a proposal to any
// known status. Transitions are not restricted beyond enum membership.
func (e *Engine) AuthorizeStatusUpdate(actor string, p domain.Proposal, newStatus string) (domain.Status, error) {
	receiver, err := e.loadAd(p.AdReceiver, "receiver ad not found")
	if err != nil {
		return "", err
	}
	if actor == "" || receiver.OwnerID != actor {
		return "", domain.Denied("only the receiving ad's owner may change status")
	}
	st, ok := domain.ParseStatus(newStatus)
	if !ok {
		return "", &domain.Error{
			Kind:   domain.ErrValidation,
			Msg:    "invalid status",
			Fields: map[string]string{"status": "must be one of: pending accepted rejected"},
		}
	}
	return st, nil
}

func (e *Engine) loadAd(id, missing string) (domain.Ad, error) {
	ad, err := e.Ads.Get(id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Ad{}, domain.NotFound("%s", missing)
	}
	return ad, err
}
