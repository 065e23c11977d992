package domain

// Status is the lifecycle state of an exchange proposal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

var statuses = []Status{StatusPending, StatusAccepted, StatusRejected}

func ParseStatus(s string) (Status, bool) {
	for _, st := range statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Proposal is an offer to trade the sender ad for the receiver ad.
type Proposal struct {
	ID         string `db:"id" json:"id"`
	AdSender   string `db:"ad_sender" json:"ad_sender"`
	AdReceiver string `db:"ad_receiver" json:"ad_receiver"`
	Comment    string `db:"comment" json:"comment"`
	Status     Status `db:"status" json:"status"`
	CreatedAt  string `db:"created_at" json:"created_at"`
}

// ProposalFilter narrows proposal listings with exact matches.
// Participant, when set, keeps only proposals where that user owns the
// sender or the receiver ad.
type ProposalFilter struct {
	AdSender    string
	AdReceiver  string
	Status      Status
	Participant string
	Search      string // comment substring, admin browse only
}
