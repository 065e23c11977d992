package domain

import "strings"

// Condition is the physical state of an advertised item.
type Condition string

const (
	ConditionNew    Condition = "new"
	ConditionUsed   Condition = "used"
	ConditionBroken Condition = "broken"
)

var conditions = []Condition{ConditionNew, ConditionUsed, ConditionBroken}

// ParseCondition accepts the exact enum value.
func ParseCondition(s string) (Condition, bool) {
	for _, c := range conditions {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

type Ad struct {
	ID          string    `db:"id" json:"id"`
	OwnerID     string    `db:"owner_id" json:"owner_id"`
	OwnerName   string    `db:"owner_name" json:"user"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	ImageURL    *string   `db:"image_url" json:"image_url"`
	Category    string    `db:"category" json:"category"`
	Condition   Condition `db:"condition" json:"condition"`
	CreatedAt   string    `db:"created_at" json:"created_at"`
}

// AdFilter narrows ad listings. Empty fields impose no constraint.
type AdFilter struct {
	Search    string // substring of title or description, case-insensitive
	Category  string // case-insensitive exact
	Condition string // case-insensitive exact
}

// Fold is the normalization used for case-insensitive matching.
func Fold(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
