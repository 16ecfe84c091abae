package models

// Committee is an organizational sub-unit. Every asset and every OPERATOR
// account is owned by exactly one committee.
//
// Duplicate rows denoting the same real-world committee can accumulate
// (same name typed with different casing, accents or whitespace); the
// reconciler collapses them onto the row with the smallest id.
type Committee struct {
	// ID is the stable numeric identifier, assigned by the database.
	ID int64 `json:"id"`

	// Name is the display name as originally entered.
	Name string `json:"name"`
}
