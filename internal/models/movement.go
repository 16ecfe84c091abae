package models

import "time"

// MovementKind tags an audit entry.
type MovementKind string

const (
	// MovementStatusChange records a lifecycle flip, e.g. retirement.
	MovementStatusChange MovementKind = "STATUS_CHANGE"
)

// Movement is an append-only audit entry attached to an asset.
// Movements are written in the same transaction as the change they record.
type Movement struct {
	ID      int64        `json:"id"`
	AssetID int64        `json:"asset_id"`
	Kind    MovementKind `json:"kind"`
	Detail  string       `json:"detail"`
	At      time.Time    `json:"at"`
}
