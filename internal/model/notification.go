package model

import (
	"encoding/json"

	"github.com/google/uuid"
)

// DefaultOriginLabel is stored when a send request carries no parking lot
const DefaultOriginLabel = "Unknown"

// NotificationRecord is appended once per successful send and never updated
type NotificationRecord struct {
	ID                uuid.UUID `json:"-" db:"id"`
	Recipient         string    `json:"phoneNumber" db:"phone_number"`
	Body              string    `json:"message" db:"message"`
	OriginLabel       string    `json:"parkingLot" db:"parking_lot"`
	SentAtEpochMillis int64     `json:"timestamp" db:"timestamp"`
}

// UserSnapshot is the raw content of the store's users path keyed by user id
type UserSnapshot map[string]json.RawMessage
