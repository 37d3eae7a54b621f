package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	"pointledger/internal/models"
)

// SubjectTransactions carries one message per committed charge or use.
const SubjectTransactions = "point.transactions"

// Publisher is the transport-agnostic side of event publication.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// TransactionEvent is the wire form of a committed history entry.
type TransactionEvent struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Amount      int64     `json:"amount"`
	Type        string    `json:"type"`
	Balance     int64     `json:"balance"`
	ProcessedAt time.Time `json:"processed_at"`
}

// MarshalTransaction builds the event payload for a committed entry and
// the balance it produced.
func MarshalTransaction(entry models.PointHistory, balance int64) ([]byte, error) {
	return json.Marshal(TransactionEvent{
		ID:          entry.ID,
		UserID:      entry.UserID,
		Amount:      entry.Amount,
		Type:        entry.Type,
		Balance:     balance,
		ProcessedAt: entry.ProcessedAt,
	})
}

// NATSPublisher publishes over a NATS connection.
type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(conn *nats.Conn) *NATSPublisher {
	return &NATSPublisher{conn: conn}
}

func (p *NATSPublisher) Publish(subject string, data []byte) error {
	return p.conn.Publish(subject, data)
}
