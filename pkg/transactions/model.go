package transactions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type is the kind of money movement.
type Type string

const (
	TypeDeposit    Type = "DEPOSIT"
	TypeWithdrawal Type = "WITHDRAWAL"
	TypeTransfer   Type = "TRANSFER"
	TypePayment    Type = "PAYMENT"
)

// Status is the processing state reported by the backend.
type Status string

const (
	StatusSuccess    Status = "SUCCESS"
	StatusFailed     Status = "FAILED"
	StatusProcessing Status = "PROCESSING"
)

// Currency is an ISO currency code accepted by the backend.
type Currency string

const (
	CurrencyCNY Currency = "CNY"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyJPY Currency = "JPY"
)

// Channel is where the transaction was initiated.
type Channel string

const (
	ChannelCounter    Channel = "COUNTER"
	ChannelATM        Channel = "ATM"
	ChannelOnlineBank Channel = "ONLINE_BANK"
	ChannelMobileApp  Channel = "MOBILE_APP"
)

// Transaction is the record exchanged with the /transactions resource.
// Fields are passed through as-is; the backend owns validation.
type Transaction struct {
	ID            uuid.NullUUID   `json:"id"`
	Type          Type            `json:"type,omitempty"`
	Status        Status          `json:"status,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      Currency        `json:"currency,omitempty"`
	AccountNumber string          `json:"accountNumber,omitempty"`
	UserName      string          `json:"userName,omitempty"`
	Channel       Channel         `json:"channel,omitempty"`
	CreatedAt     LocalTime       `json:"createdAt"`
	UpdatedAt     LocalTime       `json:"updatedAt"`
	Description   string          `json:"description,omitempty"`
}

// MarshalJSON writes amount as a JSON number, which is what the backend's callers send.
func (t Transaction) MarshalJSON() ([]byte, error) {
	type record Transaction
	return json.Marshal(struct {
		record
		Amount json.Number `json:"amount"`
	}{
		record: record(t),
		Amount: json.Number(t.Amount.String()),
	})
}

// LocalTimeLayout is the zone-less timestamp format used on the wire.
const LocalTimeLayout = "2006-01-02T15:04:05"

// LocalTime is a wall-clock timestamp without zone information.
// The zero value is encoded as JSON null.
type LocalTime struct {
	time.Time
}

// NewLocalTime wraps t.
func NewLocalTime(t time.Time) LocalTime { return LocalTime{Time: t} }

func (t LocalTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(LocalTimeLayout) + `"`), nil
}

func (t *LocalTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || len(data) == 0 {
		t.Time = time.Time{}
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("local time must be a JSON string, got %s", data)
	}
	// Fractional seconds are accepted even though the layout omits them.
	parsed, err := time.ParseInLocation(LocalTimeLayout, string(data[1:len(data)-1]), time.Local)
	if err != nil {
		return fmt.Errorf("parse local time: %w", err)
	}
	t.Time = parsed
	return nil
}
