package domain

import (
	"fmt"
	"strings"
	"time"
)

type BrokerProvider string

const (
	ProviderMT5     BrokerProvider = "MT5"
	ProviderCTrader BrokerProvider = "CTrader"
)

func ParseBrokerProvider(value string) (BrokerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "mt5":
		return ProviderMT5, nil
	case "ctrader":
		return ProviderCTrader, nil
	default:
		return "", fmt.Errorf("%w: unknown provider %q", ErrBadRequest, value)
	}
}

type AccountStatus string

const (
	AccountStatusNew          AccountStatus = "new"
	AccountStatusActive       AccountStatus = "active"
	AccountStatusError        AccountStatus = "error"
	AccountStatusDisconnected AccountStatus = "disconnected"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is an opaque bearer token issued by the auth collaborator.
type Session struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

type BrokerAccount struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"user_id"`
	Provider  BrokerProvider `json:"provider"`
	Name      string         `json:"name"`
	Currency  string         `json:"currency"`
	Status    AccountStatus  `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

// AccountCredential holds the opaque signing-key material for one account.
// The payload is a JSON blob of the form {"ingest_key": "...", "version": 1}.
type AccountCredential struct {
	AccountID int64
	Payload   []byte
	UpdatedAt time.Time
}
