package core

import (
	"interest/pkg/layout"
)

// UserData per (user, mint) borrowing record. The stored health factor
// is a cached derived value, never a source of truth: recompute it from
// borrowed amount, token balance and a fresh price before any decision.
type UserData struct {
	Address        string `json:"address,omitempty"`
	User           string `json:"user,omitempty"`
	BorrowedAmount uint64 `json:"borrowed_amount,omitempty"`
	PrimaryToken   string `json:"primary_token,omitempty"`
	HealthFactor   uint64 `json:"health_factor,omitempty"`
	TokenBalance   uint64 `json:"token_balance,omitempty"`
	Bump           uint8  `json:"bump,omitempty"`
}

// UserDataRecordSize user account byte size
const UserDataRecordSize = layout.DiscriminatorLen + 2*layout.PubKeyLen + 3*8 + 1

// DecodeUserData decode a user account
func DecodeUserData(address string, data []byte) (*UserData, error) {
	var (
		user layout.PubKey
		mint layout.PubKey
		u    UserData
	)

	_, err := layout.ScanRecord(data, "UserData",
		&user, &u.BorrowedAmount, &mint,
		&u.HealthFactor, &u.TokenBalance, &u.Bump)
	if err != nil {
		return nil, ErrMalformedAccount
	}

	u.Address = address
	u.User = user.String()
	u.PrimaryToken = mint.String()
	return &u, nil
}

// HasDebt true when the record carries outstanding debt
func (u *UserData) HasDebt() bool {
	return u.BorrowedAmount > 0
}

// InfiniteHealth true when the stored health factor is the no-debt
// sentinel
func (u *UserData) InfiniteHealth() bool {
	return u.HealthFactor == HealthFactorInfinity
}
