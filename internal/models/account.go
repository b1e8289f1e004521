package models

import "time"

// Account is a registered user. OTP codes live directly on the record: an
// empty code with a zero expiry means no code is active for that slot.
type Account struct {
	ID           string `json:"id" dynamodbav:"id"`
	Name         string `json:"name" dynamodbav:"name"`
	Email        string `json:"email" dynamodbav:"email"`
	PasswordHash string `json:"-" dynamodbav:"password_hash"`
	IsVerified   bool   `json:"is_verified" dynamodbav:"is_verified"`

	VerifyOTP          string    `json:"-" dynamodbav:"verify_otp"`
	VerifyOTPExpiresAt time.Time `json:"-" dynamodbav:"verify_otp_expires_at"`
	ResetOTP           string    `json:"-" dynamodbav:"reset_otp"`
	ResetOTPExpiresAt  time.Time `json:"-" dynamodbav:"reset_otp_expires_at"`

	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

func (a *Account) GetPK() string {
	return "ACCOUNT#" + a.ID
}

func (a *Account) GetSK() string {
	return "METADATA"
}

// EmailPK is the partition key of the uniqueness item that maps an email
// address to its account id.
func EmailPK(email string) string {
	return "EMAIL#" + email
}

// ClearVerifyOTP resets the verification slot to its canonical empty state.
func (a *Account) ClearVerifyOTP() {
	a.VerifyOTP = ""
	a.VerifyOTPExpiresAt = time.Time{}
}

// ClearResetOTP resets the reset slot to its canonical empty state.
func (a *Account) ClearResetOTP() {
	a.ResetOTP = ""
	a.ResetOTPExpiresAt = time.Time{}
}
