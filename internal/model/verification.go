package model

import "time"

// AadhaarVerification tracks the verification state of a user's Aadhaar number.
type AadhaarVerification struct {
	ID            int        `json:"id"`
	UserID        int        `json:"userId"`
	AadhaarNumber string     `json:"aadhaarNumber"`
	Verified      bool       `json:"verified"`
	VerifiedAt    *time.Time `json:"verifiedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// PanVerification tracks the verification state of a user's PAN.
// Nothing in the current flow marks it verified.
type PanVerification struct {
	ID         int        `json:"id"`
	UserID     int        `json:"userId"`
	PanNumber  string     `json:"panNumber"`
	Verified   bool       `json:"verified"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}
