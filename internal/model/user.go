package model

import "time"

// VerificationStatus is the coarse account state driven by Aadhaar OTP verification.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationVerified VerificationStatus = "VERIFIED"
)

// User represents a registered person
type User struct {
	ID                 int                `json:"id"`
	Name               string             `json:"name"`
	Email              string             `json:"email"`
	Phone              string             `json:"phone"`
	PasswordHash       string             `json:"-"` // Do not expose password hash in JSON responses
	DOB                *time.Time         `json:"dob,omitempty"`
	Gender             string             `json:"gender"`
	Address            string             `json:"address"`
	State              string             `json:"state"`
	City               string             `json:"city"`
	PostalCode         string             `json:"postalCode"`
	AadhaarNumber      string             `json:"aadhaarNumber"`
	PanNumber          string             `json:"panNumber"`
	AnnualIncome       *float64           `json:"annualIncome,omitempty"`
	EmploymentType     string             `json:"employmentType"`
	EmployerName       string             `json:"employerName"`
	AadhaarVerified    bool               `json:"aadhaarVerified"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	OTPCode            *string            `json:"-"`
	OTPExpiresAt       *time.Time         `json:"-"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// HasPendingOTP reports whether both OTP fields are set.
func (u *User) HasPendingOTP() bool {
	return u.OTPCode != nil && u.OTPExpiresAt != nil
}

// Public returns the projection sent back on register and login.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

// PublicUser is the minimal user view returned alongside a token
type PublicUser struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Identity is what the auth middleware attaches to an authenticated request.
type Identity struct {
	ID    int
	Email string
}

// RegisterRequest is the payload for creating a new account
type RegisterRequest struct {
	Name           string   `json:"name" binding:"required"`
	Email          string   `json:"email" binding:"required,email"`
	Password       string   `json:"password" binding:"required,min=6,max=72"`
	Phone          string   `json:"phone"`
	DOB            string   `json:"dob"`
	Gender         string   `json:"gender"`
	Address        string   `json:"address"`
	State          string   `json:"state"`
	City           string   `json:"city"`
	PostalCode     string   `json:"postalCode"`
	AadhaarNumber  string   `json:"aadhaarNumber"`
	PanNumber      string   `json:"panNumber"`
	AnnualIncome   *float64 `json:"annualIncome"`
	EmploymentType string   `json:"employmentType"`
	EmployerName   string   `json:"employerName"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type OTPRequest struct {
	Email string `json:"email" binding:"required"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}
