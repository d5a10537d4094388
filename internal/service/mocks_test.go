package service

import (
	"context"
	"time"

	"identity_service/internal/model"

	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) SetOTP(ctx context.Context, id int, code string, expiresAt time.Time) error {
	return m.Called(ctx, id, code, expiresAt).Error(0)
}

// ConfirmAadhaar hands the configured user to check, like the real row lock would.
func (m *mockUserRepo) ConfirmAadhaar(ctx context.Context, email string, check func(*model.User) error) error {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	if err := check(u); err != nil {
		return err
	}
	if args.Error(1) == nil && u != nil {
		u.AadhaarVerified = true
		u.VerificationStatus = model.VerificationVerified
		u.OTPCode = nil
		u.OTPExpiresAt = nil
	}
	return args.Error(1)
}

func (m *mockUserRepo) UpdateFields(ctx context.Context, id int, fields map[string]any) (*model.User, error) {
	args := m.Called(ctx, id, fields)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

type mockVerificationRepo struct {
	mock.Mock
}

func (m *mockVerificationRepo) FindAadhaarByUserID(ctx context.Context, userID int) (*model.AadhaarVerification, error) {
	args := m.Called(ctx, userID)
	v, _ := args.Get(0).(*model.AadhaarVerification)
	return v, args.Error(1)
}

func (m *mockVerificationRepo) FindPanByUserID(ctx context.Context, userID int) (*model.PanVerification, error) {
	args := m.Called(ctx, userID)
	v, _ := args.Get(0).(*model.PanVerification)
	return v, args.Error(1)
}

type fixedOTP string

func (f fixedOTP) Generate() (string, error) { return string(f), nil }

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, code, destination string) error {
	return m.Called(ctx, code, destination).Error(0)
}
