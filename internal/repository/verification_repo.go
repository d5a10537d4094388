package repository

import (
	"context"
	"errors"
	"fmt"

	"identity_service/internal/model"

	"github.com/jackc/pgx/v5"
)

// VerificationRepository reads the per-user Aadhaar and PAN verification records
type VerificationRepository interface {
	FindAadhaarByUserID(ctx context.Context, userID int) (*model.AadhaarVerification, error)
	FindPanByUserID(ctx context.Context, userID int) (*model.PanVerification, error)
}

type verificationRepository struct {
	db DBTX
}

// NewVerificationRepository creates a new VerificationRepository
func NewVerificationRepository(db DBTX) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) FindAadhaarByUserID(ctx context.Context, userID int) (*model.AadhaarVerification, error) {
	v := &model.AadhaarVerification{}
	sql := `SELECT id, user_id, aadhaar_number, verified, verified_at, created_at
            FROM aadhaar_verifications WHERE user_id = $1`
	err := r.db.QueryRow(ctx, sql, userID).Scan(&v.ID, &v.UserID, &v.AadhaarNumber, &v.Verified, &v.VerifiedAt, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find aadhaar record: %w", err)
	}
	return v, nil
}

func (r *verificationRepository) FindPanByUserID(ctx context.Context, userID int) (*model.PanVerification, error) {
	v := &model.PanVerification{}
	sql := `SELECT id, user_id, pan_number, verified, verified_at, created_at
            FROM pan_verifications WHERE user_id = $1`
	err := r.db.QueryRow(ctx, sql, userID).Scan(&v.ID, &v.UserID, &v.PanNumber, &v.Verified, &v.VerifiedAt, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find pan record: %w", err)
	}
	return v, nil
}
