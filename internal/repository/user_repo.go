package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"identity_service/internal/model"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, email, phone, password_hash, dob, gender, address, state, city, postal_code,
	aadhaar_number, pan_number, annual_income, employment_type, employer_name,
	aadhaar_verified, verification_status, otp_code, otp_expires_at, created_at, updated_at`

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	SetOTP(ctx context.Context, id int, code string, expiresAt time.Time) error
	ConfirmAadhaar(ctx context.Context, email string, check func(*model.User) error) error
	UpdateFields(ctx context.Context, id int, fields map[string]any) (*model.User, error)
}

type userRepository struct {
	db DBTX
	sb sq.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	var status string
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.DOB, &u.Gender, &u.Address,
		&u.State, &u.City, &u.PostalCode, &u.AadhaarNumber, &u.PanNumber, &u.AnnualIncome,
		&u.EmploymentType, &u.EmployerName, &u.AadhaarVerified, &status, &u.OTPCode,
		&u.OTPExpiresAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.VerificationStatus = model.VerificationStatus(status)
	return u, nil
}

// inTx runs fn inside a transaction, committing on success and rolling back
// when fn fails.
func (r *userRepository) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Create inserts a new user together with its Aadhaar and PAN verification
// records in a single transaction.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		sql := `INSERT INTO users (name, email, phone, password_hash, dob, gender, address, state, city,
                postal_code, aadhaar_number, pan_number, annual_income, employment_type, employer_name,
                aadhaar_verified, verification_status)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
            RETURNING id, created_at, updated_at`
		err := tx.QueryRow(ctx, sql,
			user.Name, user.Email, user.Phone, user.PasswordHash, user.DOB, user.Gender, user.Address,
			user.State, user.City, user.PostalCode, user.AadhaarNumber, user.PanNumber, user.AnnualIncome,
			user.EmploymentType, user.EmployerName, user.AadhaarVerified, string(user.VerificationStatus),
		).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			if postgresError(err) == pgerrcode.UniqueViolation {
				return ErrEmailExists
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		if user.AadhaarNumber != "" {
			if _, err := tx.Exec(ctx,
				`INSERT INTO aadhaar_verifications (user_id, aadhaar_number) VALUES ($1, $2)`,
				user.ID, user.AadhaarNumber); err != nil {
				return fmt.Errorf("failed to create aadhaar record: %w", err)
			}
		}
		if user.PanNumber != "" {
			if _, err := tx.Exec(ctx,
				`INSERT INTO pan_verifications (user_id, pan_number) VALUES ($1, $2)`,
				user.ID, user.PanNumber); err != nil {
				return fmt.Errorf("failed to create pan record: %w", err)
			}
		}
		return nil
	})
}

// FindByEmail retrieves a user by email; a missing row yields (nil, nil)
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by ID; a missing row yields (nil, nil)
func (r *userRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// SetOTP stores a fresh code and its expiry, replacing any previous one
func (r *userRepository) SetOTP(ctx context.Context, id int, code string, expiresAt time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET otp_code = $1, otp_expires_at = $2 WHERE id = $3`, code, expiresAt, id)
	if err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ConfirmAadhaar locks the user row for email, hands it to check, and when
// check accepts it marks the user and its Aadhaar record verified and clears
// the OTP. A missing user is passed to check as nil.
func (r *userRepository) ConfirmAadhaar(ctx context.Context, email string, check func(*model.User) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		user, err := scanUser(tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1 FOR UPDATE`, email))
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to lock user: %w", err)
		}
		if err := check(user); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			`UPDATE users SET aadhaar_verified = TRUE, verification_status = $1, otp_code = NULL, otp_expires_at = NULL
             WHERE id = $2`,
			string(model.VerificationVerified), user.ID); err != nil {
			return fmt.Errorf("failed to mark user verified: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`UPDATE aadhaar_verifications SET verified = TRUE, verified_at = NOW() WHERE user_id = $1`,
			user.ID); err != nil {
			return fmt.Errorf("failed to mark aadhaar record verified: %w", err)
		}
		return nil
	})
}

// UpdateFields sets the given column/value pairs on the user row and returns
// the updated record. Column names must come from a trusted allow-list.
func (r *userRepository) UpdateFields(ctx context.Context, id int, fields map[string]any) (*model.User, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	columns := make([]string, 0, len(fields))
	for col := range fields {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	q := r.sb.Update("users")
	for _, col := range columns {
		q = q.Set(col, fields[col])
	}
	sql, args, err := q.Where(sq.Eq{"id": id}).Suffix("RETURNING " + userColumns).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}
