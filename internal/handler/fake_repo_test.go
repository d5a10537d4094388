package handler

import (
	"context"
	"errors"
	"sync"
	"time"

	"identity_service/internal/model"
	"identity_service/internal/repository"
)

// memUserRepo is an in-memory repository.UserRepository for handler tests.
type memUserRepo struct {
	mu     sync.Mutex
	nextID int
	byID   map[int]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{nextID: 1, byID: map[int]*model.User{}}
}

func (r *memUserRepo) copyOf(u *model.User) *model.User {
	c := *u
	return &c
}

func (r *memUserRepo) findByEmail(email string) *model.User {
	for _, u := range r.byID {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (r *memUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findByEmail(user.Email) != nil {
		return repository.ErrEmailExists
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.byID[user.ID] = r.copyOf(user)
	return nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u := r.findByEmail(email); u != nil {
		return r.copyOf(u), nil
	}
	return nil, nil
}

func (r *memUserRepo) FindByID(_ context.Context, id int) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		return r.copyOf(u), nil
	}
	return nil, nil
}

func (r *memUserRepo) SetOTP(_ context.Context, id int, code string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	if u.AadhaarVerified {
		return errors.New("users_verified_consistent: otp on verified user")
	}
	u.OTPCode = &code
	u.OTPExpiresAt = &expiresAt
	return nil
}

func (r *memUserRepo) ConfirmAadhaar(_ context.Context, email string, check func(*model.User) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.findByEmail(email)
	var view *model.User
	if u != nil {
		view = r.copyOf(u)
	}
	if err := check(view); err != nil {
		return err
	}
	u.AadhaarVerified = true
	u.VerificationStatus = model.VerificationVerified
	u.OTPCode = nil
	u.OTPExpiresAt = nil
	return nil
}

func (r *memUserRepo) UpdateFields(_ context.Context, id int, fields map[string]any) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	for col, v := range fields {
		switch col {
		case "name":
			u.Name = v.(string)
		case "phone":
			u.Phone = v.(string)
		case "gender":
			u.Gender = v.(string)
		case "address":
			u.Address = v.(string)
		case "state":
			u.State = v.(string)
		case "city":
			u.City = v.(string)
		case "postal_code":
			u.PostalCode = v.(string)
		case "employment_type":
			u.EmploymentType = v.(string)
		case "employer_name":
			u.EmployerName = v.(string)
		case "dob":
			if d, ok := v.(time.Time); ok {
				u.DOB = &d
			} else {
				u.DOB = nil
			}
		case "annual_income":
			if f, ok := v.(float64); ok {
				u.AnnualIncome = &f
			} else {
				u.AnnualIncome = nil
			}
		}
	}
	u.UpdatedAt = time.Now()
	return r.copyOf(u), nil
}

func (r *memUserRepo) expireOTP(email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u := r.findByEmail(email); u != nil && u.OTPExpiresAt != nil {
		past := time.Now().Add(-time.Second)
		u.OTPExpiresAt = &past
	}
}

type memVerificationRepo struct{}

func (memVerificationRepo) FindAadhaarByUserID(_ context.Context, userID int) (*model.AadhaarVerification, error) {
	return &model.AadhaarVerification{UserID: userID, AadhaarNumber: "123456789123"}, nil
}

func (memVerificationRepo) FindPanByUserID(context.Context, int) (*model.PanVerification, error) {
	return nil, nil
}
