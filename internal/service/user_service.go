package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"identity_service/internal/model"
	"identity_service/internal/repository"
	"identity_service/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	errTokenInvalid = &Error{Kind: KindUnauthorized, Message: "Invalid or expired token."}
	errTokenUser    = &Error{Kind: KindUnauthorized, Message: "User not found."}
)

// OTPSender delivers a one-time code to a destination (phone or email).
type OTPSender interface {
	Send(ctx context.Context, code, destination string) error
}

// OTPResult is returned by RequestOTP. OTP is empty unless echoing is enabled.
type OTPResult struct {
	Message string
	OTP     string
}

// Verifications groups the secondary verification records of a user.
type Verifications struct {
	Aadhaar *model.AadhaarVerification `json:"aadhaar"`
	Pan     *model.PanVerification     `json:"pan"`
}

// Options carries the tunables of the user service.
type Options struct {
	OTPTTL  time.Duration
	OTPEcho bool
}

// UserService provides the identity use cases
type UserService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	RequestOTP(ctx context.Context, email string) (OTPResult, error)
	VerifyOTP(ctx context.Context, email, otp string) error
	Authenticate(ctx context.Context, token string) (model.Identity, error)
	GetProfile(ctx context.Context, userID int) (*model.User, error)
	UpdateProfile(ctx context.Context, userID int, updates map[string]any) (*model.User, error)
	GetVerifications(ctx context.Context, userID int) (*Verifications, error)
}

type userService struct {
	users         repository.UserRepository
	verifications repository.VerificationRepository
	jwtUtil       *utils.JWTUtil
	otp           OTPGenerator
	sender        OTPSender
	opts          Options
	logger        *zap.Logger
	now           func() time.Time
}

// NewUserService creates a new UserService
func NewUserService(
	users repository.UserRepository,
	verifications repository.VerificationRepository,
	jwtUtil *utils.JWTUtil,
	otp OTPGenerator,
	sender OTPSender,
	opts Options,
	logger *zap.Logger,
) UserService {
	return &userService{
		users:         users,
		verifications: verifications,
		jwtUtil:       jwtUtil,
		otp:           otp,
		sender:        sender,
		opts:          opts,
		logger:        logger,
		now:           time.Now,
	}
}

// Register creates a new account in PENDING state and issues a token
func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error) {
	log := s.logger.With(zap.String("email", req.Email))
	log.Info("register attempt")

	existingUser, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		log.Warn("registration failed: email already registered")
		return nil, "", ErrEmailTaken
	}

	var dob *time.Time
	if req.DOB != "" {
		d, err := parseDate(req.DOB)
		if err != nil {
			return nil, "", badRequest("Invalid dob, expected YYYY-MM-DD.")
		}
		dob = &d
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, "", ErrPasswordTooLong
		}
		return nil, "", err
	}

	user := &model.User{
		Name:               req.Name,
		Email:              req.Email,
		Phone:              req.Phone,
		PasswordHash:       hashedPassword,
		DOB:                dob,
		Gender:             req.Gender,
		Address:            req.Address,
		State:              req.State,
		City:               req.City,
		PostalCode:         req.PostalCode,
		AadhaarNumber:      req.AadhaarNumber,
		PanNumber:          req.PanNumber,
		AnnualIncome:       req.AnnualIncome,
		EmploymentType:     req.EmploymentType,
		EmployerName:       req.EmployerName,
		AadhaarVerified:    false,
		VerificationStatus: model.VerificationPending,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			log.Warn("registration failed: email registered concurrently")
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
	}
	log.Info("user registered", zap.Int("user_id", user.ID))

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Email)
	if err != nil {
		log.Error("user created, but failed to generate token", zap.Int("user_id", user.ID), zap.Error(err))
		return user, "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}

	return user, token, nil
}

// Login authenticates a user and returns a JWT token
func (s *userService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	log := s.logger.With(zap.String("email", email))
	log.Info("login attempt")

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		log.Warn("login failed: user not found")
		return nil, "", ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		log.Warn("login failed: incorrect password")
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	log.Info("login successful", zap.Int("user_id", user.ID))
	return user, token, nil
}

// RequestOTP issues a fresh Aadhaar OTP for the user and hands it to the sender
func (s *userService) RequestOTP(ctx context.Context, email string) (OTPResult, error) {
	log := s.logger.With(zap.String("email", email))
	log.Info("aadhaar otp requested")

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return OTPResult{}, fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		log.Warn("request otp failed: user not found")
		return OTPResult{}, ErrUserNotFound
	}

	if !validAadhaar(user.AadhaarNumber) {
		log.Warn("request otp failed: invalid aadhaar format")
		return OTPResult{}, ErrInvalidAadhaar
	}
	if user.AadhaarVerified {
		log.Warn("request otp failed: aadhaar already verified")
		return OTPResult{}, ErrAlreadyVerified
	}

	code, err := s.otp.Generate()
	if err != nil {
		return OTPResult{}, err
	}
	expiresAt := otpExpiry(s.now(), s.opts.OTPTTL)

	if err := s.users.SetOTP(ctx, user.ID, code, expiresAt); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return OTPResult{}, ErrUserNotFound
		}
		return OTPResult{}, err
	}

	destination := user.Phone
	if destination == "" {
		destination = user.Email
	}
	if err := s.sender.Send(ctx, code, destination); err != nil {
		return OTPResult{}, fmt.Errorf("failed to dispatch otp: %w", err)
	}
	log.Info("otp generated and stored", zap.Time("expires_at", expiresAt))

	res := OTPResult{Message: "OTP sent successfully (simulated)."}
	if s.opts.OTPEcho {
		res.OTP = code
	}
	return res, nil
}

// VerifyOTP moves the user from PENDING to VERIFIED when code matches the
// stored, unexpired OTP.
func (s *userService) VerifyOTP(ctx context.Context, email, code string) error {
	log := s.logger.With(zap.String("email", email))
	log.Info("aadhaar otp verification attempt")

	err := s.users.ConfirmAadhaar(ctx, email, func(user *model.User) error {
		if user == nil || !user.HasPendingOTP() {
			log.Warn("otp verification failed: user or otp not found")
			return ErrOTPNotFound
		}
		if *user.OTPCode != code || otpExpired(s.now(), *user.OTPExpiresAt) {
			log.Warn("otp verification failed: invalid or expired otp")
			return ErrInvalidOTP
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("aadhaar verified")
	return nil
}

// Authenticate resolves a bearer token to the identity of an existing user
func (s *userService) Authenticate(ctx context.Context, token string) (model.Identity, error) {
	claims, err := s.jwtUtil.ValidateToken(token)
	if err != nil {
		s.logger.Debug("token verification failed", zap.Error(err))
		return model.Identity{}, errTokenInvalid
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return model.Identity{}, err
	}
	if user == nil {
		return model.Identity{}, errTokenUser
	}
	return model.Identity{ID: user.ID, Email: user.Email}, nil
}

// GetProfile returns the stored user record
func (s *userService) GetProfile(ctx context.Context, userID int) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile applies the allow-listed subset of updates
func (s *userService) UpdateProfile(ctx context.Context, userID int, updates map[string]any) (*model.User, error) {
	log := s.logger.With(zap.Int("user_id", userID))
	log.Info("update profile attempt")

	fields, err := filterProfileUpdates(updates)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		log.Warn("update profile failed: no valid fields provided")
		return nil, ErrNoValidFields
	}

	user, err := s.users.UpdateFields(ctx, userID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	log.Info("profile updated", zap.Int("fields", len(fields)))
	return user, nil
}

// GetVerifications returns the Aadhaar and PAN records of the user, either of which may be nil
func (s *userService) GetVerifications(ctx context.Context, userID int) (*Verifications, error) {
	aadhaar, err := s.verifications.FindAadhaarByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	pan, err := s.verifications.FindPanByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Verifications{Aadhaar: aadhaar, Pan: pan}, nil
}

type fieldKind int

const (
	textField fieldKind = iota
	dateField
	numberField
)

type profileField struct {
	column string
	kind   fieldKind
}

// profileFields is the update allow-list keyed by JSON name.
var profileFields = map[string]profileField{
	"name":           {"name", textField},
	"phone":          {"phone", textField},
	"dob":            {"dob", dateField},
	"gender":         {"gender", textField},
	"address":        {"address", textField},
	"state":          {"state", textField},
	"city":           {"city", textField},
	"postalCode":     {"postal_code", textField},
	"annualIncome":   {"annual_income", numberField},
	"employmentType": {"employment_type", textField},
	"employerName":   {"employer_name", textField},
}

// filterProfileUpdates drops unknown keys and converts allowed values to
// column-typed values. A wrongly typed allowed value is a bad request.
func filterProfileUpdates(updates map[string]any) (map[string]any, error) {
	fields := make(map[string]any, len(updates))
	for key, raw := range updates {
		f, ok := profileFields[key]
		if !ok {
			continue
		}
		switch f.kind {
		case textField:
			v, ok := raw.(string)
			if !ok {
				return nil, badRequest(fmt.Sprintf("Field %s must be a string.", key))
			}
			fields[f.column] = v
		case dateField:
			if raw == nil {
				fields[f.column] = nil
				continue
			}
			v, ok := raw.(string)
			if !ok {
				return nil, badRequest("Field dob must be a date string.")
			}
			d, err := parseDate(v)
			if err != nil {
				return nil, badRequest("Invalid dob, expected YYYY-MM-DD.")
			}
			fields[f.column] = d
		case numberField:
			if raw == nil {
				fields[f.column] = nil
				continue
			}
			v, ok := raw.(float64)
			if !ok || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return nil, badRequest(fmt.Sprintf("Field %s must be a non-negative number.", key))
			}
			fields[f.column] = v
		}
	}
	return fields, nil
}

func parseDate(s string) (time.Time, error) {
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d, nil
	}
	return time.Parse(time.RFC3339, s)
}
