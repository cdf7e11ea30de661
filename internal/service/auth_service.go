package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"

	"amburide/config"
	"amburide/internal/auth"
	"amburide/internal/domain"
	"amburide/internal/models"
	"amburide/internal/repository"
	"amburide/pkg/sms"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrOTPInvalid   = errors.New("OTP is not correct or expired")
	ErrTokenExpired = errors.New("activation token is invalid or expired")
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidCreds = errors.New("invalid email or password")
)

// AuthService owns identity: phone OTP (Twilio holds the codes), email OTP
// (self-issued, carried in a signed activation token), and admin passwords.
type AuthService struct {
	cfg      *config.Config
	verifier sms.Verifier
	notifier *NotificationService
	drivers  *repository.DriverRepository
	users    *repository.UserRepository
	admins   *repository.AdminRepository
}

func NewAuthService(cfg *config.Config, verifier sms.Verifier, notifier *NotificationService, drivers *repository.DriverRepository, users *repository.UserRepository, admins *repository.AdminRepository) *AuthService {
	return &AuthService{cfg: cfg, verifier: verifier, notifier: notifier, drivers: drivers, users: users, admins: admins}
}

func (s *AuthService) SendPhoneOTP(ctx context.Context, phone string) error {
	return s.verifier.SendVerification(ctx, phone)
}

// VerifyPhoneOTP checks a code with the provider. Used standalone during
// registration, before the email step.
func (s *AuthService) VerifyPhoneOTP(ctx context.Context, phone, code string) error {
	ok, err := s.verifier.CheckVerification(ctx, phone, code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOTPInvalid
	}
	return nil
}

// LoginDriver verifies the phone OTP and issues an access token for an
// existing driver.
func (s *AuthService) LoginDriver(ctx context.Context, phone, code string) (*models.Driver, string, error) {
	if err := s.VerifyPhoneOTP(ctx, phone, code); err != nil {
		return nil, "", err
	}
	d, err := s.drivers.GetByPhone(phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrDriverNotFound
		}
		return nil, "", err
	}
	token, err := auth.GenerateAccessToken(&s.cfg.JWT, d.ID, domain.RoleDriver)
	if err != nil {
		return nil, "", err
	}
	return d, token, nil
}

// DriverRegistration is the pending payload carried inside the activation
// token until the email OTP is confirmed.
type DriverRegistration struct {
	Name               string
	Country            string
	PhoneNumber        string
	Email              string
	VehicleType        string
	RegistrationNumber string
	RegistrationDate   string
	DrivingLicense     string
	VehicleColor       string
	Rate               float64
}

// StartDriverRegistration issues a 4-digit code, emails it, and returns an
// activation token embedding code and payload. Nothing is stored server-side;
// the token's 5-minute expiry is the only clock.
func (s *AuthService) StartDriverRegistration(ctx context.Context, reg DriverRegistration) (string, error) {
	otp := newOTP()
	payload := map[string]string{
		"name":                reg.Name,
		"country":             reg.Country,
		"phone_number":        reg.PhoneNumber,
		"email":               reg.Email,
		"vehicle_type":        reg.VehicleType,
		"registration_number": reg.RegistrationNumber,
		"registration_date":   reg.RegistrationDate,
		"driving_license":     reg.DrivingLicense,
		"vehicle_color":       reg.VehicleColor,
		"rate":                strconv.FormatFloat(reg.Rate, 'f', -1, 64),
	}
	token, err := auth.GenerateActivationToken(&s.cfg.JWT, otp, payload)
	if err != nil {
		return "", err
	}
	if err := s.notifier.SendEmailOTP(ctx, reg.Name, reg.Email, otp); err != nil {
		return "", err
	}
	return token, nil
}

// CompleteDriverRegistration verifies the replayed token + code and creates
// the driver account.
func (s *AuthService) CompleteDriverRegistration(ctx context.Context, token, otp string) (*models.Driver, string, error) {
	claims, err := auth.ParseActivationToken(&s.cfg.JWT, token)
	if err != nil {
		return nil, "", ErrTokenExpired
	}
	if claims.OTP != otp {
		return nil, "", ErrOTPInvalid
	}
	rate, _ := strconv.ParseFloat(claims.Payload["rate"], 64)
	d := &models.Driver{
		Name:               claims.Payload["name"],
		Country:            claims.Payload["country"],
		PhoneNumber:        claims.Payload["phone_number"],
		Email:              claims.Payload["email"],
		VehicleType:        claims.Payload["vehicle_type"],
		RegistrationNumber: claims.Payload["registration_number"],
		RegistrationDate:   claims.Payload["registration_date"],
		DrivingLicense:     claims.Payload["driving_license"],
		VehicleColor:       claims.Payload["vehicle_color"],
		Rate:               rate,
		Status:             domain.DriverInactive,
	}
	if err := s.drivers.Create(d); err != nil {
		return nil, "", err
	}
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, d.ID, domain.RoleDriver)
	if err != nil {
		return nil, "", err
	}
	return d, access, nil
}

// RegisterUser sends a phone OTP for a new or returning rider.
func (s *AuthService) RegisterUser(ctx context.Context, phone string) error {
	return s.verifier.SendVerification(ctx, phone)
}

// VerifyUserOTP checks the code and finds or creates the user account.
func (s *AuthService) VerifyUserOTP(ctx context.Context, phone, code, name string) (*models.User, string, error) {
	if err := s.VerifyPhoneOTP(ctx, phone, code); err != nil {
		return nil, "", err
	}
	u, err := s.users.GetByPhone(phone)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		u = &models.User{Name: name, PhoneNumber: phone}
		if err := s.users.Create(u); err != nil {
			return nil, "", err
		}
	} else if err != nil {
		return nil, "", err
	}
	token, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, domain.RoleUser)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// StartUserEmailVerification issues an email OTP for attaching an address to
// an existing user account.
func (s *AuthService) StartUserEmailVerification(ctx context.Context, userID uint, name, email string) (string, error) {
	otp := newOTP()
	payload := map[string]string{
		"user_id": strconv.FormatUint(uint64(userID), 10),
		"name":    name,
		"email":   email,
	}
	token, err := auth.GenerateActivationToken(&s.cfg.JWT, otp, payload)
	if err != nil {
		return "", err
	}
	if err := s.notifier.SendEmailOTP(ctx, name, email, otp); err != nil {
		return "", err
	}
	return token, nil
}

func (s *AuthService) CompleteUserEmailVerification(ctx context.Context, userID uint, token, otp string) (*models.User, error) {
	claims, err := auth.ParseActivationToken(&s.cfg.JWT, token)
	if err != nil {
		return nil, ErrTokenExpired
	}
	if claims.OTP != otp {
		return nil, ErrOTPInvalid
	}
	if claims.Payload["user_id"] != strconv.FormatUint(uint64(userID), 10) {
		return nil, ErrTokenExpired
	}
	u, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	email := claims.Payload["email"]
	u.Email = &email
	if claims.Payload["name"] != "" {
		u.Name = claims.Payload["name"]
	}
	if err := s.users.Update(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (string, error) {
	a, err := s.admins.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCreds
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCreds
	}
	return auth.GenerateAccessToken(&s.cfg.JWT, a.ID, domain.RoleAdmin)
}

func newOTP() string {
	return fmt.Sprintf("%04d", 1000+rand.Intn(9000))
}
