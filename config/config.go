package config

import (
	"os"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Twilio     TwilioConfig
	Nylas      NylasConfig
	Razorpay   RazorpayConfig
	Cloudinary CloudinaryConfig
	Firebase   FirebaseConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret     string
	ActivationSecret string
	AccessExpiry     time.Duration
	ActivationExpiry time.Duration
	Issuer           string
}

// TwilioConfig for the Verify API (phone OTP). Twilio stores and checks the
// codes; we never persist them locally.
type TwilioConfig struct {
	AccountSID       string
	AuthToken        string
	VerifyServiceSID string
	BaseURL          string
}

type NylasConfig struct {
	BaseURL  string
	APIKey   string
	GrantID  string
	FromName string
	FromAddr string
}

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Currency  string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type FirebaseConfig struct {
	ServiceAccountPath string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getenv("PORT", "8085"),
			Env:          getenv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getenv("DATABASE_DSN", "amburide:amburide@tcp(localhost:3306)/amburide?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:     getenv("ACCESS_TOKEN_SECRET", "change-me-in-production"),
			ActivationSecret: getenv("EMAIL_ACTIVATION_SECRET", "change-me-activation"),
			AccessExpiry:     168 * time.Hour,
			ActivationExpiry: 5 * time.Minute,
			Issuer:           "amburide",
		},
		Twilio: TwilioConfig{
			AccountSID:       os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:        os.Getenv("TWILIO_AUTH_TOKEN"),
			VerifyServiceSID: os.Getenv("TWILIO_SERVICE_SID"),
			BaseURL:          "https://verify.twilio.com",
		},
		Nylas: NylasConfig{
			BaseURL:  getenv("NYLAS_API_URI", "https://api.us.nylas.com"),
			APIKey:   os.Getenv("NYLAS_API_KEY"),
			GrantID:  os.Getenv("USER_GRANT_ID"),
			FromName: "AmbuRide Team",
			FromAddr: getenv("NYLAS_FROM_ADDR", "no-reply@amburide.com"),
		},
		Razorpay: RazorpayConfig{
			KeyID:     os.Getenv("RAZORPAY_KEY_ID"),
			KeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
			BaseURL:   "https://api.razorpay.com",
			Currency:  "INR",
		},
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
		Firebase: FirebaseConfig{
			ServiceAccountPath: os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
