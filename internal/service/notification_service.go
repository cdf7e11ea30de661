package service

import (
	"context"
	"fmt"
	"strconv"

	"amburide/internal/models"
	"amburide/pkg/mailer"
)

// NotificationService sends wallet and ride notices over email, plus a push
// when the recipient has a token registered. Email is the contractual channel;
// push is best-effort on top.
type NotificationService struct {
	mail mailer.Mailer
	fcm  *FCMService
}

func NewNotificationService(mail mailer.Mailer, fcm *FCMService) *NotificationService {
	return &NotificationService{mail: mail, fcm: fcm}
}

func (s *NotificationService) SendWalletWarning(ctx context.Context, d *models.Driver, count int, balance float64) error {
	subject := fmt.Sprintf("AmbuRide Wallet Warning #%d", count)
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>This is warning #%d. Your wallet balance is %.2f.</p>
<p>Please top-up your wallet soon to avoid getting blocked.</p>
<p>Regards,<br>AmbuRide Team</p>`, d.Name, count, balance)
	s.push(ctx, d.PushToken, subject, fmt.Sprintf("Wallet balance %.2f. Top up to avoid blocking.", balance), map[string]string{
		"type":          "WALLET_WARNING",
		"warning_count": strconv.Itoa(count),
	})
	return s.mail.Send(ctx, d.Name, d.Email, subject, body)
}

func (s *NotificationService) SendWalletBlocked(ctx context.Context, d *models.Driver, balance float64) error {
	subject := "Driver Blocked - AmbuRide"
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>Your wallet balance has dropped below -300. You are now temporarily <strong>blocked</strong> from accepting rides.</p>
<p>Please top-up your wallet to be unblocked automatically.</p>
<p>Regards,<br>AmbuRide Team</p>`, d.Name)
	s.push(ctx, d.PushToken, subject, "Your account is blocked until you top up your wallet.", map[string]string{
		"type": "WALLET_BLOCKED",
	})
	return s.mail.Send(ctx, d.Name, d.Email, subject, body)
}

// SendEmailOTP delivers the self-issued registration code. The code itself
// lives only in the activation token the caller holds.
func (s *NotificationService) SendEmailOTP(ctx context.Context, name, email, otp string) error {
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>Your AmbuRide verification code is %s. If you didn't request this OTP, please ignore this email!</p>
<p>Thanks,<br>AmbuRide Team</p>`, name, otp)
	return s.mail.Send(ctx, name, email, "Verify your email address!", body)
}

func (s *NotificationService) NotifyRideAssigned(ctx context.Context, u *models.User, ride *models.Ride) {
	s.push(ctx, u.PushToken, "Driver on the way",
		fmt.Sprintf("Your ride to %s has been created.", ride.DestinationLocationName),
		map[string]string{"type": "RIDE_CREATED", "ride_id": strconv.FormatUint(uint64(ride.ID), 10)})
}

func (s *NotificationService) push(ctx context.Context, token, title, body string, data map[string]string) {
	if s.fcm == nil || token == "" {
		return
	}
	_ = s.fcm.Send(ctx, token, title, body, data)
}
