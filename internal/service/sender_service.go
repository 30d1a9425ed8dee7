package service

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"costaverde/internal/entities"
)

// SenderService delivers reservation emails and SMS. Sends run in goroutines
// so the engine never blocks on a provider.
type SenderService struct {
	logger zerolog.Logger
}

func NewSenderService(logger zerolog.Logger) *SenderService {
	return &SenderService{logger: logger.With().Str("component", "sender_service").Logger()}
}

func (s *SenderService) ReservationCreated(res *entities.ReservationResponse) {
	s.notify(res, "created")
}

func (s *SenderService) ReservationCancelled(res *entities.ReservationResponse) {
	s.notify(res, "cancelled")
}

func (s *SenderService) notify(res *entities.ReservationResponse, status string) {
	if res.GuestEmail == "" && res.GuestPhone == "" {
		return // walk-ins have no requester to notify
	}

	data := newReservationEmailData(res, status, time.Now().Year())
	subject := fmt.Sprintf("Your Costa Verde reservation is %s - Code: %s", data.Status, data.ReservationCode)
	body := renderEmailBody(data)

	if res.GuestEmail != "" {
		go func() {
			if err := sendEmailWithSendGrid(res.GuestEmail, res.GuestName, subject, body); err != nil {
				s.logger.Warn().Err(err).Str("code", res.Code).Msg("reservation email failed")
			}
		}()
	}
	if res.GuestPhone != "" {
		sms := fmt.Sprintf("Costa Verde: reservation %s has been %s. Check-in: %s. Details in your email.",
			res.Code, status, res.StartTime.Format("02/01 15:04"))
		go func() {
			if err := sendSMS(res.GuestPhone, sms); err != nil {
				s.logger.Warn().Err(err).Str("code", res.Code).Msg("reservation SMS failed")
			}
		}()
	}
}

func newReservationEmailData(res *entities.ReservationResponse, status string, year int) entities.ReservationEmailData {
	return entities.ReservationEmailData{
		GuestName:          res.GuestName,
		ReservationCode:    res.Code,
		ResourceKind:       res.ResourceKind,
		StartTimeFormatted: res.StartTime.Format("02 Jan 2006 15:04 MST"),
		EndTimeFormatted:   res.EndTime.Format("02 Jan 2006 15:04 MST"),
		TotalAmount:        res.TotalAmount,
		Status:             status,
		CurrentYear:        year,
	}
}

func renderEmailBody(d entities.ReservationEmailData) string {
	return fmt.Sprintf(
		"Hello %s,\n\nYour %s reservation at Costa Verde is %s.\n\n"+
			"Reservation Details:\n"+
			"Reservation Code: %s\n"+
			"Check-in: %s\n"+
			"Check-out: %s\n"+
			"Total: %d\n\n"+
			"Thank you for choosing Costa Verde.\n"+
			"Costa Verde, %d",
		d.GuestName, d.ResourceKind, d.Status,
		d.ReservationCode, d.StartTimeFormatted, d.EndTimeFormatted,
		d.TotalAmount, d.CurrentYear,
	)
}

func sendEmailWithSendGrid(toEmail, toName, subject, plainTextContent string) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY not configured")
	}
	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if fromEmail == "" {
		return fmt.Errorf("SENDGRID_FROM_EMAIL not configured")
	}
	fromName := os.Getenv("SENDGRID_FROM_NAME")
	if fromName == "" {
		fromName = "Costa Verde"
	}

	from := mail.NewEmail(fromName, fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, "")

	client := sendgrid.NewSendClient(apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sending email via SendGrid: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("SendGrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

func sendSMS(toNumber, messageBody string) error {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	fromNumber := os.Getenv("TWILIO_FROM_NUMBER")
	if accountSid == "" || authToken == "" || fromNumber == "" {
		return fmt.Errorf("Twilio credentials not fully configured")
	}
	if !strings.HasPrefix(toNumber, "+") {
		return fmt.Errorf("destination number %q is not in E.164 format", toNumber)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(fromNumber)
	params.SetBody(messageBody)

	if _, err := client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("sending SMS via Twilio: %w", err)
	}
	return nil
}
