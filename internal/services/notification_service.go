package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/constants"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/repositories"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

type NotificationEvent string

const (
	EventBookingRequested NotificationEvent = "booking.requested"
	EventBookingAccepted  NotificationEvent = "booking.accepted"
	EventBookingRejected  NotificationEvent = "booking.rejected"
	EventBookingConfirmed NotificationEvent = "booking.confirmed"
	EventBookingCancelled NotificationEvent = "booking.cancelled"

	EventVisitRequested     NotificationEvent = "visit.requested"
	EventVisitStatusChanged NotificationEvent = "visit.status_changed"
	EventVisitCancelled     NotificationEvent = "visit.cancelled"
)

// NotificationPayload describes what happened and to whom it should be told.
type NotificationPayload struct {
	RecipientIDs []uuid.UUID
	Booking      *models.Booking
	Visit        *models.PropertyVisit
	Reason       string
}

// Notifier is the sink for lifecycle events. Delivery failures are the
// sink's problem; callers never see them.
type Notifier interface {
	Notify(ctx context.Context, event NotificationEvent, payload NotificationPayload)
}

// EmailSender is satisfied by *sendgrid.Client.
type EmailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SMSSender is satisfied by the Api field of *twilio.RestClient. It takes
// no context; the client's own timeout bounds each call.
type SMSSender interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type NotificationSettings struct {
	OrganizationName string
	FromEmail        string
	FromPhone        string
	SandboxMode      bool
}

type notificationService struct {
	userRepo repositories.UserRepository
	email    EmailSender
	sms      SMSSender
	settings NotificationSettings
	timeout  time.Duration
	// dispatch runs a delivery; in production on its own goroutine.
	dispatch func(func())
}

// NewNotificationService builds the email+SMS sink. Either sender may be
// nil, which disables that channel.
func NewNotificationService(
	userRepo repositories.UserRepository,
	email EmailSender,
	sms SMSSender,
	settings NotificationSettings,
) Notifier {
	return &notificationService{
		userRepo: userRepo,
		email:    email,
		sms:      sms,
		settings: settings,
		timeout:  constants.NotificationTimeout,
		dispatch: func(fn func()) { go fn() },
	}
}

// Notify returns at once. Delivery outlives the request that triggered it
// and is cut off after the notification timeout.
func (s *notificationService) Notify(ctx context.Context, event NotificationEvent, payload NotificationPayload) {
	deliveryCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	s.dispatch(func() {
		defer cancel()
		s.deliver(deliveryCtx, event, payload)
	})
}

func (s *notificationService) deliver(ctx context.Context, event NotificationEvent, payload NotificationPayload) {
	subject, body := renderNotification(event, payload)

	for _, id := range payload.RecipientIDs {
		if ctx.Err() != nil {
			utils.Logger.WithError(ctx.Err()).Warnf("Notify %s: gave up before recipient %s", event, id)
			return
		}
		user, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			utils.Logger.WithError(err).Warnf("Notify %s: lookup of recipient %s failed", event, id)
			continue
		}
		if user == nil {
			utils.Logger.Warnf("Notify %s: recipient %s not found", event, id)
			continue
		}

		// ---------- SendGrid Email ----------
		if s.email != nil && user.Email != "" && s.settings.FromEmail != "" {
			from := mail.NewEmail(s.settings.OrganizationName, s.settings.FromEmail)
			to := mail.NewEmail(user.FullName(), user.Email)
			msg := mail.NewSingleEmail(from, subject, to, body, "<p>"+body+"</p>")
			msg.TrackingSettings = &mail.TrackingSettings{
				ClickTracking: &mail.ClickTrackingSetting{Enable: utils.Ptr(false)},
			}
			if s.settings.SandboxMode {
				ms := mail.NewMailSettings()
				ms.SetSandboxMode(mail.NewSetting(true))
				msg.MailSettings = ms
			}
			if resp, err := s.email.SendWithContext(ctx, msg); err != nil {
				utils.Logger.WithError(err).Warnf("Email send failure for %s to user %s", event, id)
			} else if resp != nil && resp.StatusCode >= 300 {
				utils.Logger.Warnf("SendGrid rejected %s email to user %s: status %d", event, id, resp.StatusCode)
			}
		}

		// ---------- Twilio SMS ----------
		if s.sms != nil && user.PhoneNumber != "" && s.settings.FromPhone != "" {
			params := &twilioApi.CreateMessageParams{}
			params.SetTo(user.PhoneNumber)
			params.SetFrom(s.settings.FromPhone)
			params.SetBody(subject + " :: " + body)
			if _, err := s.sms.CreateMessage(params); err != nil {
				utils.Logger.WithError(err).Warnf("SMS send failure for %s to user %s", event, id)
			}
		}
	}
}

func renderNotification(event NotificationEvent, p NotificationPayload) (subject, body string) {
	var ref string
	switch {
	case p.Booking != nil:
		ref = p.Booking.BookingCode
	case p.Visit != nil:
		ref = fmt.Sprintf("%s %s", p.Visit.VisitDate.Format("2006-01-02"), p.Visit.VisitTime)
	}

	switch event {
	case EventBookingRequested:
		subject, body = "New booking request", fmt.Sprintf("Booking %s is waiting for your review.", ref)
	case EventBookingAccepted:
		subject, body = "Booking accepted", fmt.Sprintf("Booking %s was accepted by the owner. Confirm it to finalize.", ref)
	case EventBookingRejected:
		subject, body = "Booking rejected", fmt.Sprintf("Booking %s was rejected: %s", ref, p.Reason)
	case EventBookingConfirmed:
		subject, body = "Booking confirmed", fmt.Sprintf("Booking %s is confirmed.", ref)
	case EventBookingCancelled:
		subject, body = "Booking cancelled", fmt.Sprintf("Booking %s was cancelled by the tenant.", ref)
	case EventVisitRequested:
		subject, body = "New visit request", fmt.Sprintf("A visit was requested for %s.", ref)
	case EventVisitStatusChanged:
		status := ""
		if p.Visit != nil {
			status = string(p.Visit.Status)
		}
		subject, body = "Visit updated", fmt.Sprintf("Your visit on %s is now %s.", ref, status)
	case EventVisitCancelled:
		subject, body = "Visit cancelled", fmt.Sprintf("The visit on %s was cancelled.", ref)
	default:
		subject, body = "Update", string(event)
	}
	return subject, body
}

// nopNotifier drops every event.
type nopNotifier struct{}

func NewNopNotifier() Notifier { return nopNotifier{} }

func (nopNotifier) Notify(context.Context, NotificationEvent, NotificationPayload) {}
