package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/rpupo63/ailabs-portal-backend/config"
	"github.com/rpupo63/ailabs-portal-backend/errs"
	"github.com/rpupo63/ailabs-portal-backend/models"
	"github.com/rs/zerolog/log"
)

type EmailSender interface {
	SendEmail(ctx context.Context, subject, html, text string, recipients []string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, body string, to []string) error
}

// Message is a notification about one new submission.
type Message struct {
	Subject string
	Text    string
	Link    string
}

// Notifier tells the site's staff about new form submissions on every
// configured channel.
type Notifier struct {
	email   EmailSender
	emailTo []string
	sms     SMSSender
	smsTo   []string
	baseURL string
}

// NewNotifier wires channels from config. A channel without credentials or
// recipients stays disabled; with none enabled Notify is a no-op.
func NewNotifier(cfg map[string]string) *Notifier {
	n := &Notifier{baseURL: config.GetString(cfg, "BASE_URL", "")}

	apiKey := config.GetString(cfg, "RESEND_API_KEY", "")
	from := config.GetString(cfg, "RESEND_FROM_EMAIL", "")
	emailTo := config.GetList(cfg, "NOTIFY_EMAIL_TO")
	if apiKey != "" && from != "" && len(emailTo) > 0 {
		n.email = NewResendClient(apiKey, from)
		n.emailTo = emailTo
	}

	sid := config.GetString(cfg, "TWILIO_ACCOUNT_SID", "")
	token := config.GetString(cfg, "TWILIO_AUTH_TOKEN", "")
	smsFrom := config.GetString(cfg, "TWILIO_FROM_NUMBER", "")
	smsTo := config.GetList(cfg, "NOTIFY_SMS_TO")
	if sid != "" && token != "" && smsFrom != "" && len(smsTo) > 0 {
		n.sms = NewTwilioClient(sid, token, smsFrom)
		n.smsTo = smsTo
	}
	return n
}

// NewNotifierWithSenders builds a Notifier from explicit channels.
func NewNotifierWithSenders(email EmailSender, emailTo []string, sms SMSSender, smsTo []string, baseURL string) *Notifier {
	return &Notifier{email: email, emailTo: emailTo, sms: sms, smsTo: smsTo, baseURL: baseURL}
}

// Channels lists the enabled channel names.
func (n *Notifier) Channels() []string {
	var channels []string
	if n.email != nil {
		channels = append(channels, "email")
	}
	if n.sms != nil {
		channels = append(channels, "sms")
	}
	return channels
}

// Notify sends msg on every enabled channel. Every channel is attempted even
// if an earlier one fails; failures are combined into the returned error.
func (n *Notifier) Notify(ctx context.Context, msg Message) error {
	if n == nil {
		return nil
	}

	var failures []string
	var successes []string

	if n.email != nil {
		text := msg.Text
		body := "<p>" + strings.ReplaceAll(html.EscapeString(msg.Text), "\n", "<br>") + "</p>"
		if msg.Link != "" {
			text += "\n\n" + msg.Link
			body += fmt.Sprintf(`<p><a href="%s">Open in admin</a></p>`, html.EscapeString(msg.Link))
		}
		if err := n.email.SendEmail(ctx, msg.Subject, body, text, n.emailTo); err != nil {
			log.Error().Err(err).Msg("Failed to send notification email")
			failures = append(failures, errs.NewNotificationError("email", err).GetFullError())
		} else {
			successes = append(successes, "email")
		}
	}

	if n.sms != nil {
		if err := n.sms.SendSMS(ctx, truncate(msg.Subject, 140), n.smsTo); err != nil {
			log.Error().Err(err).Msg("Failed to send notification SMS")
			failures = append(failures, errs.NewNotificationError("sms", err).GetFullError())
		} else {
			successes = append(successes, "sms")
		}
	}

	if len(successes) > 0 {
		log.Info().Strs("channels", successes).Str("subject", msg.Subject).Msg("Submission notification sent")
	}
	if len(failures) > 0 {
		return fmt.Errorf("some channels failed: %s", strings.Join(failures, "; "))
	}
	return nil
}

func (n *Notifier) ContactMessage(q models.ContactQuery) Message {
	kind := q.Type
	if kind == "" {
		kind = "General"
	}
	return Message{
		Subject: fmt.Sprintf("New contact query from %s (%s)", q.Name, kind),
		Text:    fmt.Sprintf("Name: %s\nEmail: %s\nType: %s\n\n%s", q.Name, q.Email, kind, truncate(q.Message, 1000)),
		Link:    BuildAdminURL(n.baseURL, "contacts"),
	}
}

func (n *Notifier) PartnershipMessage(p models.PartnershipRequest) Message {
	return Message{
		Subject: fmt.Sprintf("New partnership request from %s", p.CollegeName),
		Text:    fmt.Sprintf("College: %s\nEmail: %s\nPhone: %s", p.CollegeName, p.Email, p.Phone),
		Link:    BuildAdminURL(n.baseURL, "partnerships"),
	}
}

func (n *Notifier) JobApplicationMessage(a models.JobApplication) Message {
	text := fmt.Sprintf("Role: %s\nName: %s\nEmail: %s", a.JobRole, a.Name, a.Email)
	if a.ResumeLink != "" {
		text += "\nResume: " + a.ResumeLink
	}
	if a.CoverLetter != "" {
		text += "\n\n" + truncate(a.CoverLetter, 1000)
	}
	return Message{
		Subject: fmt.Sprintf("New application for %s from %s", a.JobRole, a.Name),
		Text:    text,
		Link:    BuildAdminURL(n.baseURL, "careers"),
	}
}
