package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"veridia-hiring-backend/config"
	"veridia-hiring-backend/pkg/logger"
)

// Service sends transactional emails via SMTP. It is never on the critical
// path: callers dispatch sends through Dispatch and move on.
type Service struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
}

// NewService creates a new email service from SMTP configuration
func NewService(cfg *config.Config) *Service {
	return &Service{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.SMTPFromEmail,
	}
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *Service) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}

// Dispatch runs a notification send detached from the request path.
// Failures are logged and discarded; persisted state is the source of
// truth, a lost email must never fail or roll back a write.
func Dispatch(event string, send func() error) {
	go func() {
		if err := send(); err != nil {
			logger.Log.Error("Notification delivery failed", "event", event, "error", err)
		}
	}()
}

const baseTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .highlight { background: white; padding: 15px; border-left: 4px solid #0066cc; margin-top: 10px; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>{{.Title}}</h1>
        </div>
        <div class="content">
            <p>Dear {{.Name}},</p>
            <p>{{.Lead}}</p>
            {{if .Detail}}<div class="highlight">{{.Detail}}</div>{{end}}
            <p>{{.Closing}}</p>
        </div>
        <div class="footer">
            <p>Veridia Hiring Platform — connecting talent with opportunity.</p>
        </div>
    </div>
</body>
</html>`

type templateData struct {
	Title   string
	Name    string
	Lead    string
	Detail  string
	Closing string
}

// SendWelcome greets a freshly registered user.
func (s *Service) SendWelcome(toEmail, name string) error {
	return s.send(toEmail, "Welcome to Veridia Hiring Platform", templateData{
		Title:   "Welcome to Veridia",
		Name:    name,
		Lead:    fmt.Sprintf("Your account has been created with the email %s. You can now browse open positions and submit your application.", toEmail),
		Closing: "We wish you the best in your job search journey!",
	})
}

// SendApplicationSubmitted confirms a submitted application. jobTitle may be
// empty when the application is not tied to a specific posting.
func (s *Service) SendApplicationSubmitted(toEmail, firstName, lastName, jobTitle string) error {
	lead := "Your application has been submitted successfully and will be reviewed by our hiring team."
	if jobTitle != "" {
		lead = fmt.Sprintf("Your application for the %s position has been submitted successfully and will be reviewed by our hiring team.", jobTitle)
	}
	return s.send(toEmail, "Application Submitted — Veridia Hiring Platform", templateData{
		Title:   "Application Submitted",
		Name:    firstName + " " + lastName,
		Lead:    lead,
		Detail:  "Current status: Under Review. You will receive email notifications about status updates.",
		Closing: "Thank you for your interest in joining Veridia!",
	})
}

// Status-specific copy for transition notifications.
var statusMessages = map[string]struct {
	subject string
	lead    string
}{
	"SHORTLISTED": {
		subject: "You Have Been Shortlisted — Veridia Hiring Platform",
		lead:    "Congratulations! Your application has been shortlisted. Our HR team will contact you within 2-3 business days to schedule an interview.",
	},
	"ACCEPTED": {
		subject: "Offer Extended — Veridia Hiring Platform",
		lead:    "Congratulations! You have been selected for the position. Our team will reach out shortly with your offer details and onboarding steps.",
	},
	"REJECTED": {
		subject: "Application Update — Veridia Hiring Platform",
		lead:    "Thank you for your interest in Veridia. After careful review, we have decided to move forward with other candidates at this time. We encourage you to apply again in the future.",
	},
}

// SendStatusUpdate notifies a candidate about a status transition.
func (s *Service) SendStatusUpdate(toEmail, firstName, lastName, status, jobTitle string) error {
	msg, ok := statusMessages[status]
	if !ok {
		return fmt.Errorf("no notification template for status %q", status)
	}
	detail := "New status: " + status
	if jobTitle != "" {
		detail = fmt.Sprintf("Position: %s — new status: %s", jobTitle, status)
	}
	return s.send(toEmail, msg.subject, templateData{
		Title:   "Application Status Updated",
		Name:    firstName + " " + lastName,
		Lead:    msg.lead,
		Detail:  detail,
		Closing: "You can check your application status anytime from your dashboard.",
	})
}

// SendPasswordReset delivers a single-use reset token.
func (s *Service) SendPasswordReset(toEmail, name, resetToken string) error {
	return s.send(toEmail, "Password Reset — Veridia Hiring Platform", templateData{
		Title:   "Password Reset Requested",
		Name:    name,
		Lead:    "We received a request to reset your password. Use the token below within one hour to choose a new password. If you did not request this, you can safely ignore this email.",
		Detail:  "Reset token: " + resetToken,
		Closing: "This token can be used once and expires in 1 hour.",
	})
}

func (s *Service) send(to, subject string, data templateData) error {
	tmpl, err := template.New("email").Parse(baseTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse email template: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		to,
		subject,
		body.String(),
	))

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
