package utils

import (
	"context"
	"edhub/logger"
	"fmt"
	"html"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// Mailer delivers one HTML message to one recipient
type Mailer interface {
	Send(ctx context.Context, toEmail, toName, subject, htmlBody string) error
}

type sendgridMailer struct {
	key  string
	host string
	from *sgmail.Email
	log  *logger.Logger
}

// NewMailer returns a sendgrid backed mailer, or a mailer that only logs when no API key is configured
func NewMailer(apiKey, senderName, senderEmail string, log *logger.Logger) Mailer {
	if apiKey == "" {
		return &logMailer{log: log.With("mailer", "log")}
	}
	return &sendgridMailer{
		key:  apiKey,
		host: sendgridHost,
		from: sgmail.NewEmail(senderName, senderEmail),
		log:  log.With("mailer", "sendgrid"),
	}
}

func (m *sendgridMailer) Send(_ context.Context, toEmail, toName, subject, htmlBody string) error {
	p := sgmail.NewPersonalization()
	p.Subject = subject
	p.AddTos(sgmail.NewEmail(toName, toEmail))

	msg := sgmail.NewV3Mail()
	msg.SetFrom(m.from)
	msg.AddPersonalizations(p)
	msg.AddContent(sgmail.NewContent("text/html", htmlBody))

	req := sendgrid.GetRequest(m.key, sendgridEndpoint, m.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(msg)

	res, err := sendgrid.API(req)
	if err != nil {
		return errors.Wrap(err, "sendgrid request")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("sendgrid returned %d: %s", res.StatusCode, res.Body)
	}
	m.log.Debug("Email sent", "to", toEmail, "subject", subject)
	return nil
}

type logMailer struct {
	log *logger.Logger
}

func (m *logMailer) Send(_ context.Context, toEmail, _, subject, _ string) error {
	m.log.Info("Email not sent, no provider configured", "to", toEmail, "subject", subject)
	return nil
}

// HTML wrapper shared by every outgoing mail
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1E3A8A; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1F2937; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #2563EB; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>EDHUB</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">&copy; EdHub. Keep learning.</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// CertificateEmail renders the subject and body of the course completion mail
func CertificateEmail(name, courseTitle, certificateNumber string, issuedAt time.Time) (string, string) {
	subject := "Certificate earned: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations on completing <strong>%s</strong>!</p>
		<div class="info-box">
			Certificate number: <strong>%s</strong><br>
			Issued on: %s
		</div>
	`, html.EscapeString(name), html.EscapeString(courseTitle), certificateNumber, issuedAt.Format("January 2, 2006"))
	return subject, getEmailTemplate("Course Completed!", body)
}

// EnrollmentEmail renders the subject and body of the enrollment confirmation
func EnrollmentEmail(name, courseTitle string) (string, string) {
	subject := "Enrollment confirmed: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have successfully enrolled in:</p>
		<div class="info-box"><strong>%s</strong></div>
		<p>Complete every lesson to earn your certificate.</p>
	`, html.EscapeString(name), html.EscapeString(courseTitle))
	return subject, getEmailTemplate("Enrollment Successful!", body)
}

// WelcomeEmail renders the subject and body sent after registration
func WelcomeEmail(name string) (string, string) {
	subject := "Welcome to EdHub"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your account has been created. Browse the catalog and enroll in your first course.</p>
	`, html.EscapeString(name))
	return subject, getEmailTemplate("Welcome Onboard!", body)
}
