package utils

import (
	"enrollsvc/config"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends enrollment lifecycle emails. It satisfies services.Notifier:
// every trigger dispatches in a goroutine and swallows failures, so the
// engines never block on or fail because of mail.
type Mailer struct {
	users *UserDirectory
}

func NewMailer(users *UserDirectory) *Mailer {
	return &Mailer{users: users}
}

// SendEmail delivers one message through SendGrid when an API key is
// configured, otherwise through plain SMTP.
func SendEmail(to []string, subject string, htmlBody string) error {
	if config.AppConfig.SendGridApiKey != "" {
		return sendViaSendGrid(to, subject, htmlBody)
	}
	return sendViaSmtp(to, subject, htmlBody)
}

func sendViaSendGrid(to []string, subject string, htmlBody string) error {
	from := mail.NewEmail("EduForge", config.AppConfig.EmailSender)
	client := sendgrid.NewSendClient(config.AppConfig.SendGridApiKey)

	for _, recipient := range to {
		message := mail.NewSingleEmail(from, subject, mail.NewEmail("", recipient), "", htmlBody)
		response, err := client.Send(message)
		if err != nil {
			log.Printf("[EMAIL] SendGrid error: %v", err)
			return err
		}
		if response.StatusCode >= 400 {
			log.Printf("[EMAIL] SendGrid rejected message: %d %s", response.StatusCode, response.Body)
			return fmt.Errorf("sendgrid status %d", response.StatusCode)
		}
	}
	return nil
}

func sendViaSmtp(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: %s\r\n", config.AppConfig.MailFrom)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		log.Printf("[EMAIL] Error sending email: %v", err)
		return err
	}
	return nil
}

// HTML wrapper shared by all triggers
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A2B4C; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A2B4C; line-height: 1.6; }
			.content h2 { color: #1A2B4C; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #5B8DEF; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>EDUFORGE</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 EduForge. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// EnrollmentConfirmed sends the enrollment confirmation email
func (m *Mailer) EnrollmentConfirmed(userID, userName, courseID, courseName string) {
	email := m.users.ResolveEmail(userID)
	if email == "" {
		log.Printf("[EMAIL] No recipient for user %s, skipping enrollment confirmation", userID)
		return
	}

	course := courseName
	if course == "" {
		course = courseID
	}
	subject := "Enrollment Successful"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations! You have successfully enrolled in <strong>%s</strong>.</p>
		<p>You can start learning right away.</p>
	`, displayName(userName), course)

	go dispatch(email, subject, getEmailTemplate("Welcome to Your Course!", body))
}

// NewLessonPublished tells the learner a lesson was added to their course
func (m *Mailer) NewLessonPublished(userID, userName, courseName, lessonTitle string) {
	email := m.users.ResolveEmail(userID)
	if email == "" {
		log.Printf("[EMAIL] No recipient for user %s, skipping new lesson notification", userID)
		return
	}

	if courseName == "" {
		courseName = "your course"
	}
	if lessonTitle == "" {
		lessonTitle = "A new lesson"
	}
	subject := "New Lesson Added: " + lessonTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>A new lesson <strong>%s</strong> has been added to <strong>%s</strong>.</p>
		<div class="info-box">
			<strong>Next Steps:</strong> Open your course to continue where you left off.
		</div>
	`, displayName(userName), lessonTitle, courseName)

	go dispatch(email, subject, getEmailTemplate("New Lesson Available", body))
}

// CourseCompleted congratulates the learner on finishing the course
func (m *Mailer) CourseCompleted(userID, userName, courseName string) {
	email := m.users.ResolveEmail(userID)
	if email == "" {
		log.Printf("[EMAIL] No recipient for user %s, skipping completion email", userID)
		return
	}

	if courseName == "" {
		courseName = "your course"
	}
	subject := "Course Completed: " + courseName
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have completed <strong>%s</strong>. Well done!</p>
		<p>You can now request your certificate of completion.</p>
	`, displayName(userName), courseName)

	go dispatch(email, subject, getEmailTemplate("Congratulations!", body))
}

func dispatch(email, subject, body string) {
	if err := SendEmail([]string{email}, subject, body); err != nil {
		log.Printf("[EMAIL] Failed to send %q to %s: %v", subject, email, err)
	}
}

func displayName(name string) string {
	if name == "" {
		return "Learner"
	}
	return name
}
