package services

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"muniplan/internal/models"
)

type EmailService interface {
	SendWelcomeEmail(email, name string) error
	SendTaskAssignedEmail(email string, task *models.Task) error
	SendConflictNoticeEmail(email string, project *models.Project, reports []models.ConflictReport) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return s.dialer.DialAndSend(m)
}

func (s *emailService) SendWelcomeEmail(email, name string) error {
	body := fmt.Sprintf(`
		<h2>Welcome to the coordination portal, %s!</h2>
		<p>Your account has been created. You can now track projects, tasks and shared resources.</p>
		<p>Best regards,<br>The Coordination Office</p>
	`, name)

	if err := s.send(email, "Welcome to the coordination portal", body); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

func (s *emailService) SendTaskAssignedEmail(email string, task *models.Task) error {
	body := fmt.Sprintf(`
		<h3>You have been assigned a task</h3>
		<p><strong>%s</strong></p>
		<p>%s</p>
		<p>Window: %s to %s, priority %s.</p>
	`, task.Title, task.Description,
		models.FormatDate(task.StartDate), models.FormatDate(task.DueDate), task.Priority)

	if err := s.send(email, "Task assigned: "+task.Title, body); err != nil {
		return fmt.Errorf("failed to send assignment email: %w", err)
	}
	return nil
}

func (s *emailService) SendConflictNoticeEmail(email string, project *models.Project, reports []models.ConflictReport) error {
	body := fmt.Sprintf("<h3>Conflicts detected for project %q</h3><ul>", project.Title)
	for _, r := range reports {
		body += fmt.Sprintf("<li><strong>%s</strong> (%s): %.2f km, %s. %s</li>",
			r.ProjectTitle, r.Department, r.DistanceKm, r.Type, r.Recommendation)
	}
	body += "</ul>"

	if err := s.send(email, "Project conflict notice: "+project.Title, body); err != nil {
		return fmt.Errorf("failed to send conflict notice: %w", err)
	}
	return nil
}
