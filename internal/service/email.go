package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(to, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendApplicationReceived(ctx context.Context, landlordEmail, applicantName, propertyTitle string) error {
	subject := fmt.Sprintf("New application for %s", propertyTitle)
	body := fmt.Sprintf("Hello,\n\n%s has applied for your listing \"%s\". Review the application in your dashboard.\n\nBest regards,\nThe Nestio Team", applicantName, propertyTitle)
	return s.send(landlordEmail, subject, body)
}

func (s *emailService) SendApplicationAccepted(ctx context.Context, applicantEmail, propertyTitle string) error {
	subject := fmt.Sprintf("Your application for %s was accepted", propertyTitle)
	body := fmt.Sprintf("Good news!\n\nYour application for \"%s\" has been accepted. The landlord will be in touch with next steps.\n\nBest regards,\nThe Nestio Team", propertyTitle)
	return s.send(applicantEmail, subject, body)
}

func (s *emailService) SendApplicationRejected(ctx context.Context, applicantEmail, propertyTitle string) error {
	subject := fmt.Sprintf("Update on your application for %s", propertyTitle)
	body := fmt.Sprintf("Hello,\n\nUnfortunately your application for \"%s\" was not selected this time.\n\nBest regards,\nThe Nestio Team", propertyTitle)
	return s.send(applicantEmail, subject, body)
}
