package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendPaymentReceipt(toEmail, invoiceNumber, planName string, amount float64, currency string) error
	SendPaymentFailed(toEmail, planName string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendPaymentReceipt(toEmail, invoiceNumber, planName string, amount float64, currency string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Payment Receipt %s", invoiceNumber))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Thank you for your payment!</h2>
			<p>We received your payment for the <strong>%s</strong> plan.</p>
			<p>Invoice: %s</p>
			<h1 style="color: #4CAF50;">%s %.0f</h1>
			<p>Your subscription is now active.</p>
		</div>
	`, planName, invoiceNumber, currency, amount)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send receipt to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Receipt %s sent to %s\n", invoiceNumber, toEmail)
	return nil
}

func (s *emailService) SendPaymentFailed(toEmail, planName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Payment Failed")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Payment Failed</h2>
			<p>We could not process the payment for your <strong>%s</strong> subscription.</p>
			<p>Please update your payment method to keep your subscription active.</p>
		</div>
	`, planName)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send payment failed notice to %s: %v\n", toEmail, err)
		return err
	}

	return nil
}
