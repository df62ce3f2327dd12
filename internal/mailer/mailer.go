package mailer

import (
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"github.com/freshnest/backoffice/internal"
)

// Mailer sends transactional email over SMTP. When no SMTP host is configured
// it logs the message instead of sending, so every caller can treat email as
// best effort.
type Mailer struct {
	cfg    internal.MailConfig
	dialer *gomail.Dialer
	logger *slog.Logger
}

func New(cfg internal.MailConfig, logger *slog.Logger) *Mailer {
	m := &Mailer{cfg: cfg, logger: logger}
	if cfg.Enabled() {
		m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return m
}

func (m *Mailer) send(to, subject, body string) error {
	if m.dialer == nil {
		m.logger.Info("mail disabled, skipping send", "to", to, "subject", subject)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	m.logger.Info("mail sent", "to", to, "subject", subject)
	return nil
}

func (m *Mailer) SendOTPEmail(to, name, otp string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour FreshNest verification code is %s. It expires in 10 minutes.\n\nFreshNest Team",
		name, otp)
	return m.send(to, "Verify your FreshNest account", body)
}

func (m *Mailer) SendPasswordResetEmail(to, name, token string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nUse this token to reset your FreshNest password: %s\nThe token expires in 1 hour. If you did not request a reset, ignore this email.\n\nFreshNest Team",
		name, token)
	return m.send(to, "Reset your FreshNest password", body)
}

func (m *Mailer) SendStaffWelcomeEmail(to, name, employeeID, password string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nWelcome to FreshNest. Your staff account is ready.\n\nEmployee ID: %s\nTemporary password: %s\n\nPlease change your password after first login.\n\nFreshNest Team",
		name, employeeID, password)
	return m.send(to, "Welcome to FreshNest", body)
}

func (m *Mailer) SendSalaryNotificationEmail(to, name, month string, paidAmount, deductions float64) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour salary for %s has been processed.\nAmount paid: %.2f\nDeductions: %.2f\n\nFreshNest Team",
		name, month, paidAmount, deductions)
	return m.send(to, fmt.Sprintf("Salary processed for %s", month), body)
}

func (m *Mailer) SendTaskAssignmentEmail(to, name, title, deadline string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nA new task has been assigned to you: %s\nDeadline: %s\n\nFreshNest Team",
		name, title, deadline)
	return m.send(to, "New task assigned", body)
}

func (m *Mailer) SendSupplierWelcomeEmail(to, company string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour supplier application has been approved. You can now log in to the FreshNest supplier portal.\n\nFreshNest Team",
		company)
	return m.send(to, "Supplier application approved", body)
}

func (m *Mailer) SendLowStockAlertEmail(to, productName, sku string, quantity int) error {
	body := fmt.Sprintf(
		"Low stock alert.\n\nProduct: %s (SKU %s)\nRemaining quantity: %d\n\nConsider placing a supplier order.",
		productName, sku, quantity)
	return m.send(to, fmt.Sprintf("Low stock: %s", productName), body)
}
