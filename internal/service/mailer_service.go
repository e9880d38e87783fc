package service

import (
	"circlemeet_backend/internal/config"
	"errors"

	"gopkg.in/gomail.v2"
)

// Mailer 发送通知邮件。问卷提交摘要走这里，方便测试替换成桩实现。
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type SMTPMailer struct {
	Cfg *config.SMTPConfig
}

func NewSMTPMailer(cfg *config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{Cfg: cfg}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	if m.Cfg.Host == "" {
		return errors.New("smtp not configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.Cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(m.Cfg.Host, m.Cfg.Port, m.Cfg.Username, m.Cfg.Password)
	return dialer.DialAndSend(msg)
}
