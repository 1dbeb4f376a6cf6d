package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type Server struct {
	Host     string
	Port     int
	User     string
	Password string
}

type Message struct {
	FromName string
	From     string
	To       string
	Subject  string
	Body     string
}

type Sender interface {
	Send(ctx context.Context, srv Server, msg Message) error
}

// SMTP delivers mail with gomail. Port 465 switches the dialer to implicit TLS.
type SMTP struct{}

func (SMTP) Send(ctx context.Context, srv Server, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := build(msg)
	d := gomail.NewDialer(srv.Host, srv.Port, srv.User, srv.Password)

	done := make(chan error, 1)
	go func() { done <- d.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send via %s:%d: %w", srv.Host, srv.Port, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func build(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	if msg.FromName != "" {
		m.SetAddressHeader("From", msg.From, msg.FromName)
	} else {
		m.SetHeader("From", msg.From)
	}
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.Body)
	return m
}

// Recorder keeps messages in memory.
type Recorder struct {
	Sent []Message
	Err  error
}

func (r *Recorder) Send(_ context.Context, _ Server, msg Message) error {
	if r.Err != nil {
		return r.Err
	}
	r.Sent = append(r.Sent, msg)
	return nil
}
