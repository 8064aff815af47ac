// Package notifier provides the pluggable "send a message somewhere"
// client used by the Notify built-in node. It collapses the teacher's
// two parallel stub clients (pkg/clients/email.Client,
// services/nodes' sms counterpart) into one interface with two
// channel-specific stub implementations, keeping the teacher's pattern
// of a thin client interface the node package depends on rather than a
// concrete SDK type.
package notifier

import (
	"context"
	"fmt"
	"log/slog"
)

// Message is one outbound notification.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Client delivers a Message over some channel (email, SMS, webhook...).
type Client interface {
	Channel() string
	Send(ctx context.Context, msg Message) error
}

// EmailClient is a stub email sender, grounded in the teacher's
// pkg/clients/email.Client: it logs what it would send rather than
// calling a real provider, keeping the catalog runnable without
// external credentials.
type EmailClient struct{}

func (EmailClient) Channel() string { return "email" }

func (EmailClient) Send(_ context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("notifier: email: recipient is required")
	}
	slog.Info("email notification sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

// SMSClient is a stub SMS sender, grounded in the teacher's SMS node
// client stub.
type SMSClient struct{}

func (SMSClient) Channel() string { return "sms" }

func (SMSClient) Send(_ context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("notifier: sms: recipient is required")
	}
	slog.Info("sms notification sent", "to", msg.To, "body", msg.Body)
	return nil
}

// ByChannel resolves a Client for the given channel name, used by the
// Notify node to pick a backend from its "channel" input field.
func ByChannel(channel string) (Client, bool) {
	switch channel {
	case "email":
		return EmailClient{}, true
	case "sms":
		return SMSClient{}, true
	default:
		return nil, false
	}
}
