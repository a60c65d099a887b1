package mailer

import (
	"github.com/shrimpsizemoose/trekker/logger"
)

// ConsoleMailer writes messages to the log instead of delivering them.
// Default for local development and tests.
type ConsoleMailer struct {
	subjPrefix string
}

var _ Mailer = (*ConsoleMailer)(nil)

func NewConsoleMailer(appName string) *ConsoleMailer {
	return &ConsoleMailer{subjPrefix: "[" + appName + "] "}
}

func (m *ConsoleMailer) Send(msg *Message) error {
	logger.Info.Printf("mail to %s: %s", msg.To.String(), m.subjPrefix+msg.Subject)
	logger.Debug.Printf("mail body:\n%s", msg.TextContent)
	return nil
}
