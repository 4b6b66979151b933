package notification

import (
	"context"
	"log"
)

// Notifier abstracts the push delivery channel so the dispatcher does
// not care whether messages go to FCM or to the console in dev.
type Notifier interface {
	SendToTokens(ctx context.Context, tokens []string, msg Message) error
	SendToTopic(ctx context.Context, topic string, msg Message) error
}

// ConsoleNotifier logs pushes instead of delivering them. Used when no
// Firebase credentials are configured.
type ConsoleNotifier struct{}

func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{}
}

func (n *ConsoleNotifier) SendToTokens(ctx context.Context, tokens []string, msg Message) error {
	log.Printf("[notify] %d token(s) :: %s :: %s", len(tokens), msg.Title, msg.Body)
	return nil
}

func (n *ConsoleNotifier) SendToTopic(ctx context.Context, topic string, msg Message) error {
	log.Printf("[notify] topic=%s :: %s :: %s", topic, msg.Title, msg.Body)
	return nil
}
