package handlers

import (
	"context"
	"sync"
	"time"
)

const (
	progressInterval     = 30 * time.Second
	typingActionInterval = 4 * time.Second // Telegram typing expires after 5s
)

var progressMessages = []string{
	"⏳ Still working on your document...",
	"⏳ Generating and validating questions...",
	"⏳ Long documents take a while, almost there...",
}

// ProgressNotifier sends periodic progress messages and typing indicators during long operations
type ProgressNotifier struct {
	sender   Sender
	chatID   int64
	interval time.Duration
	done     chan struct{}
	once     sync.Once
}

// NewProgressNotifier creates a new progress notifier
func NewProgressNotifier(sender Sender, chatID int64) *ProgressNotifier {
	return &ProgressNotifier{
		sender:   sender,
		chatID:   chatID,
		interval: progressInterval,
		done:     make(chan struct{}),
	}
}

// Start begins sending periodic progress messages and typing indicators
func (pn *ProgressNotifier) Start(ctx context.Context) {
	pn.sender.SendTyping(pn.chatID)

	go func() {
		progress := time.NewTicker(pn.interval)
		typing := time.NewTicker(typingActionInterval)
		defer progress.Stop()
		defer typing.Stop()

		for i := 0; ; {
			select {
			case <-progress.C:
				pn.sender.Send(pn.chatID, progressMessages[i%len(progressMessages)], nil)
				i++
			case <-typing.C:
				pn.sender.SendTyping(pn.chatID)
			case <-pn.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops sending progress messages and typing indicators. Safe to call twice.
func (pn *ProgressNotifier) Stop() {
	pn.once.Do(func() { close(pn.done) })
}
