// Package dispatch delivers armed alerts. The pushover implementation
// holds one timer per dispatch id and pushes the payload through the
// Pushover API when the timer fires.
package dispatch

import (
	"sync"
	"time"

	"github.com/gregdel/pushover"
	"github.com/sirupsen/logrus"

	"github.com/doselog/doselog/db"
	"github.com/doselog/doselog/engine"
)

// Pushover dispatcher implementation
type Pushover struct {
	app       *pushover.Pushover
	recipient *pushover.Recipient
	log       *logrus.Entry

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewPushover creates a dispatcher sending to the given device token
func NewPushover(apiToken, deviceToken string, log *logrus.Logger) *Pushover {
	return &Pushover{
		app:       pushover.New(apiToken),
		recipient: pushover.NewRecipient(deviceToken),
		log:       log.WithField("component", "dispatch"),
		timers:    make(map[string]*time.Timer),
	}
}

// Schedule arms a timer for the id, replacing any previous one. A fire
// time already in the past delivers immediately.
func (p *Pushover) Schedule(id string, fireAt time.Time, payload engine.Payload) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if timer, ok := p.timers[id]; ok {
		timer.Stop()
	}

	delay := time.Until(fireAt)
	if delay < 0 {
		delay = 0
	}

	p.timers[id] = time.AfterFunc(delay, func() {
		p.deliver(id, payload)
	})

	p.log.WithFields(logrus.Fields{
		"id":      id,
		"fire_at": fireAt,
	}).Debug("armed dispatch timer")

	return nil
}

// Cancel disarms the timer for the id, if any
func (p *Pushover) Cancel(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	timer, ok := p.timers[id]
	if !ok {
		return nil
	}

	timer.Stop()
	delete(p.timers, id)

	return nil
}

// Close disarms every pending timer
func (p *Pushover) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, timer := range p.timers {
		timer.Stop()
		delete(p.timers, id)
	}
}

func (p *Pushover) deliver(id string, payload engine.Payload) {
	p.mu.Lock()
	delete(p.timers, id)
	p.mu.Unlock()

	message := pushover.NewMessageWithTitle(payload.Message, payload.Title)
	message.Priority = priorityFor(payload.Priority)
	if message.Priority == pushover.PriorityEmergency {
		// emergency messages require retry/expire or the API rejects them
		message.Retry = time.Minute
		message.Expire = time.Hour
	}

	_, err := p.app.SendMessage(message, p.recipient)
	if err != nil {
		p.log.WithError(err).WithField("id", id).Warn("failed to deliver alert")
		return
	}

	p.log.WithField("id", id).Info("delivered alert")
}

func priorityFor(priority db.Priority) int {
	switch priority {
	case db.PriorityLow:
		return pushover.PriorityLow
	case db.PriorityHigh:
		return pushover.PriorityHigh
	case db.PriorityUrgent:
		return pushover.PriorityEmergency
	}

	return pushover.PriorityNormal
}
