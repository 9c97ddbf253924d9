package dispatch

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/doselog/doselog/engine"
)

// Discard is the dispatcher used by one-shot commands: the daemon owns
// delivery, so mutations made from the CLI only log their intent.
type Discard struct {
	log *logrus.Entry
}

// NewDiscard creates a logging-only dispatcher
func NewDiscard(log *logrus.Logger) *Discard {
	return &Discard{log: log.WithField("component", "dispatch")}
}

// Schedule logs the intent and drops it
func (d *Discard) Schedule(id string, fireAt time.Time, _ engine.Payload) error {
	d.log.WithFields(logrus.Fields{
		"id":      id,
		"fire_at": fireAt,
	}).Debug("dispatch intent recorded, daemon will arm it")

	return nil
}

// Cancel logs the intent and drops it
func (d *Discard) Cancel(id string) error {
	d.log.WithField("id", id).Debug("dispatch cancel recorded")

	return nil
}
