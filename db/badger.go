package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger"
)

// Collection keys. Every collection is stored as one JSON blob and
// rewritten whole on each save.
var (
	keySubjects      = []byte("subjects")
	keyMedications   = []byte("medications")
	keyNotifications = []byte("notifications")
	keyAdherence     = []byte("adherence")
)

// Badger db implementation
type Badger struct {
	db       *badger.DB
	cancelGC func()
	wg       sync.WaitGroup
}

// NewBadger creates a new badger instance for the given path
func NewBadger(dbPath string) (*Badger, error) {
	db, err := badger.Open(badger.DefaultOptions(dbPath).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db at path %s: %w", dbPath, err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	b := &Badger{
		db:       db,
		cancelGC: cancel,
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				for b.db.RunValueLogGC(0.5) == nil && ctx.Err() == nil {
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	return b, nil
}

// Close the database
func (b *Badger) Close() error {
	b.cancelGC()
	b.wg.Wait()

	return b.db.Close()
}

func (b *Badger) saveCollection(key []byte, collection interface{}) error {
	return b.db.Update(func(tx *badger.Txn) error {
		data, err := json.Marshal(collection)
		if err != nil {
			return fmt.Errorf("failed to JSON marshal collection %s: %w", string(key), err)
		}

		return tx.Set(key, data)
	})
}

func (b *Badger) loadCollection(key []byte, collection interface{}) error {
	return b.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			// nothing stored yet
			return nil
		}

		if err != nil {
			return fmt.Errorf("failed to get collection %s: %w", string(key), err)
		}

		return item.Value(func(val []byte) error {
			err := json.Unmarshal(val, collection)
			if err != nil {
				return fmt.Errorf("failed to unmarshal collection %s: %w", string(key), err)
			}

			return nil
		})
	})
}

// SaveSubjects to the database
func (b *Badger) SaveSubjects(subjects []*Subject) error {
	return b.saveCollection(keySubjects, subjects)
}

// LoadSubjects from the database
func (b *Badger) LoadSubjects() (subjects []*Subject, err error) {
	err = b.loadCollection(keySubjects, &subjects)

	return
}

// SaveMedications to the database
func (b *Badger) SaveMedications(medications []*Medication) error {
	return b.saveCollection(keyMedications, medications)
}

// LoadMedications from the database
func (b *Badger) LoadMedications() (medications []*Medication, err error) {
	err = b.loadCollection(keyMedications, &medications)

	return
}

// SaveNotifications to the database
func (b *Badger) SaveNotifications(notifications []*Notification) error {
	return b.saveCollection(keyNotifications, notifications)
}

// LoadNotifications from the database
func (b *Badger) LoadNotifications() (notifications []*Notification, err error) {
	err = b.loadCollection(keyNotifications, &notifications)

	return
}

// SaveAdherence to the database
func (b *Badger) SaveAdherence(records []*AdherenceRecord) error {
	return b.saveCollection(keyAdherence, records)
}

// LoadAdherence from the database
func (b *Badger) LoadAdherence() (records []*AdherenceRecord, err error) {
	err = b.loadCollection(keyAdherence, &records)

	return
}
