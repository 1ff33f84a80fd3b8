// Package journal keeps a local bbolt log of submitted transactions.
package journal

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/donyusuf12/namada/submit"
)

var bucketRecords = []byte("records")

var (
	// ErrNilParam indicates a nil record.
	ErrNilParam = errors.New("journal: nil record")

	// ErrNotFound indicates no record has the requested ID.
	ErrNotFound = errors.New("journal: record not found")
)

// Record describes one submission.
type Record struct {
	ID        string
	Time      time.Time
	Kind      string
	Ledger    string
	Mode      string
	Hash      string
	Code      uint32
	Log       string
	Height    string
	Confirmed bool
	Stage     string
	Error     string
}

// NewRecord summarizes the outcome of a submission. res may be nil when
// Submit failed before producing a result.
func NewRecord(kind, ledger string, res *submit.Result, err error) *Record {
	r := &Record{Kind: kind, Ledger: ledger}
	if res != nil {
		r.Mode = res.Mode.String()
		r.Hash = res.Hash
		if res.Ack != nil {
			r.Code = res.Ack.Code
			r.Log = res.Ack.Log
		}
		if res.DryRun != nil {
			r.Code = res.DryRun.Code
			r.Log = res.DryRun.Log
		}
		if res.Event != nil {
			r.Confirmed = true
			r.Height = res.Event.Height()
		}
	}
	if err != nil {
		r.Error = err.Error()
		var se *submit.StageError
		if errors.As(err, &se) {
			r.Stage = string(se.Stage)
		}
	}
	return r
}

// Journal is a bbolt-backed submission log.
type Journal struct {
	db *bbolt.DB
}

// Open opens or creates the journal at path. The parent directory is created
// if it does not exist.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("journal: create directory: %w", err)
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("journal: open bolt db: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRecords)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: create bucket: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error { return j.db.Close() }

// Put stores rec, assigning an ID and time when they are unset. IDs are
// UUIDv7, so key order is insertion order.
func (j *Journal) Put(rec *Record) error {
	if rec == nil {
		return ErrNilParam
	}
	if rec.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("journal: generate id: %w", err)
		}
		rec.ID = id.String()
	}
	if rec.Time.IsZero() {
		rec.Time = time.Now().UTC()
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return fmt.Errorf("journal: encode record: %w", err)
	}
	return j.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRecords).Put([]byte(rec.ID), buf.Bytes())
	})
}

// Get returns the record with the given ID.
func (j *Journal) Get(id string) (*Record, error) {
	var rec Record
	err := j.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketRecords).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return gob.NewDecoder(bytes.NewReader(data)).Decode(&rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns up to limit records, newest first. A limit <= 0 returns all.
func (j *Journal) List(limit int) ([]*Record, error) {
	var out []*Record
	err := j.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketRecords).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(out) >= limit {
				break
			}
			var rec Record
			if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&rec); err != nil {
				return fmt.Errorf("journal: decode record %s: %w", k, err)
			}
			out = append(out, &rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
