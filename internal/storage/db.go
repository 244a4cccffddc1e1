// Package storage keeps small JSON blobs in a single bbolt file.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const (
	// StateBucket holds the assignment list.
	StateBucket = "state"
	// PrefsBucket holds UI preference flags.
	PrefsBucket = "prefs"
)

// ErrClosed is returned when a bucket is used after its DB was closed.
var ErrClosed = errors.New("storage closed")

// DB wraps a bbolt database with the buckets tugas uses.
type DB struct {
	db *bbolt.DB
}

// Open opens (or creates) the database at path and makes sure the
// known buckets exist.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create directories: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{StateBucket, PrefsBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create buckets: %w", err)
	}

	return &DB{db: db}, nil
}

// Close releases the file lock.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	if err := d.db.Close(); err != nil {
		return err
	}
	d.db = nil
	return nil
}

// Bucket returns a key-value view over the named bucket.
func (d *DB) Bucket(name string) *Bucket {
	return &Bucket{db: d, name: []byte(name)}
}

// Bucket reads and writes whole values under string keys.
type Bucket struct {
	db   *DB
	name []byte
}

// Get returns the value stored under key, or nil when the key is absent.
func (b *Bucket) Get(key string) ([]byte, error) {
	if b.db == nil || b.db.db == nil {
		return nil, ErrClosed
	}

	var out []byte
	err := b.db.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(b.name)
		if bucket == nil {
			return fmt.Errorf("bucket %s not found", b.name)
		}
		if v := bucket.Get([]byte(key)); v != nil {
			// bbolt values are only valid inside the transaction.
			out = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Put overwrites the value stored under key.
func (b *Bucket) Put(key string, value []byte) error {
	if b.db == nil || b.db.db == nil {
		return ErrClosed
	}

	return b.db.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(b.name)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), value)
	})
}

// Delete removes key; deleting an absent key is not an error.
func (b *Bucket) Delete(key string) error {
	if b.db == nil || b.db.db == nil {
		return ErrClosed
	}

	return b.db.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(b.name)
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(key))
	})
}

// Keys lists every key in the bucket in byte order.
func (b *Bucket) Keys() ([]string, error) {
	if b.db == nil || b.db.db == nil {
		return nil, ErrClosed
	}

	var keys []string
	err := b.db.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(b.name)
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}
