package cache

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

var linkBucket = []byte("__session_links")

// Bolt is a Cache persisted in a local bbolt database. It suits durable
// single-node deployments that must survive restarts without running
// Redis.
type Bolt struct {
	db *bbolt.DB
}

// NewBolt returns a persistent cache backed by an already opened bbolt
// database.
func NewBolt(db *bbolt.DB) (*Bolt, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(linkBucket)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Bolt{db: db}, nil
}

// NewBoltFromFile opens a bbolt database at the given path and returns a
// new Bolt cache.
func NewBoltFromFile(path string, options *bbolt.Options) (*Bolt, error) {
	db, err := bbolt.Open(path, 0600, options)
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	return NewBolt(db)
}

// Get returns the value stored under key, or ErrMiss when absent.
func (b *Bolt) Get(_ context.Context, key string) (string, error) {
	var value []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		stored := tx.Bucket(linkBucket).Get([]byte(key))
		if stored != nil {
			value = append([]byte(nil), stored...)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("reading link: %w", err)
	}
	if value == nil {
		return "", ErrMiss
	}
	return string(value), nil
}

// Set stores value under key, overwriting any previous value.
func (b *Bolt) Set(_ context.Context, key, value string) (bool, error) {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(linkBucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return false, fmt.Errorf("writing link: %w", err)
	}
	return true, nil
}

// Close releases the underlying database file.
func (b *Bolt) Close() error {
	return b.db.Close()
}
