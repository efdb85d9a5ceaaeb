package storage

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	KVBucket   = []byte("kv")   // Vault entries: key token, envelope, presence marker
	MetaBucket = []byte("meta") // Store bookkeeping, survives ClearAll
)

// Meta keys
var (
	MetaVersion    = []byte("version")
	MetaInstanceID = []byte("instance_id")
)

// Bolt is a Store backed by a single bbolt file
type Bolt struct {
	db   *bolt.DB
	path string
}

// Open opens or creates a bbolt-backed store and makes sure its buckets exist
func Open(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	b := &Bolt{db: db, path: path}
	if err := b.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

// initialize creates the bucket structure and instance ID on first open
func (b *Bolt) initialize() error {
	return b.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{KVBucket, MetaBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		meta := tx.Bucket(MetaBucket)
		if meta.Get(MetaVersion) == nil {
			if err := meta.Put(MetaVersion, []byte("1")); err != nil {
				return err
			}
		}
		if meta.Get(MetaInstanceID) == nil {
			if err := meta.Put(MetaInstanceID, []byte(uuid.NewString())); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close closes the database
func (b *Bolt) Close() error {
	return b.db.Close()
}

// Path returns the database file path
func (b *Bolt) Path() string {
	return b.path
}

// InstanceID returns the random ID assigned to this database file when it was created
func (b *Bolt) InstanceID() (string, error) {
	var id string
	err := b.db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket(MetaBucket)
		if meta == nil {
			return fmt.Errorf("meta bucket not found")
		}
		data := meta.Get(MetaInstanceID)
		if data == nil {
			return fmt.Errorf("instance_id not found")
		}
		id = string(data)
		return nil
	})
	return id, err
}

// Get retrieves the value stored under key
func (b *Bolt) Get(key string) (string, error) {
	var value string
	err := b.db.View(func(tx *bolt.Tx) error {
		kv := tx.Bucket(KVBucket)
		if kv == nil {
			return ErrNotFound
		}
		data := kv.Get([]byte(key))
		if data == nil {
			return ErrNotFound
		}
		// string() copies, the slice is only valid during the transaction
		value = string(data)
		return nil
	})
	return value, err
}

// Set stores value under key
func (b *Bolt) Set(key, value string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		kv, err := tx.CreateBucketIfNotExists(KVBucket)
		if err != nil {
			return err
		}
		return kv.Put([]byte(key), []byte(value))
	})
}

// Remove deletes all given keys in a single transaction
func (b *Bolt) Remove(keys ...string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		kv := tx.Bucket(KVBucket)
		if kv == nil {
			return nil
		}
		for _, k := range keys {
			if err := kv.Delete([]byte(k)); err != nil {
				return fmt.Errorf("failed to delete %s: %w", k, err)
			}
		}
		return nil
	})
}

// ClearAll drops every vault entry. The meta bucket is kept.
func (b *Bolt) ClearAll() error {
	return b.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(KVBucket) != nil {
			if err := tx.DeleteBucket(KVBucket); err != nil {
				return fmt.Errorf("failed to drop bucket %s: %w", KVBucket, err)
			}
		}
		_, err := tx.CreateBucket(KVBucket)
		return err
	})
}

// compactTxSize bounds how much a single copy transaction writes
const compactTxSize = 64 * 1024

// Compact rewrites the database into a fresh file, reclaiming the pages
// freed by deleted envelopes. On failure the original file is reopened.
func (b *Bolt) Compact() error {
	tmpPath := b.path + ".compact"
	backupPath := b.path + ".backup"

	if err := b.copyTo(tmpPath); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := b.db.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Join(fmt.Errorf("failed to close database: %w", err), b.reopen())
	}

	if err := swapFiles(b.path, tmpPath, backupPath); err != nil {
		os.Remove(tmpPath)
		return errors.Join(err, b.reopen())
	}

	if err := b.reopen(); err != nil {
		// Compacted file is unusable, fall back to the original
		if rbErr := os.Rename(backupPath, b.path); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return errors.Join(err, b.reopen())
	}

	os.Remove(backupPath)
	return nil
}

// copyTo writes a compacted copy of the database to path
func (b *Bolt) copyTo(path string) error {
	dst, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to create compact database: %w", err)
	}
	if err := bolt.Compact(dst, b.db, compactTxSize); err != nil {
		dst.Close()
		return fmt.Errorf("failed to copy data: %w", err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("failed to close compact database: %w", err)
	}
	return nil
}

// reopen opens b.path and swaps the handle in. b.db is untouched on failure.
func (b *Bolt) reopen() error {
	db, err := bolt.Open(b.path, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}
	b.db = db
	return nil
}

// swapFiles moves path aside to backupPath and puts tmpPath in its place.
// path is left as it was when either rename fails.
func swapFiles(path, tmpPath, backupPath string) error {
	if err := os.Rename(path, backupPath); err != nil {
		return fmt.Errorf("failed to back up database: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		if rbErr := os.Rename(backupPath, path); rbErr != nil {
			return errors.Join(fmt.Errorf("failed to replace database: %w", err), rbErr)
		}
		return fmt.Errorf("failed to replace database: %w", err)
	}
	return nil
}
