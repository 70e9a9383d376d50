// Package bolt implements db.Store on an embedded bbolt file, for
// single-node deployments without a Redis instance.
package bolt

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/kailas-cloud/convsearch/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

var (
	kvBucket    = []byte("kv")
	expBucket   = []byte("kv_expiry")
	listsBucket = []byte("lists")
)

// Store implements db.Store via bbolt.
type Store struct {
	db *bbolt.DB
}

// NewStore opens (or creates) a bbolt file at path.
func NewStore(path string) (*Store, error) {
	bdb, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt file %s: %w", path, err)
	}

	err = bdb.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{kvBucket, expBucket, listsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		bdb.Close()
		return nil, err
	}

	return &Store{db: bdb}, nil
}

// Ping checks that the underlying file is readable.
func (s *Store) Ping(_ context.Context) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(kvBucket) == nil {
			return fmt.Errorf("kv bucket missing")
		}
		return nil
	})
}

// Close closes the bolt file.
func (s *Store) Close() {
	_ = s.db.Close()
}

// WaitForReady is immediate for an embedded store.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// Get retrieves a value by key, honoring a TTL set via SetWithTTL.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		if exp := tx.Bucket(expBucket).Get([]byte(key)); exp != nil {
			deadline := int64(binary.BigEndian.Uint64(exp))
			if time.Now().UnixNano() > deadline {
				return db.ErrKeyNotFound
			}
		}
		v := tx.Bucket(kvBucket).Get([]byte(key))
		if v == nil {
			return db.ErrKeyNotFound
		}
		out = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Set stores a value at the given key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(expBucket).Delete([]byte(key)); err != nil {
			return err
		}
		return tx.Bucket(kvBucket).Put([]byte(key), value)
	})
	if err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// SetWithTTL stores a value with an expiration. Expired keys are filtered on
// read, not reclaimed in the background.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	deadline := make([]byte, 8)
	binary.BigEndian.PutUint64(deadline, uint64(time.Now().Add(ttl).UnixNano()))

	err := s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(kvBucket).Put([]byte(key), value); err != nil {
			return err
		}
		return tx.Bucket(expBucket).Put([]byte(key), deadline)
	})
	if err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// Del removes a key.
func (s *Store) Del(_ context.Context, key string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(expBucket).Delete([]byte(key)); err != nil {
			return err
		}
		return tx.Bucket(kvBucket).Delete([]byte(key))
	})
	if err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}

// RPush appends values to the list at key.
func (s *Store) RPush(_ context.Context, key string, values ...[]byte) error {
	if len(values) == 0 {
		return nil
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.Bucket(listsBucket).CreateBucketIfNotExists([]byte(key))
		if err != nil {
			return err
		}
		for _, v := range values {
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			k := make([]byte, 8)
			binary.BigEndian.PutUint64(k, seq)
			if err := b.Put(k, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &db.Error{Op: db.OpRPush, Err: err}
	}
	return nil
}

// LRange returns list elements in [start, stop], inclusive, with Redis
// negative-index semantics.
func (s *Store) LRange(_ context.Context, key string, start, stop int64) ([][]byte, error) {
	var out [][]byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(listsBucket).Bucket([]byte(key))
		if b == nil {
			return nil
		}

		var all [][]byte
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			all = append(all, append([]byte(nil), v...))
		}

		n := int64(len(all))
		if start < 0 {
			start = n + start
		}
		if stop < 0 {
			stop = n + stop
		}
		if start < 0 {
			start = 0
		}
		if stop >= n {
			stop = n - 1
		}
		if start > stop || start >= n {
			return nil
		}
		out = all[start : stop+1]
		return nil
	})
	if err != nil {
		return nil, &db.Error{Op: db.OpLRange, Err: err}
	}
	return out, nil
}

// LLen returns the list length, 0 for a missing key.
func (s *Store) LLen(_ context.Context, key string) (int64, error) {
	var n int64
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(listsBucket).Bucket([]byte(key))
		if b == nil {
			return nil
		}
		n = int64(b.Stats().KeyN)
		return nil
	})
	if err != nil {
		return 0, &db.Error{Op: db.OpLLen, Err: err}
	}
	return n, nil
}
