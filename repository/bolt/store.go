// Package bolt keeps tracker records in a single on-device BoltDB file.
package bolt

import (
	"context"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/focusflow/domain"
	"github.com/fastygo/focusflow/repository"
)

const defaultBucket = "focusflow"

// Store implements repository.RecordStore on top of BoltDB.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the BoltDB file and ensures the bucket exists. BoltDB holds
// an exclusive file lock, so a second process fails after timeout.
func Open(path string, bucket string, timeout time.Duration) (*Store, error) {
	if bucket == "" {
		bucket = defaultBucket
	}
	if timeout <= 0 {
		timeout = time.Second
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

// Get returns a copy of the stored value.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(s.bucket).Get([]byte(key))
		if v == nil {
			return domain.ErrRecordNotFound
		}
		out = append([]byte(nil), v...)
		return nil
	})
	return out, err
}

// PutAll writes all records in one transaction.
func (s *Store) PutAll(ctx context.Context, records map[string][]byte) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		for key, value := range records {
			if err := b.Put([]byte(key), value); err != nil {
				return err
			}
		}
		return nil
	})
}

// Size returns the number of stored records.
func (s *Store) Size() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	return count, err
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil || s.db == nil {
		return ""
	}
	return s.db.Path()
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Stats reports Bolt transaction and freelist counters.
func (s *Store) Stats() repository.StoreStats {
	if s == nil || s.db == nil {
		return repository.StoreStats{}
	}
	st := s.db.Stats()
	return repository.StoreStats{
		Transactions: st.TxN,
		OpenReadTx:   st.OpenTxN,
		FreePages:    st.FreePageN,
		PendingPages: st.PendingPageN,
	}
}

var _ repository.RecordStore = (*Store)(nil)
