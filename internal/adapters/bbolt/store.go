// Package bbolt implements ports.KeywordStore using bbolt (embedded B+ tree).
// Every keyword set gets its own sub-bucket of the top-level "sets" bucket,
// holding the binary keyword list and gob-encoded metadata. Writes are
// transactional; a crash mid-write cannot corrupt previously committed sets.
package bbolt

import (
	"fmt"
	"sort"
	"time"

	"github.com/corey/kwscan/internal/ports"
	bolt "go.etcd.io/bbolt"
)

// Bucket keys
var (
	bucketSets  = []byte("sets")
	keyKeywords = []byte("keywords")
	keyMeta     = []byte("meta")
)

// Store implements ports.KeywordStore backed by bbolt.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

var _ ports.KeywordStore = (*Store)(nil)

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSet persists keywords under name, replacing any prior set.
func (s *Store) SaveSet(name string, keywords []string) error {
	if name == "" {
		return fmt.Errorf("empty set name")
	}
	meta, err := encodeGob(setMeta{Count: len(keywords), UpdatedAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("encode meta: %w", err)
	}
	data := encodeKeywords(keywords)

	return s.db.Update(func(tx *bolt.Tx) error {
		sets, err := tx.CreateBucketIfNotExists(bucketSets)
		if err != nil {
			return err
		}
		sb, err := sets.CreateBucketIfNotExists([]byte(name))
		if err != nil {
			return err
		}
		if err := sb.Put(keyKeywords, data); err != nil {
			return err
		}
		return sb.Put(keyMeta, meta)
	})
}

// LoadSet retrieves a keyword set.
// Returns nil, nil if no set with that name exists.
func (s *Store) LoadSet(name string) ([]string, error) {
	var data []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		sets := tx.Bucket(bucketSets)
		if sets == nil {
			return nil
		}
		sb := sets.Bucket([]byte(name))
		if sb == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := sb.Get(keyKeywords); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	keywords, err := decodeKeywords(data)
	if err != nil {
		return nil, fmt.Errorf("decode set %q: %w", name, err)
	}
	return keywords, nil
}

// ListSets returns metadata for every stored set, sorted by name.
func (s *Store) ListSets() ([]ports.SetInfo, error) {
	var infos []ports.SetInfo

	err := s.db.View(func(tx *bolt.Tx) error {
		sets := tx.Bucket(bucketSets)
		if sets == nil {
			return nil
		}
		return sets.ForEachBucket(func(name []byte) error {
			info := ports.SetInfo{Name: string(name)}
			if v := sets.Bucket(name).Get(keyMeta); v != nil {
				var meta setMeta
				if err := decodeGob(v, &meta); err != nil {
					return fmt.Errorf("decode meta for %q: %w", name, err)
				}
				info.Count = meta.Count
				info.UpdatedAt = meta.UpdatedAt
			}
			infos = append(infos, info)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// DeleteSet removes a set.
// Idempotent: deleting a nonexistent set is not an error.
func (s *Store) DeleteSet(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		sets := tx.Bucket(bucketSets)
		if sets == nil {
			return nil
		}
		if err := sets.DeleteBucket([]byte(name)); err == bolt.ErrBucketNotFound {
			return nil // idempotent
		} else {
			return err
		}
	})
}
