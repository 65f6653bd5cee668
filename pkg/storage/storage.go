package storage

import (
	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
)

type DefaultStorage struct {
	db *pebble.DB
}

func NewDefaultStorage(path string) (*DefaultStorage, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &DefaultStorage{db: db}, nil
}

func (s *DefaultStorage) Create(data []byte) (*ksuid.KSUID, error) {
	id := ksuid.New()
	key := id.Bytes()
	if err := s.db.Set(key, data, pebble.NoSync); err != nil {
		return nil, err
	}

	return &id, nil
}

func (s *DefaultStorage) Read(id *ksuid.KSUID) ([]byte, error) {
	data, closer, err := s.db.Get(id.Bytes())
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	return data, nil
}

func (s *DefaultStorage) Update(id *ksuid.KSUID, data []byte) error {
	return s.db.Set(id.Bytes(), data, pebble.NoSync)
}

func (s *DefaultStorage) Delete(id *ksuid.KSUID) error {
	return s.db.Delete(id.Bytes(), pebble.NoSync)
}

func (s *DefaultStorage) Close() error {
	return s.db.Close()
}

// Iterate calls fn for every key/value pair in the store, in key order.
// Iteration stops early if fn returns an error.
func (s *DefaultStorage) Iterate(fn func(id ksuid.KSUID, data []byte) error) error {
	iter, err := s.db.NewIter(nil)
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key())
		if err != nil {
			return err
		}
		if err := fn(id, iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}
