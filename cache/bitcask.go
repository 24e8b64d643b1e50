package cache

import (
	"github.com/jmgilman/go/errors"
	"go.mills.io/bitcask/v2"
)

// Encoded images are far larger than bitcask's default value limit.
const maxValueSize = 32 << 20

// Bitcask is a Cache persisted in a local bitcask store. It survives
// restarts, which pairs well with a persistent shape ledger.
type Bitcask struct {
	db *bitcask.Bitcask
}

// OpenBitcask opens or creates a bitcask store at path
func OpenBitcask(path string) (*Bitcask, error) {
	db, err := bitcask.Open(path, bitcask.WithMaxValueSize(maxValueSize))
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeDatabase, "opening bitcask store %s", path)
	}
	return &Bitcask{db: db}, nil
}

func (b *Bitcask) Get(key string) ([]byte, error) {
	value, err := b.db.Get([]byte(key))
	if errors.Is(err, bitcask.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabase, "bitcask get")
	}
	return value, nil
}

func (b *Bitcask) Set(key string, value []byte) error {
	if err := b.db.Put([]byte(key), value); err != nil {
		return errors.Wrap(err, errors.CodeDatabase, "bitcask put")
	}
	return nil
}

func (b *Bitcask) Close() error {
	return b.db.Close()
}
