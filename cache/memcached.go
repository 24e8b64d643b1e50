package cache

import (
	"net"
	"strconv"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/jmgilman/go/errors"
)

// Memcached defaults
const (
	DefaultHost     = "127.0.0.1"
	DefaultPort     = 11211
	DefaultPoolSize = 4
)

// memcacheClient is the subset of *memcache.Client used here
type memcacheClient interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
}

// Memcached is a Cache backed by a memcached server over a pooled client.
type Memcached struct {
	client memcacheClient
	addr   string
}

// NewMemcached creates a client for host:port keeping up to poolSize idle
// connections. A zero timeout keeps the client default.
func NewMemcached(host string, port, poolSize int, timeout time.Duration) *Memcached {
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	client := memcache.New(addr)
	client.MaxIdleConns = poolSize
	if timeout > 0 {
		client.Timeout = timeout
	}

	return &Memcached{client: client, addr: addr}
}

// Addr returns the server address
func (m *Memcached) Addr() string {
	return m.addr
}

func (m *Memcached) Get(key string) ([]byte, error) {
	item, err := m.client.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeNetwork, "memcached get from %s", m.addr)
	}
	return item.Value, nil
}

func (m *Memcached) Set(key string, value []byte) error {
	if err := m.client.Set(&memcache.Item{Key: key, Value: value}); err != nil {
		return errors.Wrapf(err, errors.CodeNetwork, "memcached set to %s", m.addr)
	}
	return nil
}

// Close is a no-op: idle connections are owned by the client pool.
func (m *Memcached) Close() error {
	return nil
}
