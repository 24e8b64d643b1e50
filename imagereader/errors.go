package imagereader

import (
	"fmt"
)

// Cache operations that can fail inside Read
const (
	OpGet    = "get"
	OpSet    = "set"
	OpEncode = "encode"
	OpDecode = "decode"
	OpRecord = "record"
)

// CacheError is a failure of the cache path. Read never returns it: the
// image is served from the file instead.
type CacheError struct {
	Op  string
	Key string
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

func newCacheError(op, key string, err error) *CacheError {
	return &CacheError{Op: op, Key: key, Err: err}
}
