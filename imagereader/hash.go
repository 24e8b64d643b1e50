package imagereader

import (
	"crypto/md5"
	"encoding/hex"
)

// HashFilename returns the cache key for a resolved path: the lower-case
// hex MD5 digest of its UTF-8 bytes (always 32 characters).
func HashFilename(filename string) string {
	sum := md5.Sum([]byte(filename))
	return hex.EncodeToString(sum[:])
}
