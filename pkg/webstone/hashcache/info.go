// Package hashcache implements content-addressed cache extension. Served
// resources get a content hash that doubles as ETag and as a path component
// of a hash URI; clients cache hash URIs for up to a year and revalidate
// through the mapping kept here. The mapping lives for the server process
// only and is refreshed whenever the underlying content's modification time
// advances.
package hashcache

import (
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Info maps an original resource URI to its current content hash.
type Info struct {
	// Hash is the content digest, used as cache key and ETag.
	Hash string
	// LastModified is the modification time of the content that produced
	// the hash.
	LastModified time.Time
	// MaxAge is the declared max-age for non-file resources. Zero means not
	// hash-cacheable.
	MaxAge time.Duration
}

// ETag returns the quoted entity tag for the mapping.
func (i *Info) ETag() string {
	return `"` + i.Hash + `"`
}

// Digest computes the content hash of served bytes. xxhash is not
// cryptographic; collision resistance here only needs to keep distinct
// content revisions apart for cache keying.
func Digest(content []byte) string {
	var buf [8]byte

	binary.BigEndian.PutUint64(buf[:], xxhash.Sum64(content))

	return hex.EncodeToString(buf[:])
}
