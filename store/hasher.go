package store

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"hash"
	"io"
	"strings"

	"github.com/zeebo/blake3"
)

// DigestSize is the number of digest bytes kept for every identifier.
const DigestSize = 16

// encodedDigestLen is the length of a DigestSize digest in unpadded base64url.
var encodedDigestLen = base64.RawURLEncoding.EncodedLen(DigestSize)

// Hasher supplies the fingerprint function behind every identifier and
// checksum. Digests are not collision resistant against an adversary and must
// not be used for access control.
type Hasher interface {
	Name() string
	New() hash.Hash
}

type hasherFunc struct {
	name string
	fn   func() hash.Hash
}

func (h hasherFunc) Name() string   { return h.name }
func (h hasherFunc) New() hash.Hash { return h.fn() }

var (
	// MD5 is the default hasher and matches identifiers already on disk.
	MD5 Hasher = hasherFunc{"md5", md5.New}
	// SHA256 truncates a SHA-256 digest to DigestSize bytes.
	SHA256 Hasher = hasherFunc{"sha256", sha256.New}
	// BLAKE3 truncates a BLAKE3 digest to DigestSize bytes.
	BLAKE3 Hasher = hasherFunc{"blake3", func() hash.Hash { return blake3.New() }}
)

// HasherByName returns the hasher registered under name.
func HasherByName(name string) (Hasher, error) {
	switch strings.ToLower(name) {
	case "", "md5":
		return MD5, nil
	case "sha256":
		return SHA256, nil
	case "blake3":
		return BLAKE3, nil
	default:
		return nil, fmt.Errorf("unknown hasher %q", name)
	}
}

// sumDigest finalizes h and encodes the first DigestSize bytes.
func sumDigest(h hash.Hash) string {
	sum := h.Sum(nil)
	return base64.RawURLEncoding.EncodeToString(sum[:DigestSize])
}

// Digest hashes data and returns the unpadded base64url text of the digest.
func Digest(h Hasher, data []byte) string {
	hh := h.New()
	hh.Write(data)
	return sumDigest(hh)
}

// DigestReader streams r through h.
func DigestReader(h Hasher, r io.Reader) (string, error) {
	hh := h.New()
	if _, err := io.Copy(hh, r); err != nil {
		return "", err
	}
	return sumDigest(hh), nil
}
