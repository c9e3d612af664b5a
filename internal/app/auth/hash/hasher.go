package hash

import (
	"github.com/alexedwards/argon2id"

	customErrors "github.com/bloggerhq/blogger/internal/domain/errors"
)

// Hasher is the one-way credential hasher. Verify reports a mismatch as
// (false, nil); an error means the digest itself was unusable.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) (bool, error)
}

var argonParams = &argon2id.Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// Argon2Hasher peppers the plaintext before hashing so leaked digests alone
// cannot be cracked offline.
type Argon2Hasher struct {
	pepper string
}

func NewArgon2Hasher(pepper string) *Argon2Hasher {
	return &Argon2Hasher{pepper: pepper}
}

func (h *Argon2Hasher) Hash(password string) (string, error) {
	digest, err := argon2id.CreateHash(password+h.pepper, argonParams)
	if err != nil {
		return "", customErrors.WrapInternal(err, "hash password")
	}
	return digest, nil
}

func (h *Argon2Hasher) Verify(password, digest string) (bool, error) {
	ok, err := argon2id.ComparePasswordAndHash(password+h.pepper, digest)
	if err != nil {
		return false, customErrors.WrapInternal(err, "compare password")
	}
	return ok, nil
}
