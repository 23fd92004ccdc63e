package internal

import (
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"math/rand"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/argon2"
)

// ErrWeakKey is returned when a key generation seed is too short for the policy.
var ErrWeakKey = errors.New("weak key")

// KeyPolicy defines how a seed phrase is stretched into key material for
// GenerateKeyPhrase.
//   - KDF == "argon2id" (default): Argon2id slows down guessing the seed.
//   - KDF == "none": SHA-256 only, so the seed itself must be long.
type KeyPolicy struct {
	KDF         string // "argon2id" (default) or "none"
	KDFMemMB    uint32 // memory in MB
	KDFTime     uint32 // iterations
	KDFParallel uint8  // parallelism
	AllowWeak   bool   // skip the seed length checks
}

// DefaultKeyPolicy returns Argon2id with 64 MB, 3 passes and one lane.
func DefaultKeyPolicy() KeyPolicy {
	return KeyPolicy{
		KDF:         "argon2id",
		KDFMemMB:    64,
		KDFTime:     3,
		KDFParallel: 1,
		AllowWeak:   false,
	}
}

// Minimum seed lengths in runes.
const (
	minSeedArgon = 8
	minSeedPlain = 16
)

// ValidateSeed enforces the minimum seed length for the policy's KDF.
func ValidateSeed(seed string, policy KeyPolicy) error {
	n := utf8.RuneCountInString(strings.TrimSpace(seed))
	var want int
	switch strings.ToLower(strings.TrimSpace(policy.KDF)) {
	case "", "argon2id":
		want = minSeedArgon
	case "none":
		want = minSeedPlain
	default:
		return fmt.Errorf("%w: unknown KDF %q (supported: argon2id, none)", ErrInvalidOption, policy.KDF)
	}
	if n < want && !policy.AllowWeak {
		return fmt.Errorf("%w: seed needs %d+ characters with kdf=%s (or use --allow-weak-key)", ErrWeakKey, want, policy.KDF)
	}
	return nil
}

// EffectiveKeyMaterial derives a 32-byte value from seed using the policy KDF.
// The Argon2id output is hashed once more with SHA-256.
func EffectiveKeyMaterial(seed string, policy KeyPolicy) ([32]byte, error) {
	var out [32]byte

	switch strings.ToLower(strings.TrimSpace(policy.KDF)) {
	case "", "argon2id":
		salt := []byte("playfair/v1/argon2id/keysquare")
		mem := policy.KDFMemMB
		if mem == 0 {
			mem = 64
		}
		passes := policy.KDFTime
		if passes == 0 {
			passes = 3
		}
		par := policy.KDFParallel
		if par == 0 {
			par = 1
		}
		derived := argon2.IDKey([]byte(seed), salt, passes, mem*1024, par, 32)
		out = sha256.Sum256(derived)
		return out, nil

	case "none":
		out = sha256.Sum256([]byte(seed))
		return out, nil

	default:
		return out, fmt.Errorf("%w: unknown KDF %q (supported: argon2id, none)", ErrInvalidOption, policy.KDF)
	}
}

// GenerateKeyPhrase returns the 25 working letters of a in shuffled order,
// usable directly as a passphrase. A non-empty seed gives the same phrase
// every time; an empty seed draws from crypto/rand.
func GenerateKeyPhrase(seed string, a Alphabet, policy KeyPolicy) (string, error) {
	if err := a.validate(); err != nil {
		return "", err
	}
	letters := []byte(a.Letters())

	if strings.TrimSpace(seed) == "" {
		// Fisher-Yates driven by crypto/rand
		for i := len(letters) - 1; i > 0; i-- {
			n, err := crand.Int(crand.Reader, big.NewInt(int64(i+1)))
			if err != nil {
				return "", fmt.Errorf("random key: %w", err)
			}
			j := int(n.Int64())
			letters[i], letters[j] = letters[j], letters[i]
		}
		return string(letters), nil
	}

	if err := ValidateSeed(seed, policy); err != nil {
		return "", err
	}
	h, err := EffectiveKeyMaterial(seed, policy)
	if err != nil {
		return "", err
	}
	r := rand.New(rand.NewSource(seedFromHash(h)))
	r.Shuffle(len(letters), func(i, j int) { letters[i], letters[j] = letters[j], letters[i] })
	return string(letters), nil
}

// seedFromHash folds the four 64-bit words of h into one PRNG seed.
func seedFromHash(h [32]byte) int64 {
	return int64(binary.BigEndian.Uint64(h[0:8])) ^
		int64(binary.BigEndian.Uint64(h[8:16])) ^
		int64(binary.BigEndian.Uint64(h[16:24])) ^
		int64(binary.BigEndian.Uint64(h[24:32]))
}
