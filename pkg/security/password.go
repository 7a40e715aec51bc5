package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Vickmut/v0-haven-craft-website-design/pkg/config"
	"golang.org/x/crypto/argon2"
)

const MinPasswordLength = 6

var (
	ErrInvalidHash      = errors.New("invalid argon2id hash")
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

// ArgonParams are the cost settings encoded into every hash.
type ArgonParams struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLen     uint32
	KeyLen      uint32
}

// argonHash is the parsed form of "$argon2id$v=19$m=..,t=..,p=..$salt$key".
type argonHash struct {
	params ArgonParams
	salt   []byte
	key    []byte
}

func (h argonHash) String() string {
	b64 := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.Memory, h.params.Time, h.params.Parallelism,
		b64.EncodeToString(h.salt), b64.EncodeToString(h.key))
}

func derive(password string, salt []byte, p ArgonParams) []byte {
	return argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Parallelism, p.KeyLen)
}

// Hasher hashes with the configured Argon2id cost.
type Hasher struct {
	params ArgonParams
}

func NewHasher(cfg config.PasswordConfig) *Hasher {
	return &Hasher{params: paramsFromConfig(cfg)}
}

func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return argonHash{params: h.params, salt: salt, key: derive(password, salt, h.params)}.String(), nil
}

// Verify uses the cost stored in encoded, not the hasher's current cost.
func (h *Hasher) Verify(password, encoded string) (bool, error) {
	return VerifyPassword(password, encoded)
}

// NeedsRehash reports whether encoded was produced with a different cost
// than the hasher now uses.
func (h *Hasher) NeedsRehash(encoded string) bool {
	parsed, err := parseArgonHash(encoded)
	if err != nil {
		return true
	}
	p := parsed.params
	return p.Memory != h.params.Memory || p.Time != h.params.Time ||
		p.Parallelism != h.params.Parallelism || p.KeyLen != h.params.KeyLen
}

// CheckPassword enforces the minimum length in characters, not bytes.
func CheckPassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	return NewHasher(cfg).Hash(password)
}

func VerifyPassword(password, encoded string) (bool, error) {
	parsed, err := parseArgonHash(encoded)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(parsed.key, derive(password, parsed.salt, parsed.params)) == 1, nil
}

func paramsFromConfig(cfg config.PasswordConfig) ArgonParams {
	return ArgonParams{
		Memory:      uint32(clamp(cfg.ArgonMemoryKB, 8, 512*1024)),
		Time:        uint32(clamp(cfg.ArgonTime, 1, 10)),
		Parallelism: uint8(clamp(cfg.ArgonParallelism, 1, 255)),
		SaltLen:     uint32(clamp(cfg.ArgonSaltLen, 8, 64)),
		KeyLen:      uint32(clamp(cfg.ArgonKeyLen, 16, 64)),
	}
}

func parseArgonHash(encoded string) (argonHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return argonHash{}, ErrInvalidHash
	}

	var h argonHash
	for _, field := range strings.Split(parts[3], ",") {
		name, raw, ok := strings.Cut(field, "=")
		if !ok {
			return argonHash{}, ErrInvalidHash
		}
		var err error
		switch name {
		case "m":
			h.params.Memory, err = parseUint32(raw)
		case "t":
			h.params.Time, err = parseUint32(raw)
		case "p":
			var p uint64
			p, err = strconv.ParseUint(raw, 10, 8)
			h.params.Parallelism = uint8(p)
		}
		if err != nil {
			return argonHash{}, ErrInvalidHash
		}
	}
	if h.params.Time == 0 || h.params.Parallelism == 0 {
		return argonHash{}, ErrInvalidHash
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return argonHash{}, ErrInvalidHash
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(h.key) == 0 {
		return argonHash{}, ErrInvalidHash
	}
	h.params.SaltLen = uint32(len(h.salt))
	h.params.KeyLen = uint32(len(h.key))
	return h, nil
}

func parseUint32(raw string) (uint32, error) {
	v, err := strconv.ParseUint(raw, 10, 32)
	return uint32(v), err
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
