package layout

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
)

// Account layouts are a hard external contract: field order and integer
// widths are fixed by the ledger program. Integers are little endian,
// addresses are raw 32 byte public keys.

const (
	// PubKeyLen raw public key length
	PubKeyLen = 32
	// DiscriminatorLen record type tag length
	DiscriminatorLen = 8
)

var (
	// ErrShortBuffer not enough bytes for the requested field
	ErrShortBuffer = errors.New("layout: short buffer")
	// ErrBadDiscriminator record tag mismatch
	ErrBadDiscriminator = errors.New("layout: discriminator mismatch")
)

// PubKey raw ledger address
type PubKey [PubKeyLen]byte

// String base58 form
func (p PubKey) String() string {
	return base58.Encode(p[:])
}

// IsZero true for the all zero key
func (p PubKey) IsZero() bool {
	return p == PubKey{}
}

// PubKeyFromString decode a base58 address; the decoded form must be
// exactly 32 bytes
func PubKeyFromString(s string) (PubKey, error) {
	var p PubKey

	raw := base58.Decode(s)
	if len(raw) != PubKeyLen {
		return p, fmt.Errorf("layout: invalid address %q", s)
	}

	copy(p[:], raw)
	return p, nil
}

// ValidAddress report whether s round trips as a 32 byte base58 key
func ValidAddress(s string) bool {
	_, err := PubKeyFromString(s)
	return err == nil
}

// Discriminator 8 byte record tag, sha256("<kind>:<name>")[:8]
func Discriminator(kind, name string) []byte {
	sum := sha256.Sum256([]byte(kind + ":" + name))
	return sum[:DiscriminatorLen]
}

// Scan read fields off data in order. Supported destinations are
// *PubKey, *uint64, *uint32, *int32 and *uint8. Returns the unread
// remainder.
func Scan(data []byte, dst ...interface{}) ([]byte, error) {
	for _, d := range dst {
		switch v := d.(type) {
		case *PubKey:
			if len(data) < PubKeyLen {
				return nil, ErrShortBuffer
			}
			copy(v[:], data[:PubKeyLen])
			data = data[PubKeyLen:]
		case *uint64:
			if len(data) < 8 {
				return nil, ErrShortBuffer
			}
			*v = binary.LittleEndian.Uint64(data)
			data = data[8:]
		case *uint32:
			if len(data) < 4 {
				return nil, ErrShortBuffer
			}
			*v = binary.LittleEndian.Uint32(data)
			data = data[4:]
		case *int32:
			if len(data) < 4 {
				return nil, ErrShortBuffer
			}
			*v = int32(binary.LittleEndian.Uint32(data))
			data = data[4:]
		case *uint8:
			if len(data) < 1 {
				return nil, ErrShortBuffer
			}
			*v = data[0]
			data = data[1:]
		default:
			return nil, fmt.Errorf("layout: cannot scan into %T", d)
		}
	}

	return data, nil
}

// ScanRecord check the record tag then scan the fields
func ScanRecord(data []byte, name string, dst ...interface{}) ([]byte, error) {
	if len(data) < DiscriminatorLen {
		return nil, ErrShortBuffer
	}

	want := Discriminator("account", name)
	for i := 0; i < DiscriminatorLen; i++ {
		if data[i] != want[i] {
			return nil, ErrBadDiscriminator
		}
	}

	return Scan(data[DiscriminatorLen:], dst...)
}

// Append write fields onto buf in order. Supported values are PubKey,
// uint64, uint32, int32 and uint8.
func Append(buf []byte, vals ...interface{}) ([]byte, error) {
	for _, val := range vals {
		switch v := val.(type) {
		case PubKey:
			buf = append(buf, v[:]...)
		case uint64:
			var b [8]byte
			binary.LittleEndian.PutUint64(b[:], v)
			buf = append(buf, b[:]...)
		case uint32:
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], v)
			buf = append(buf, b[:]...)
		case int32:
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], uint32(v))
			buf = append(buf, b[:]...)
		case uint8:
			buf = append(buf, v)
		default:
			return nil, fmt.Errorf("layout: cannot append %T", val)
		}
	}

	return buf, nil
}

// Instruction instruction payload: method tag then args
func Instruction(name string, args ...interface{}) ([]byte, error) {
	buf := make([]byte, 0, DiscriminatorLen+8*len(args))
	buf = append(buf, Discriminator("global", name)...)
	return Append(buf, args...)
}
