package system

import (
	"crypto/subtle"
	"runtime"
)

// SecureBytes wraps a secret byte slice (a password or a derived key) so it
// can be zeroed as soon as its single use is over.
type SecureBytes struct {
	data []byte
}

// NewSecureBytes takes ownership of data. The caller must not retain or
// modify the slice after passing it in.
func NewSecureBytes(data []byte) *SecureBytes {
	sb := &SecureBytes{data: data}

	// Zero on collection in case a caller forgets to.
	runtime.SetFinalizer(sb, func(s *SecureBytes) {
		s.Zeroize()
	})

	return sb
}

// Bytes returns the underlying slice. Do not store it.
func (s *SecureBytes) Bytes() []byte {
	if s == nil || s.data == nil {
		return nil
	}
	return s.data
}

// Equal reports whether both buffers hold the same secret, in constant time.
func (s *SecureBytes) Equal(other *SecureBytes) bool {
	return subtle.ConstantTimeCompare(s.Bytes(), other.Bytes()) == 1
}

// Zeroize overwrites the secret and drops the reference.
func (s *SecureBytes) Zeroize() {
	if s == nil || s.data == nil {
		return
	}
	Wipe(s.data)
	s.data = nil
}

// Len returns the length of the secret.
func (s *SecureBytes) Len() int {
	if s == nil || s.data == nil {
		return 0
	}
	return len(s.data)
}

// Wipe zeroes b in place.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
