package bencode

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Encode returns the canonical encoding of v. Encoding is total: every
// well-formed Value has exactly one byte representation, and dictionaries
// already hold their entries in canonical key order. A nil value encodes
// to nil.
func Encode(v *Value) []byte {
	if v == nil {
		return nil
	}
	e := &emitter{}
	e.emit(v)
	return e.buf.Bytes()
}

// EncodeTo writes the canonical encoding of v to w. The only failure mode
// is a sink write error.
func EncodeTo(v *Value, w io.Writer) error {
	_, err := w.Write(Encode(v))
	return err
}

// EncodeToString renders the canonical encoding as text for display. It
// never fails: byte sequences that are not valid UTF-8 are replaced with
// U+FFFD. The result is lossy and must not be fed back into Parse.
func EncodeToString(v *Value) string {
	return strings.ToValidUTF8(string(Encode(v)), "�")
}

type emitter struct {
	buf bytes.Buffer
}

// emit appends the encoding of v by structural recursion mirroring the
// grammars.
func (e *emitter) emit(v *Value) {
	switch v.typ {
	case KindInteger:
		e.buf.WriteByte('i')
		e.buf.WriteString(strconv.FormatInt(v.intVal, 10))
		e.buf.WriteByte('e')

	case KindBytes:
		e.emitBytes(v.bytesVal)

	case KindList:
		e.buf.WriteByte('l')
		for _, elem := range v.listVal {
			e.emit(elem)
		}
		e.buf.WriteByte('e')

	case KindDict:
		e.buf.WriteByte('d')
		for _, entry := range v.dictVal {
			e.emitBytes(entry.Key)
			e.emit(entry.Value)
		}
		e.buf.WriteByte('e')
	}
}

// emitBytes writes length, separator, and the raw bytes verbatim. No
// escaping: bencode is binary-safe.
func (e *emitter) emitBytes(b []byte) {
	e.buf.WriteString(strconv.Itoa(len(b)))
	e.buf.WriteByte(':')
	e.buf.Write(b)
}

// ============================================================
// Canonical Fingerprint
// ============================================================

// Fingerprint returns a hash of the canonical encoding of v, usable as a
// stable identity for a value tree across processes.
func Fingerprint(v *Value) string {
	enc := Encode(v)

	// FNV-1a for speed (not cryptographic)
	h := uint64(14695981039346656037)
	for i := 0; i < len(enc); i++ {
		h ^= uint64(enc[i])
		h *= 1099511628211
	}

	return fmt.Sprintf("%016x", h)
}
