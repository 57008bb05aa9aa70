package bencode

import (
	"bytes"
	"fmt"
	"sort"
	"unicode/utf8"
)

// Kind represents bencode value kinds.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInteger
	KindBytes
	KindList
	KindDict
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindBytes:
		return "bytes"
	case KindList:
		return "list"
	case KindDict:
		return "dictionary"
	default:
		return "invalid"
	}
}

// Value is a bencode value: an integer, byte string, list, or dictionary.
// Values are immutable after construction. Dictionary entries are always
// held in ascending byte-lexicographic key order, so iteration and
// encoding are canonical by construction.
type Value struct {
	typ Kind

	intVal   int64
	bytesVal []byte
	listVal  []*Value
	dictVal  []DictEntry
}

// DictEntry is a single key/value pair of a dictionary.
type DictEntry struct {
	Key   []byte
	Value *Value
}

// ============================================================
// Constructors
// ============================================================

// Integer creates an integer value.
func Integer(v int64) *Value {
	return &Value{typ: KindInteger, intVal: v}
}

// Bytes creates a byte-string value. The slice is copied, so the returned
// value owns its storage.
func Bytes(v []byte) *Value {
	return &Value{typ: KindBytes, bytesVal: append([]byte(nil), v...)}
}

// String creates a byte-string value from a text string.
func String(v string) *Value {
	return &Value{typ: KindBytes, bytesVal: []byte(v)}
}

// List creates a list value. Element order is preserved and is the
// serialization order.
func List(values ...*Value) *Value {
	return &Value{typ: KindList, listVal: values}
}

// Dict creates a dictionary value. Entries are sorted by raw key bytes and
// duplicate keys collapse to the last occurrence, establishing the
// canonical-order invariant regardless of insertion order.
func Dict(entries ...DictEntry) *Value {
	return &Value{typ: KindDict, dictVal: normalizeEntries(entries)}
}

// Entry creates a dictionary entry with a text key, for use with Dict.
func Entry(key string, value *Value) DictEntry {
	return DictEntry{Key: []byte(key), Value: value}
}

// bytesNoCopy wraps b without copying. Parser-internal: the zero-copy
// fast path aliases the input buffer.
func bytesNoCopy(b []byte) *Value {
	return &Value{typ: KindBytes, bytesVal: b}
}

// normalizeEntries sorts entries by key and keeps the last value for each
// duplicate key.
func normalizeEntries(entries []DictEntry) []DictEntry {
	if len(entries) <= 1 {
		return entries
	}

	sorted := make([]DictEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].Key, sorted[j].Key) < 0
	})

	// Stable sort keeps insertion order within equal keys, so the last
	// element of each run is the last inserted.
	out := sorted[:0]
	for i := 0; i < len(sorted); i++ {
		if i+1 < len(sorted) && bytes.Equal(sorted[i].Key, sorted[i+1].Key) {
			continue
		}
		out = append(out, sorted[i])
	}
	return out
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the value kind, or KindInvalid for a nil value.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindInvalid
	}
	return v.typ
}

// AsInteger returns the integer value.
func (v *Value) AsInteger() (int64, error) {
	if v == nil {
		return 0, fmt.Errorf("bencode: nil value")
	}
	if v.typ != KindInteger {
		return 0, fmt.Errorf("bencode: expected integer, got %s", v.typ)
	}
	return v.intVal, nil
}

// AsBytes returns the raw byte-string contents. The returned slice must
// not be modified.
func (v *Value) AsBytes() ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("bencode: nil value")
	}
	if v.typ != KindBytes {
		return nil, fmt.Errorf("bencode: expected bytes, got %s", v.typ)
	}
	return v.bytesVal, nil
}

// AsText returns the byte string as text. It fails with ErrTextDecode if
// the bytes are not valid UTF-8; use EncodeToString for a lossy rendering.
func (v *Value) AsText() (string, error) {
	b, err := v.AsBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrTextDecode
	}
	return string(b), nil
}

// AsList returns the list elements. The returned slice must not be
// modified.
func (v *Value) AsList() ([]*Value, error) {
	if v == nil {
		return nil, fmt.Errorf("bencode: nil value")
	}
	if v.typ != KindList {
		return nil, fmt.Errorf("bencode: expected list, got %s", v.typ)
	}
	return v.listVal, nil
}

// AsDict returns the dictionary entries in canonical (ascending key)
// order. The returned slice must not be modified.
func (v *Value) AsDict() ([]DictEntry, error) {
	if v == nil {
		return nil, fmt.Errorf("bencode: nil value")
	}
	if v.typ != KindDict {
		return nil, fmt.Errorf("bencode: expected dictionary, got %s", v.typ)
	}
	return v.dictVal, nil
}

// Len returns the length of a list or dictionary, or the byte length of a
// byte string.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.typ {
	case KindBytes:
		return len(v.bytesVal)
	case KindList:
		return len(v.listVal)
	case KindDict:
		return len(v.dictVal)
	default:
		return 0
	}
}

// Get returns the dictionary value for key, or nil if absent or if v is
// not a dictionary. Lookup is a binary search over the sorted entries.
func (v *Value) Get(key string) *Value {
	if v == nil || v.typ != KindDict {
		return nil
	}
	k := []byte(key)
	i := sort.Search(len(v.dictVal), func(i int) bool {
		return bytes.Compare(v.dictVal[i].Key, k) >= 0
	})
	if i < len(v.dictVal) && bytes.Equal(v.dictVal[i].Key, k) {
		return v.dictVal[i].Value
	}
	return nil
}

// Index returns the i-th element of a list.
func (v *Value) Index(i int) (*Value, error) {
	if v == nil || v.typ != KindList {
		return nil, fmt.Errorf("bencode: not a list")
	}
	if i < 0 || i >= len(v.listVal) {
		return nil, fmt.Errorf("bencode: index %d out of bounds (len=%d)", i, len(v.listVal))
	}
	return v.listVal[i], nil
}

// Equal reports structural equality of two value trees.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	if v.typ != o.typ {
		return false
	}
	switch v.typ {
	case KindInteger:
		return v.intVal == o.intVal
	case KindBytes:
		return bytes.Equal(v.bytesVal, o.bytesVal)
	case KindList:
		if len(v.listVal) != len(o.listVal) {
			return false
		}
		for i := range v.listVal {
			if !v.listVal[i].Equal(o.listVal[i]) {
				return false
			}
		}
		return true
	case KindDict:
		// Both sides hold entries in canonical order, so pairwise
		// comparison is exact.
		if len(v.dictVal) != len(o.dictVal) {
			return false
		}
		for i := range v.dictVal {
			if !bytes.Equal(v.dictVal[i].Key, o.dictVal[i].Key) {
				return false
			}
			if !v.dictVal[i].Value.Equal(o.dictVal[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String returns the canonical encoding rendered as lossy text, for
// debugging and display.
func (v *Value) String() string {
	return EncodeToString(v)
}
