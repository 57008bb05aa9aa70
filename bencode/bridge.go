package bencode

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// ============================================================
// Native Type Bridge
// ============================================================
//
// Converts between native Go values and bencode Values, so callers can
// encode plain integers, strings, byte slices, slices, and string-keyed
// maps without building a Value tree by hand.

// Marshal encodes a native Go value to canonical bencode bytes.
func Marshal(v interface{}) ([]byte, error) {
	bv, err := FromNative(v)
	if err != nil {
		return nil, err
	}
	return Encode(bv), nil
}

// Unmarshal decodes bencode bytes into native Go values: int64, []byte,
// []interface{}, and map[string]interface{}. The input must be a single
// complete value.
func Unmarshal(data []byte) (interface{}, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return ToNative(v), nil
}

// FromNative converts a native Go value to a Value. Supported inputs:
// all integer widths, string, []byte, *Value, slices and arrays of
// supported values, and maps with string keys. uint and uint64 values
// above math.MaxInt64 fail with ErrIntegerRange; bencode has no unsigned
// kind.
func FromNative(v interface{}) (*Value, error) {
	switch x := v.(type) {
	case *Value:
		if x == nil {
			return nil, errors.New("bencode: nil *Value")
		}
		return x, nil
	case int:
		return Integer(int64(x)), nil
	case int8:
		return Integer(int64(x)), nil
	case int16:
		return Integer(int64(x)), nil
	case int32:
		return Integer(int64(x)), nil
	case int64:
		return Integer(x), nil
	case uint8:
		return Integer(int64(x)), nil
	case uint16:
		return Integer(int64(x)), nil
	case uint32:
		return Integer(int64(x)), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return nil, errors.Wrapf(ErrIntegerRange, "uint %d", x)
		}
		return Integer(int64(x)), nil
	case uint64:
		if x > math.MaxInt64 {
			return nil, errors.Wrapf(ErrIntegerRange, "uint64 %d", x)
		}
		return Integer(int64(x)), nil
	case string:
		return String(x), nil
	case []byte:
		return Bytes(x), nil
	case []interface{}:
		elems := make([]*Value, 0, len(x))
		for i, item := range x {
			bv, err := FromNative(item)
			if err != nil {
				return nil, errors.Wrapf(err, "list[%d]", i)
			}
			elems = append(elems, bv)
		}
		return List(elems...), nil
	case map[string]interface{}:
		entries := make([]DictEntry, 0, len(x))
		for k, item := range x {
			bv, err := FromNative(item)
			if err != nil {
				return nil, errors.Wrapf(err, "dict[%q]", k)
			}
			entries = append(entries, Entry(k, bv))
		}
		return Dict(entries...), nil
	case nil:
		return nil, errors.New("bencode: cannot encode nil")
	}

	// Typed slices and maps (e.g. []string, map[string]int) via reflection.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			for i := range b {
				b[i] = byte(rv.Index(i).Uint())
			}
			return bytesNoCopy(b), nil
		}
		elems := make([]*Value, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			bv, err := FromNative(rv.Index(i).Interface())
			if err != nil {
				return nil, errors.Wrapf(err, "list[%d]", i)
			}
			elems = append(elems, bv)
		}
		return List(elems...), nil

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, errors.Errorf("bencode: map key type %s, need string", rv.Type().Key())
		}
		entries := make([]DictEntry, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			bv, err := FromNative(iter.Value().Interface())
			if err != nil {
				return nil, errors.Wrapf(err, "dict[%q]", k)
			}
			entries = append(entries, Entry(k, bv))
		}
		return Dict(entries...), nil
	}

	return nil, errors.Errorf("bencode: unsupported type %T", v)
}

// ToNative converts a Value tree to plain Go values: int64, []byte,
// []interface{}, and map[string]interface{}. Dictionary keys are
// converted to Go strings byte-for-byte; the map itself no longer carries
// an order, canonical order is recovered by re-encoding.
func ToNative(v *Value) interface{} {
	if v == nil {
		return nil
	}
	switch v.typ {
	case KindInteger:
		return v.intVal
	case KindBytes:
		return append([]byte(nil), v.bytesVal...)
	case KindList:
		out := make([]interface{}, len(v.listVal))
		for i, elem := range v.listVal {
			out[i] = ToNative(elem)
		}
		return out
	case KindDict:
		out := make(map[string]interface{}, len(v.dictVal))
		for _, entry := range v.dictVal {
			out[string(entry.Key)] = ToNative(entry.Value)
		}
		return out
	default:
		return nil
	}
}

// ============================================================
// JSON Bridge
// ============================================================

// ToJSON renders a Value tree as JSON for inspection. Byte strings become
// JSON strings via lossy UTF-8 conversion (invalid sequences replaced
// with U+FFFD), so this path never fails on binary data; it is a display
// format, not a round-trippable encoding.
func ToJSON(v *Value) ([]byte, error) {
	out, err := json.Marshal(jsonValue(v))
	if err != nil {
		return nil, errors.Wrap(err, "bencode: JSON render")
	}
	return out, nil
}

func jsonValue(v *Value) interface{} {
	if v == nil {
		return nil
	}
	switch v.typ {
	case KindInteger:
		return v.intVal
	case KindBytes:
		return strings.ToValidUTF8(string(v.bytesVal), "�")
	case KindList:
		out := make([]interface{}, len(v.listVal))
		for i, elem := range v.listVal {
			out[i] = jsonValue(elem)
		}
		return out
	case KindDict:
		// encoding/json sorts map keys, which matches canonical order for
		// keys that survive lossy conversion.
		out := make(map[string]interface{}, len(v.dictVal))
		for _, entry := range v.dictVal {
			out[strings.ToValidUTF8(string(entry.Key), "�")] = jsonValue(entry.Value)
		}
		return out
	default:
		return nil
	}
}
