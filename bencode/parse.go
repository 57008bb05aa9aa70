package bencode

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ParseOptions configures the parser behavior.
type ParseOptions struct {
	// Copy detaches parsed byte strings from the input buffer. By default
	// they alias it, which is zero-copy but means the caller must not
	// mutate the buffer while the values live.
	Copy bool

	// RejectDuplicateKeys makes a repeated dictionary key fail with
	// ErrDuplicateKey. By default the last occurrence wins.
	RejectDuplicateKeys bool
}

// Parse parses the first bencode value in data and returns it together
// with the unconsumed remainder. Trailing bytes are not an error; callers
// that require full consumption should use Decode.
func Parse(data []byte) (*Value, []byte, error) {
	return ParseWithOptions(data, ParseOptions{})
}

// ParseWithOptions parses with full options.
func ParseWithOptions(data []byte, opts ParseOptions) (*Value, []byte, error) {
	p := &parser{input: data, opts: opts}
	v, err := p.parseValue()
	if err != nil {
		return nil, nil, err
	}
	return v, data[p.off:], nil
}

// Decode parses exactly one value spanning all of data. Leftover bytes
// fail with ErrTrailingData.
func Decode(data []byte) (*Value, error) {
	return DecodeWithOptions(data, ParseOptions{})
}

// DecodeWithOptions is Decode with full options.
func DecodeWithOptions(data []byte, opts ParseOptions) (*Value, error) {
	v, rest, err := ParseWithOptions(data, opts)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, &SyntaxError{
			Offset: len(data) - len(rest),
			Err:    ErrTrailingData,
			Msg:    fmt.Sprintf("%d byte(s) left after value", len(rest)),
		}
	}
	return v, nil
}

// parser is a recursive-descent parser over a byte buffer. Each grammar
// has one method; parseValue dispatches on the leading byte.
type parser struct {
	input []byte
	off   int
	opts  ParseOptions
}

func (p *parser) fail(at int, sentinel error, format string, args ...interface{}) error {
	return &SyntaxError{Offset: at, Err: sentinel, Msg: fmt.Sprintf(format, args...)}
}

// parseValue parses any value. The four grammars have disjoint leading
// markers (i, digit, l, d), so a single byte decides.
func (p *parser) parseValue() (*Value, error) {
	if p.off >= len(p.input) {
		return nil, p.fail(p.off, ErrTruncated, "expected a value")
	}

	switch c := p.input[p.off]; {
	case c == 'i':
		return p.parseInteger()

	case c >= '0' && c <= '9':
		b, err := p.parseByteString()
		if err != nil {
			return nil, err
		}
		return bytesNoCopy(b), nil

	case c == 'l':
		return p.parseList()

	case c == 'd':
		return p.parseDict()

	default:
		return nil, p.fail(p.off, ErrInvalidMarker, "byte %q starts no value", c)
	}
}

// parseInteger parses i<digits>e. No leading zeros unless the literal is
// exactly "0", and -0 is rejected.
func (p *parser) parseInteger() (*Value, error) {
	p.off++ // 'i'

	litStart := p.off
	if p.off < len(p.input) && p.input[p.off] == '-' {
		p.off++
	}
	for p.off < len(p.input) && isDigit(p.input[p.off]) {
		p.off++
	}
	lit := p.input[litStart:p.off]

	digits := lit
	neg := len(lit) > 0 && lit[0] == '-'
	if neg {
		digits = lit[1:]
	}

	switch {
	case len(digits) == 0:
		return nil, p.fail(litStart, ErrMalformedLength, "integer has no digits")
	case len(digits) > 1 && digits[0] == '0':
		return nil, p.fail(litStart, ErrMalformedLength, "integer %q has leading zeros", lit)
	case neg && len(digits) == 1 && digits[0] == '0':
		return nil, p.fail(litStart, ErrMalformedLength, "negative zero")
	}

	n, err := strconv.ParseInt(string(lit), 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return nil, p.fail(litStart, ErrIntegerRange, "integer %q does not fit in int64", lit)
		}
		return nil, p.fail(litStart, ErrMalformedLength, "invalid integer %q", lit)
	}

	if p.off >= len(p.input) {
		return nil, p.fail(p.off, ErrTruncated, "unterminated integer")
	}
	if p.input[p.off] != 'e' {
		return nil, p.fail(p.off, ErrMalformedLength, "unexpected byte %q in integer", p.input[p.off])
	}
	p.off++ // 'e'

	return Integer(n), nil
}

// parseByteString parses <length>:<bytes> and returns the raw bytes. It is
// also the key grammar inside dictionaries; keys have no grammar of their
// own.
func (p *parser) parseByteString() ([]byte, error) {
	lenStart := p.off
	for p.off < len(p.input) && isDigit(p.input[p.off]) {
		p.off++
	}
	digits := p.input[lenStart:p.off]

	switch {
	case len(digits) == 0:
		return nil, p.fail(lenStart, ErrMalformedLength, "byte string has no length")
	case len(digits) > 1 && digits[0] == '0':
		return nil, p.fail(lenStart, ErrMalformedLength, "length %q has leading zeros", digits)
	}

	n, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil {
		return nil, p.fail(lenStart, ErrMalformedLength, "invalid length %q", digits)
	}

	if p.off >= len(p.input) || p.input[p.off] != ':' {
		return nil, p.fail(p.off, ErrMalformedLength, "expected ':' after length %q", digits)
	}
	p.off++ // ':'

	if n > int64(len(p.input)-p.off) {
		return nil, p.fail(p.off, ErrTruncated,
			"declared length %d exceeds %d remaining byte(s)", n, len(p.input)-p.off)
	}

	b := p.input[p.off : p.off+int(n)]
	p.off += int(n)

	if p.opts.Copy {
		b = append([]byte(nil), b...)
	}
	return b, nil
}

// parseList parses l<values>e, recursing through parseValue for the
// elements in encounter order.
func (p *parser) parseList() (*Value, error) {
	open := p.off
	p.off++ // 'l'

	var elems []*Value
	for {
		if p.off >= len(p.input) {
			return nil, p.fail(open, ErrTruncated, "unterminated list")
		}
		if p.input[p.off] == 'e' {
			p.off++
			break
		}

		elem, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
	}

	return &Value{typ: KindList, listVal: elems}, nil
}

// parseDict parses d<pairs>e. Keys must be byte strings; input key order
// is arbitrary and entries are inserted into their sorted position, so the
// resulting dictionary is canonical regardless of wire order.
func (p *parser) parseDict() (*Value, error) {
	open := p.off
	p.off++ // 'd'

	var entries []DictEntry
	for {
		if p.off >= len(p.input) {
			return nil, p.fail(open, ErrTruncated, "unterminated dictionary")
		}
		c := p.input[p.off]
		if c == 'e' {
			p.off++
			break
		}
		if !isDigit(c) {
			return nil, p.fail(p.off, ErrInvalidKey, "key starts with %q, must be a byte string", c)
		}

		keyOff := p.off
		key, err := p.parseByteString()
		if err != nil {
			return nil, err
		}

		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		i := sort.Search(len(entries), func(i int) bool {
			return bytes.Compare(entries[i].Key, key) >= 0
		})
		if i < len(entries) && bytes.Equal(entries[i].Key, key) {
			if p.opts.RejectDuplicateKeys {
				return nil, p.fail(keyOff, ErrDuplicateKey, "key %q seen twice", key)
			}
			entries[i].Value = val // last occurrence wins
			continue
		}
		entries = append(entries, DictEntry{})
		copy(entries[i+1:], entries[i:])
		entries[i] = DictEntry{Key: key, Value: val}
	}

	return &Value{typ: KindDict, dictVal: entries}, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
