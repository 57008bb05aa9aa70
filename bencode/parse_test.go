package bencode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// ============================================================
// Integer Grammar
// ============================================================

func TestParse_Integers(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		rest     string
	}{
		{"i42e", 42, ""},
		{"i0e", 0, ""},
		{"i123456789e", 123456789, ""},
		{"i-42e", -42, ""},
		{"i-1e", -1, ""},
		{"i9223372036854775807e", 9223372036854775807, ""},
		{"i-9223372036854775808e", -9223372036854775808, ""},
		{"i42eextra", 42, "extra"},
		{"i-10edata", -10, "data"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, rest, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			require.Equal(t, tt.rest, string(rest))

			n, err := v.AsInteger()
			require.NoError(t, err)
			require.Equal(t, tt.expected, n)
		})
	}
}

func TestParse_InvalidIntegers(t *testing.T) {
	tests := []struct {
		input    string
		sentinel error
	}{
		{"i42", ErrTruncated},           // missing close marker
		{"ie", ErrMalformedLength},      // no digits
		{"i-e", ErrMalformedLength},     // sign only
		{"i01e", ErrMalformedLength},    // leading zero
		{"i00123e", ErrMalformedLength}, // leading zeros
		{"i-0e", ErrMalformedLength},    // negative zero
		{"i-01e", ErrMalformedLength},   // negative leading zero
		{"iabce", ErrMalformedLength},   // non-digit
		{"i1a2e", ErrMalformedLength},   // digit then garbage
		{"i9223372036854775808e", ErrIntegerRange},
		{"i-9223372036854775809e", ErrIntegerRange},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, _, err := Parse([]byte(tt.input))
			require.Error(t, err)
			require.ErrorIs(t, err, tt.sentinel)
		})
	}
}

// ============================================================
// Byte-String Grammar
// ============================================================

func TestParse_ByteStrings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		rest     string
	}{
		{"0:", "", ""},
		{"12:hello world!", "hello world!", ""},
		{"12:hello\nworld!", "hello\nworld!", ""},
		{"21:ハローワールド", "ハローワールド", ""},
		{"4:spamextra", "spam", "extra"},
		{"3:abcdefg", "abc", "defg"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, rest, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			require.Equal(t, tt.rest, string(rest))

			b, err := v.AsBytes()
			require.NoError(t, err)
			require.Equal(t, tt.expected, string(b))
		})
	}
}

func TestParse_BinarySafety(t *testing.T) {
	v, rest, err := Parse([]byte("4:\x00\x01\x02\x03"))
	require.NoError(t, err)
	require.Empty(t, rest)

	b, err := v.AsBytes()
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x01, 0x02, 0x03}, b)

	// Full byte range survives unmodified.
	payload := make([]byte, 256)
	for i := range payload {
		payload[i] = byte(i)
	}
	input := append([]byte("256:"), payload...)

	v, rest, err = Parse(input)
	require.NoError(t, err)
	require.Empty(t, rest)

	b, err = v.AsBytes()
	require.NoError(t, err)
	require.Equal(t, payload, b)
}

func TestParse_InvalidByteStrings(t *testing.T) {
	tests := []struct {
		input    string
		sentinel error
	}{
		{"", ErrTruncated},              // empty input
		{"4spam", ErrMalformedLength},   // no separator
		{"10:hello", ErrTruncated},      // declared length too long
		{"04:spam", ErrMalformedLength}, // leading zero
		{"001:x", ErrMalformedLength},   // leading zeros
		{"42", ErrMalformedLength},      // just a number
		{"18446744073709551616:", ErrMalformedLength}, // length overflows
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, _, err := Parse([]byte(tt.input))
			require.Error(t, err)
			require.ErrorIs(t, err, tt.sentinel)
		})
	}
}

// ============================================================
// List Grammar
// ============================================================

func TestParse_Lists(t *testing.T) {
	t.Run("integers", func(t *testing.T) {
		v, rest, err := Parse([]byte("li1ei2ei3ee"))
		require.NoError(t, err)
		require.Empty(t, rest)
		require.True(t, v.Equal(List(Integer(1), Integer(2), Integer(3))))
	})

	t.Run("empty", func(t *testing.T) {
		v, rest, err := Parse([]byte("le"))
		require.NoError(t, err)
		require.Empty(t, rest)
		require.Equal(t, KindList, v.Kind())
		require.Equal(t, 0, v.Len())
	})

	t.Run("mixed", func(t *testing.T) {
		v, _, err := Parse([]byte("l4:spami42ee"))
		require.NoError(t, err)
		require.True(t, v.Equal(List(String("spam"), Integer(42))))
	})

	t.Run("nested", func(t *testing.T) {
		v, _, err := Parse([]byte("lli1eeli2eee"))
		require.NoError(t, err)
		require.True(t, v.Equal(List(List(Integer(1)), List(Integer(2)))))
	})
}

func TestParse_InvalidLists(t *testing.T) {
	tests := []struct {
		input    string
		sentinel error
	}{
		{"li1ei2e", ErrTruncated},      // missing close marker
		{"l", ErrTruncated},            // open only
		{"li01ee", ErrMalformedLength}, // element failure propagates
		{"lxe", ErrInvalidMarker},      // bogus element marker
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, _, err := Parse([]byte(tt.input))
			require.Error(t, err)
			require.ErrorIs(t, err, tt.sentinel)
		})
	}
}

// ============================================================
// Dictionary Grammar
// ============================================================

func TestParse_Dictionaries(t *testing.T) {
	t.Run("simple", func(t *testing.T) {
		v, rest, err := Parse([]byte("d3:fooi42e3:bar4:spame"))
		require.NoError(t, err)
		require.Empty(t, rest)

		expected := Dict(
			Entry("foo", Integer(42)),
			Entry("bar", String("spam")),
		)
		require.True(t, v.Equal(expected))
	})

	t.Run("empty", func(t *testing.T) {
		v, _, err := Parse([]byte("de"))
		require.NoError(t, err)
		require.Equal(t, KindDict, v.Kind())
		require.Equal(t, 0, v.Len())
	})

	t.Run("unsorted input normalizes", func(t *testing.T) {
		// Wire order spam < cow violates canonical order; the parser is
		// lenient on input and the resulting value is sorted.
		v, _, err := Parse([]byte("d4:spam4:eggs3:cow3:mooe"))
		require.NoError(t, err)

		entries, err := v.AsDict()
		require.NoError(t, err)
		require.Len(t, entries, 2)
		require.Equal(t, "cow", string(entries[0].Key))
		require.Equal(t, "spam", string(entries[1].Key))

		require.Equal(t, []byte("d3:cow3:moo4:spam4:eggse"), Encode(v))
	})

	t.Run("nested", func(t *testing.T) {
		v, _, err := Parse([]byte("d4:listli1ei2ei3eee"))
		require.NoError(t, err)

		list := v.Get("list")
		require.NotNil(t, list)
		require.True(t, list.Equal(List(Integer(1), Integer(2), Integer(3))))
	})
}

func TestParse_DuplicateKeys(t *testing.T) {
	input := []byte("d3:keyi1e3:keyi2ee")

	t.Run("last occurrence wins by default", func(t *testing.T) {
		v, _, err := Parse(input)
		require.NoError(t, err)
		require.Equal(t, 1, v.Len())

		n, err := v.Get("key").AsInteger()
		require.NoError(t, err)
		require.Equal(t, int64(2), n)
	})

	t.Run("strict mode rejects", func(t *testing.T) {
		_, _, err := ParseWithOptions(input, ParseOptions{RejectDuplicateKeys: true})
		require.Error(t, err)
		require.ErrorIs(t, err, ErrDuplicateKey)
	})
}

func TestParse_InvalidDictionaries(t *testing.T) {
	tests := []struct {
		input    string
		sentinel error
	}{
		{"di1ei2ee", ErrInvalidKey},   // integer key
		{"dli1eei2ee", ErrInvalidKey}, // list key
		{"d3:foo", ErrTruncated},      // key without value
		{"d3:fooi1e", ErrTruncated},   // missing close marker
		{"d", ErrTruncated},           // open only
		{"d04:spami1ee", ErrMalformedLength}, // key grammar failure propagates
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, _, err := Parse([]byte(tt.input))
			require.Error(t, err)
			require.ErrorIs(t, err, tt.sentinel)
		})
	}
}

// ============================================================
// Dispatcher / Entry Points
// ============================================================

func TestParse_InvalidMarker(t *testing.T) {
	for _, input := range []string{"x", "e", ":", "-1e"} {
		t.Run(input, func(t *testing.T) {
			_, _, err := Parse([]byte(input))
			require.Error(t, err)
			require.ErrorIs(t, err, ErrInvalidMarker)
		})
	}
}

func TestParse_ErrorOffsets(t *testing.T) {
	_, _, err := Parse([]byte("li1ei-0ee"))
	require.Error(t, err)

	var syn *SyntaxError
	require.ErrorAs(t, err, &syn)
	require.Equal(t, 5, syn.Offset) // the '-' of the bad inner integer
	require.ErrorIs(t, syn, ErrMalformedLength)
}

func TestDecode_TrailingData(t *testing.T) {
	v, err := Decode([]byte("4:spam"))
	require.NoError(t, err)
	require.Equal(t, KindBytes, v.Kind())

	_, err = Decode([]byte("4:spamextra"))
	require.Error(t, err)
	require.ErrorIs(t, err, ErrTrailingData)
}

func TestParse_PartialConsumption(t *testing.T) {
	v, rest, err := Parse([]byte("4:spamextra"))
	require.NoError(t, err)

	b, err := v.AsBytes()
	require.NoError(t, err)
	require.Equal(t, "spam", string(b))
	require.Equal(t, "extra", string(rest))
}

func TestParse_CopyOption(t *testing.T) {
	input := []byte("4:spam")

	aliased, _, err := Parse(input)
	require.NoError(t, err)

	copied, _, err := ParseWithOptions(input, ParseOptions{Copy: true})
	require.NoError(t, err)

	// Mutating the input buffer must not affect the copied value.
	input[2] = 'X'

	ab, _ := aliased.AsBytes()
	cb, _ := copied.AsBytes()
	require.Equal(t, "Xpam", string(ab))
	require.Equal(t, "spam", string(cb))
}

func TestParse_DeepNesting(t *testing.T) {
	const depth = 1000
	input := make([]byte, 0, 2*depth)
	for i := 0; i < depth; i++ {
		input = append(input, 'l')
	}
	for i := 0; i < depth; i++ {
		input = append(input, 'e')
	}

	v, rest, err := Parse(input)
	require.NoError(t, err)
	require.Empty(t, rest)

	for i := 0; i < depth-1; i++ {
		elems, err := v.AsList()
		require.NoError(t, err)
		require.Len(t, elems, 1)
		v = elems[0]
	}
	require.Equal(t, 0, v.Len())
}
