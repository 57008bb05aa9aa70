// Package bencode implements the bencode serialization format.
//
// Bencode is a compact, self-delimiting encoding that is safe to embed in
// both text and binary transports. It has exactly four value kinds:
//   - Integer:     signed, arbitrary decimal digits
//   - Byte string: length-prefixed raw bytes (not required to be text)
//   - List:        ordered sequence of values
//   - Dictionary:  byte-string keys mapped to values, keys sorted
//
// # Wire Format
//
//	Integer:     i<digits>e          i42e, i-42e, i0e
//	Byte string: <length>:<bytes>    4:spam, 0:
//	List:        l<values>e          li1ei2ei3ee, le
//	Dictionary:  d<pairs>e           d3:cow3:moo4:spam4:eggse, de
//
// No leading zeros are allowed in integers or lengths (except a literal 0),
// and -0 is rejected. Byte strings carry raw bytes verbatim; there is no
// escaping, so any byte value including NUL is legal.
//
// # Canonical Encoding
//
// Every value tree has exactly one encoding. Dictionary keys are kept in
// ascending byte-lexicographic order as an invariant of the Value type
// itself, so iterating a dictionary always yields canonical order and the
// encoder never sorts. The parser is lenient about key order on input and
// strict on output.
//
// # Parsing
//
// Parse reads one value and returns the unconsumed remainder:
//
//	v, rest, err := bencode.Parse([]byte("4:spamextra"))
//	// v = "spam", rest = "extra"
//
// Decode is the strict variant that rejects trailing bytes. Parsed byte
// strings alias the input buffer by default; set ParseOptions.Copy to
// detach them.
//
// # Encoding
//
// Encode produces the canonical bytes for a Value. Marshal accepts native
// Go values (integers, strings, byte slices, slices, string-keyed maps)
// directly:
//
//	data, err := bencode.Marshal(map[string]any{"spam": "eggs", "cow": "moo"})
//	// data = "d3:cow3:moo4:spam4:eggse"
//
// All parse failures carry a byte offset and match one of the package
// sentinel errors (ErrTruncated, ErrMalformedLength, ...) via errors.Is.
package bencode
