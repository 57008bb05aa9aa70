// bencode - bencode codec CLI tool
//
// Usage:
//
//	bencode json [file]     Decode bencode and print it as JSON
//	bencode fmt [file]      Parse and re-emit canonical bencode bytes
//	bencode hash [file]     Print the canonical fingerprint of the value
//	bencode version         Print version info
//
// If no file is given, reads from stdin. Gzip-compressed input is
// detected by magic bytes and decompressed transparently.
// Use --verbose for debug diagnostics on stderr.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"

	"github.com/snowdrop4/acornbencode/bencode"
)

const version = "0.1.0"

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
	Level(zerolog.WarnLevel).
	With().Timestamp().Logger()

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	fileArg := ""
	for _, arg := range os.Args[2:] {
		switch {
		case arg == "--verbose" || arg == "-v":
			log = log.Level(zerolog.DebugLevel)
		default:
			if !strings.HasPrefix(arg, "-") && arg != "-" {
				fileArg = arg
			}
		}
	}

	switch cmd {
	case "json":
		v := parseInput(readInput(fileArg))
		out, err := bencode.ToJSON(v)
		if err != nil {
			log.Fatal().Err(err).Msg("render JSON")
		}
		fmt.Println(string(out))

	case "fmt":
		v := parseInput(readInput(fileArg))
		if _, err := os.Stdout.Write(bencode.Encode(v)); err != nil {
			log.Fatal().Err(err).Msg("write output")
		}

	case "hash":
		v := parseInput(readInput(fileArg))
		fmt.Println(bencode.Fingerprint(v))

	case "version", "--version":
		fmt.Printf("bencode %s\n", version)

	default:
		fmt.Fprintf(os.Stderr, "bencode: unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

// readInput reads the whole input from the file argument or stdin,
// decompressing gzip transparently.
func readInput(fileArg string) []byte {
	var r io.Reader = os.Stdin
	if fileArg != "" {
		f, err := os.Open(fileArg)
		if err != nil {
			log.Fatal().Err(err).Str("file", fileArg).Msg("open input")
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		log.Fatal().Err(err).Msg("read input")
	}

	if len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b {
		log.Debug().Int("compressed_size", len(data)).Msg("gzip input detected")
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			log.Fatal().Err(err).Msg("open gzip stream")
		}
		data, err = io.ReadAll(zr)
		if err != nil {
			log.Fatal().Err(err).Msg("decompress input")
		}
	}

	log.Debug().Int("size", len(data)).Msg("read input")
	return data
}

// parseInput parses one value and warns about trailing bytes instead of
// failing, matching the lenient Parse entry point.
func parseInput(data []byte) *bencode.Value {
	v, rest, err := bencode.Parse(data)
	if err != nil {
		log.Fatal().Err(err).Msg("parse")
	}
	if len(rest) > 0 {
		log.Warn().Int("trailing_bytes", len(rest)).Msg("ignoring trailing bytes after value")
	}
	return v
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `bencode - bencode codec CLI tool

Usage:
  bencode json [file]     Decode bencode and print it as JSON
  bencode fmt [file]      Parse and re-emit canonical bencode bytes
  bencode hash [file]     Print the canonical fingerprint of the value
  bencode version         Print version info

Flags:
  -v, --verbose           Debug diagnostics on stderr

If no file is given, reads from stdin. Gzip input is decompressed
transparently.`)
}
