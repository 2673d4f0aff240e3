// Package decode turns raw tabular bytes of unknown character encoding
// and field delimiter into a RawTable by trial decoding.
package decode

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/nrunyard/cma-ma-enrollment/internal/normalize"
)

// ErrUndecodable means no encoding/delimiter combination produced a
// table with at least two columns.
var ErrUndecodable = errors.New("undecodable file: no encoding/delimiter combination parsed")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type trialEncoding struct {
	name   string
	decode func([]byte) (string, error)
}

// Trial order is fixed: a BOM-tolerant UTF-8, Latin-1, Windows-1252.
// Latin-1 rejects C1 control characters (0x80–0x9F are not text in
// ISO-8859-1), so genuinely Windows-1252 files fall through and resolve
// on the third attempt instead of mis-decoding on the second.
var encodings = []trialEncoding{
	{name: "utf-8-sig", decode: decodeUTF8SIG},
	{name: "latin-1", decode: decodeLatin1},
	{name: "windows-1252", decode: decodeWindows1252},
}

var delimiters = []rune{',', '\t', '|'}

// Decode attempts every encoding/delimiter combination in priority order
// and returns the first that decodes cleanly and parses into a table
// with at least two columns. A single-column result is a delimiter
// mismatch, not success.
func Decode(raw []byte) (*RawTable, error) {
	for _, enc := range encodings {
		text, err := enc.decode(raw)
		if err != nil {
			continue
		}
		for _, sep := range delimiters {
			t, err := parse(text, sep)
			if err != nil {
				continue
			}
			t.Encoding = enc.name
			t.Delimiter = sep
			return t, nil
		}
	}
	return nil, ErrUndecodable
}

func decodeUTF8SIG(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		return "", errors.New("invalid utf-8")
	}
	return string(raw), nil
}

func decodeLatin1(raw []byte) (string, error) {
	for _, b := range raw {
		if b >= 0x80 && b <= 0x9F {
			return "", errors.New("C1 control bytes present")
		}
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func decodeWindows1252(raw []byte) (string, error) {
	out, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func parse(text string, sep rune) (*RawTable, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse separated values: %w", err)
	}
	if len(records) == 0 || len(records[0]) < 2 {
		return nil, errors.New("fewer than two columns")
	}

	cols := make([]string, len(records[0]))
	for i, c := range records[0] {
		cols[i] = normalize.Header(c)
	}
	return &RawTable{Columns: cols, Rows: records[1:]}, nil
}
