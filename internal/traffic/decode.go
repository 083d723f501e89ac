package traffic

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// RawTable is the decoded but not yet normalized upload: original header
// cells and one string record per data row.
type RawTable struct {
	Header  []string
	Records [][]string
}

// decodings is the fixed fallback chain: UTF-8 first, then GBK for legacy
// CJK exports, then Latin-1 which accepts any byte sequence.
var decodings = []struct {
	name   string
	decode func([]byte) (string, error)
}{
	{"utf-8", decodeUTF8},
	{"gbk", decodeGBK},
	{"latin-1", decodeLatin1},
}

// Load decodes raw CSV bytes into a RawTable, trying each encoding in order
// and stopping at the first that succeeds. It returns *UnreadableFileError
// when no encoding applies or the decoded text is not valid CSV.
func Load(data []byte) (*RawTable, error) {
	var lastErr error
	for _, d := range decodings {
		text, err := d.decode(data)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", d.name, err)
			continue
		}
		return parseCSV(text)
	}
	return nil, &UnreadableFileError{Err: lastErr}
}

func decodeUTF8(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("invalid byte sequence")
	}
	return string(data), nil
}

func decodeGBK(data []byte) (string, error) {
	out, err := simplifiedchinese.GBK.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	// The x/text decoder substitutes U+FFFD instead of failing; treat any
	// substitution as a decode failure so the chain can fall through.
	if strings.ContainsRune(string(out), utf8.RuneError) {
		return "", errors.New("invalid byte sequence")
	}
	return string(out), nil
}

func decodeLatin1(data []byte) (string, error) {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func parseCSV(text string) (*RawTable, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.ReuseRecord = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rec, err := r.Read()
	if err != nil {
		return nil, &UnreadableFileError{Err: fmt.Errorf("read header: %w", err)}
	}
	header := make([]string, len(rec))
	copy(header, rec)
	header[0] = strings.TrimPrefix(header[0], "\uFEFF")

	raw := &RawTable{Header: header}
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &UnreadableFileError{Err: fmt.Errorf("read row %d: %w", len(raw.Records)+1, err)}
		}
		// Pad short records so every row has a cell per header column.
		if len(rec) < len(header) {
			tmp := make([]string, len(header))
			copy(tmp, rec)
			rec = tmp
		}
		row := make([]string, len(rec))
		copy(row, rec)
		raw.Records = append(raw.Records, row)
	}
	return raw, nil
}
