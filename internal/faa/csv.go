package faa

import (
	"archive/zip"
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Record is one data row keyed by requested column name. Columns missing
// from the source file read as empty strings.
type Record map[string]string

// MasterColumns lists the MASTER.txt columns the pipeline requests. The FAA
// file schema has changed over time, so any of these may be absent.
var MasterColumns = []string{
	"N-NUMBER", "SERIAL NUMBER", "MFR MDL CODE", "ENG MFR MDL", "YEAR MFR",
	"TYPE REGISTRANT", "NAME", "STREET", "STREET2", "CITY", "STATE", "ZIP CODE",
	"REGION", "COUNTY", "COUNTRY", "LAST ACTION DATE", "CERT ISSUE DATE",
	"CERTIFICATION", "TYPE AIRCRAFT", "TYPE ENGINE", "STATUS CODE", "MODE S CODE",
	"FRACT OWNER", "AIR WORTH DATE", "OTHER NAMES(1)", "OTHER NAMES(2)",
	"OTHER NAMES(3)", "OTHER NAMES(4)", "OTHER NAMES(5)", "EXPIRATION DATE",
	"UNIQUE ID", "KIT MFR", "KIT MODEL", "MODE S CODE HEX", "NO-ENG", "NO-SEATS",
}

// AcftrefColumns lists the ACFTREF.txt columns the pipeline requests.
var AcftrefColumns = []string{
	"CODE", "MFR", "MODEL", "TYPE-ACFT", "TYPE-ENG", "AC-CAT",
	"BUILD-CERT-IND", "NO-ENG", "NO-SEATS", "AC-WEIGHT", "SPEED",
	"TC-DATA-SHEET", "TC-DATA-HOLDER",
}

// ParseEntry opens one archive entry and parses its records.
func ParseEntry(f *zip.File, columns []string) ([]Record, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }()

	records, err := ParseRecords(rc, columns)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Name, err)
	}
	return records, nil
}

// ParseRecords reads a comma-delimited FAA file with a header row and
// returns one Record per data row, holding the requested columns only.
//
// Header names are trimmed and matched verbatim (no case folding). A
// requested column absent from the header reads as empty for every row; the
// binding is decided once from the header, not per row. Short rows default
// out-of-range columns to empty and extra trailing fields are ignored, so
// ragged data never aborts the parse. Every value is whitespace-trimmed.
func ParseRecords(r io.Reader, columns []string) ([]Record, error) {
	cr := csv.NewReader(stripBOM(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	indexes := make(map[string]int, len(columns))
	for _, col := range columns {
		for i, name := range header {
			if name == col {
				indexes[col] = i
				break
			}
		}
	}

	var records []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		rec := make(Record, len(columns))
		for _, col := range columns {
			idx, ok := indexes[col]
			if !ok || idx >= len(row) {
				rec[col] = ""
				continue
			}
			rec[col] = strings.TrimSpace(row[idx])
		}
		records = append(records, rec)
	}
	return records, nil
}

// stripBOM removes a leading UTF-8 byte-order mark; FAA exports carry one.
func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && bytes.Equal(b, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
	}
	return br
}
