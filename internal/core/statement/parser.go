// Package statement turns uploaded bank statement files into normalized bank entries.
//
// Two formats are understood: delimited text (CSV) and OFX/QFX. Dispatch is by
// file extension, with content sniffing for files that carry no extension or an
// OFX body behind a .csv name. Rows that cannot be read are reported as skipped
// rows; only an unsupported format or a file with no usable rows fails outright.
package statement

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/SscSPs/bank_reconciliation/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation/internal/utils/dateparse"
	"github.com/google/uuid"
)

// Format identifies a statement file format.
type Format string

const (
	FormatCSV Format = "CSV"
	FormatOFX Format = "OFX" // OFX 1.x SGML, OFX 2.x XML and Quicken QFX
)

// ErrorKind classifies a fatal parse failure.
type ErrorKind string

const (
	KindUnsupportedFormat  ErrorKind = "UnsupportedFormat"
	KindEmptyOrUnparseable ErrorKind = "EmptyOrUnparseable"
)

// ParseError is returned when a whole file is rejected.
type ParseError struct {
	Kind   ErrorKind
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("parse error (%s)", e.Kind)
	}
	return fmt.Sprintf("parse error (%s): %s", e.Kind, e.Detail)
}

// Unwrap lets callers test for apperrors.ErrUnsupportedFormat / ErrEmptyOrUnparseable.
func (e *ParseError) Unwrap() error {
	if e.Kind == KindUnsupportedFormat {
		return apperrors.ErrUnsupportedFormat
	}
	return apperrors.ErrEmptyOrUnparseable
}

// SkippedRow describes a row that was dropped without failing the file.
type SkippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
	Raw    string `json:"raw"`
}

// Options tune parsing.
type Options struct {
	// Locale resolves numeric day/month ambiguity in dates.
	Locale dateparse.Locale
	// NewID generates entry IDs. Defaults to random UUIDs.
	NewID func() string
}

// ParseResult is the outcome of a successful parse.
type ParseResult struct {
	Format  Format
	Entries []domain.BankEntry
	Skipped []SkippedRow
	Meta    domain.StatementMeta
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectFormat decides which parser handles the file.
func DetectFormat(content []byte, filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	switch ext {
	case ".ofx", ".qfx":
		return FormatOFX, nil
	case ".csv":
		if looksLikeOFX(content) {
			return FormatOFX, nil
		}
		return FormatCSV, nil
	case "":
		if looksLikeOFX(content) {
			return FormatOFX, nil
		}
		return FormatCSV, nil
	default:
		return "", &ParseError{Kind: KindUnsupportedFormat, Detail: fmt.Sprintf("file extension %q is not supported", ext)}
	}
}

// Parse converts a statement file into bank entries in file order.
func Parse(content []byte, filename string, opts Options) (*ParseResult, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	format, err := DetectFormat(content, filename)
	if err != nil {
		return nil, err
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	var res *ParseResult
	switch format {
	case FormatOFX:
		res = parseOFX(string(content), opts)
	default:
		res, err = parseCSV(content, opts)
		if err != nil {
			return nil, err
		}
	}
	res.Format = format

	if len(res.Entries) == 0 {
		detail := "no parseable rows"
		if len(res.Skipped) > 0 {
			detail = fmt.Sprintf("no parseable rows (%d skipped, first: line %d: %s)",
				len(res.Skipped), res.Skipped[0].Line, res.Skipped[0].Reason)
		}
		return nil, &ParseError{Kind: KindEmptyOrUnparseable, Detail: detail}
	}
	return res, nil
}
