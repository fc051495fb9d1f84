package statement

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SscSPs/bank_reconciliation/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation/internal/utils/dateparse"
	"github.com/shopspring/decimal"
)

// headerSearchRows bounds how many leading rows may precede the header (bank banners, account info).
const headerSearchRows = 10

type column int

const (
	colDate column = iota
	colDescription
	colAmount
	colDebit
	colCredit
	colReference
	colBalance
)

// columnSynonyms maps normalized header text to a column role.
var columnSynonyms = map[string]column{
	"date":                colDate,
	"transaction date":    colDate,
	"posted date":         colDate,
	"posting date":        colDate,
	"post date":           colDate,
	"value date":          colDate,
	"trans date":          colDate,
	"description":         colDescription,
	"memo":                colDescription,
	"payee":               colDescription,
	"details":             colDescription,
	"narrative":           colDescription,
	"name":                colDescription,
	"transaction details": colDescription,
	"amount":              colAmount,
	"amt":                 colAmount,
	"transaction amount":  colAmount,
	"debit":               colDebit,
	"debits":              colDebit,
	"withdrawal":          colDebit,
	"withdrawals":         colDebit,
	"debit amount":        colDebit,
	"money out":           colDebit,
	"paid out":            colDebit,
	"credit":              colCredit,
	"credits":             colCredit,
	"deposit":             colCredit,
	"deposits":            colCredit,
	"credit amount":       colCredit,
	"money in":            colCredit,
	"paid in":             colCredit,
	"reference":           colReference,
	"ref":                 colReference,
	"check number":        colReference,
	"cheque number":       colReference,
	"fitid":               colReference,
	"id":                  colReference,
	"transaction id":      colReference,
	"balance":             colBalance,
	"running balance":     colBalance,
}

// csvLayout is the column index for each role, -1 when absent.
type csvLayout map[column]int

func (l csvLayout) has(c column) bool { return l[c] >= 0 }

func (l csvLayout) field(record []string, c column) string {
	i := l[c]
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// usable reports whether the header carries a date and some amount column.
func (l csvLayout) usable() bool {
	return l.has(colDate) && (l.has(colAmount) || l.has(colDebit) || l.has(colCredit))
}

func normalizeHeader(cell string) string {
	cell = strings.ToLower(strings.TrimSpace(cell))
	cell = strings.Map(func(r rune) rune {
		switch r {
		case '_', '.', '#', '(', ')', ':', '/':
			return ' '
		}
		return r
	}, cell)
	return strings.Join(strings.Fields(cell), " ")
}

func layoutFor(record []string) csvLayout {
	l := csvLayout{colDate: -1, colDescription: -1, colAmount: -1, colDebit: -1, colCredit: -1, colReference: -1, colBalance: -1}
	for i, cell := range record {
		role, ok := columnSynonyms[normalizeHeader(cell)]
		if !ok || l[role] >= 0 {
			continue
		}
		l[role] = i
	}
	return l
}

// sniffDelimiter picks ',', ';' or tab by frequency over the first few lines.
func sniffDelimiter(content []byte) rune {
	lines := bytes.SplitN(content, []byte("\n"), headerSearchRows+1)
	counts := map[rune]int{',': 0, ';': 0, '\t': 0}
	for _, line := range lines[:min(len(lines), headerSearchRows)] {
		for r := range counts {
			counts[r] += bytes.Count(line, []byte(string(r)))
		}
	}
	best := ','
	for _, r := range []rune{';', '\t'} {
		if counts[r] > counts[best] {
			best = r
		}
	}
	return best
}

func parseCSV(content []byte, opts Options) (*ParseResult, error) {
	delim := sniffDelimiter(content)
	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	rawLine := func(n int) string {
		if n >= 1 && n <= len(lines) {
			return strings.TrimRight(lines[n-1], "\r")
		}
		return ""
	}

	r := csv.NewReader(bytes.NewReader(content))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	res := &ParseResult{}
	var layout csvLayout
	rowsSeen := 0

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if layout != nil && errors.As(err, &perr) {
				res.Skipped = append(res.Skipped, SkippedRow{Line: perr.Line, Reason: perr.Err.Error(), Raw: rawLine(perr.Line)})
			}
			continue
		}
		line, _ := r.FieldPos(0)
		if isBlank(record) {
			continue
		}

		if layout == nil {
			rowsSeen++
			if l := layoutFor(record); l.usable() {
				layout = l
				continue
			}
			if rowsSeen >= headerSearchRows {
				return nil, &ParseError{Kind: KindEmptyOrUnparseable,
					Detail: fmt.Sprintf("no header row with date and amount columns in the first %d rows", headerSearchRows)}
			}
			continue
		}

		entry, reason := csvEntry(record, layout, opts.Locale)
		if reason != "" {
			res.Skipped = append(res.Skipped, SkippedRow{Line: line, Reason: reason, Raw: rawLine(line)})
			continue
		}
		entry.EntryID = opts.NewID()
		entry.Line = line
		entry.RawRow = rawLine(line)
		res.Entries = append(res.Entries, entry)
	}

	if layout == nil {
		return nil, &ParseError{Kind: KindEmptyOrUnparseable, Detail: "no header row with date and amount columns"}
	}
	return res, nil
}

// csvEntry maps one data row; a non-empty reason means the row is skipped.
func csvEntry(record []string, layout csvLayout, locale dateparse.Locale) (domain.BankEntry, string) {
	dateText := layout.field(record, colDate)
	date, ok := dateparse.Parse(dateText, locale)
	if !ok {
		return domain.BankEntry{}, fmt.Sprintf("unparseable date %q", dateText)
	}

	var amount decimal.Decimal
	if layout.has(colAmount) {
		text := layout.field(record, colAmount)
		v, err := ParseAmount(text)
		if err != nil {
			return domain.BankEntry{}, fmt.Sprintf("invalid amount %q", text)
		}
		amount = v
	} else {
		debit, debitOK, err := optionalAmount(layout.field(record, colDebit))
		if err != nil {
			return domain.BankEntry{}, fmt.Sprintf("invalid debit: %v", err)
		}
		credit, creditOK, err := optionalAmount(layout.field(record, colCredit))
		if err != nil {
			return domain.BankEntry{}, fmt.Sprintf("invalid credit: %v", err)
		}
		switch {
		case debitOK && creditOK:
			return domain.BankEntry{}, "both debit and credit present"
		case !debitOK && !creditOK:
			return domain.BankEntry{}, "neither debit nor credit present"
		case debitOK:
			amount = debit.Abs().Neg()
		default:
			amount = credit.Abs()
		}
	}

	return domain.BankEntry{
		Date:        date,
		Description: layout.field(record, colDescription),
		Amount:      amount,
		Reference:   layout.field(record, colReference),
	}, ""
}

// optionalAmount treats blank and zero cells as absent.
func optionalAmount(text string) (decimal.Decimal, bool, error) {
	if text == "" {
		return decimal.Zero, false, nil
	}
	v, err := ParseAmount(text)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("%q", text)
	}
	if v.IsZero() {
		return decimal.Zero, false, nil
	}
	return v, true, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
