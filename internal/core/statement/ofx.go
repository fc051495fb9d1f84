package statement

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/SscSPs/bank_reconciliation/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation/internal/utils/dateparse"
)

// OFX 1.x is SGML: leaf elements are usually not closed and values run to the
// end of the line or the next tag. The parser therefore works on tag text
// rather than an XML tree, which also covers OFX 2.x and QFX.

var (
	ofxMarker      = regexp.MustCompile(`(?i)(OFXHEADER\s*:|<\?OFX|<OFX>)`)
	stmtTrnOpen    = regexp.MustCompile(`(?i)<STMTTRN>`)
	stmtTrnClose   = regexp.MustCompile(`(?i)</STMTTRN>|</BANKTRANLIST>`)
	ledgerBalOpen  = regexp.MustCompile(`(?i)<LEDGERBAL>`)
	ledgerBalClose = regexp.MustCompile(`(?i)</LEDGERBAL>|<AVAILBAL>`)
	ofxWhitespace  = regexp.MustCompile(`\s+`)
	ofxTagPatterns = map[string]*regexp.Regexp{}
)

func init() {
	for _, tag := range []string{"DTPOSTED", "TRNAMT", "NAME", "MEMO", "FITID", "CHECKNUM", "REFNUM",
		"DTSTART", "DTEND", "CURDEF", "BALAMT", "DTASOF", "ACCTID"} {
		ofxTagPatterns[tag] = regexp.MustCompile(`(?i)<` + tag + `>([^<\r\n]*)`)
	}
}

func looksLikeOFX(content []byte) bool {
	head := content
	if len(head) > 4096 {
		head = head[:4096]
	}
	return ofxMarker.Match(head) || stmtTrnOpen.Match(content)
}

// ofxValue returns the unescaped text of the first <tag> in s.
func ofxValue(s, tag string) string {
	m := ofxTagPatterns[tag].FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(m[1]))
}

// ofxDate reads the YYYYMMDD prefix of an OFX datetime such as 20250115120000.000[-5:EST].
func ofxDate(value string, locale dateparse.Locale) (time.Time, bool) {
	if len(value) < 8 {
		return time.Time{}, false
	}
	return dateparse.Parse(value[:8], locale)
}

func parseOFX(content string, opts Options) *ParseResult {
	res := &ParseResult{Meta: ofxMeta(content, opts.Locale)}

	blocks := stmtTrnOpen.Split(content, -1)
	for i, block := range blocks[1:] {
		ordinal := i + 1
		if loc := stmtTrnClose.FindStringIndex(block); loc != nil {
			block = block[:loc[0]]
		}
		raw := strings.TrimSpace(ofxWhitespace.ReplaceAllString(block, " "))

		posted := ofxValue(block, "DTPOSTED")
		date, ok := ofxDate(posted, opts.Locale)
		if !ok {
			res.Skipped = append(res.Skipped, SkippedRow{Line: ordinal, Reason: fmt.Sprintf("unparseable DTPOSTED %q", posted), Raw: raw})
			continue
		}
		amountText := ofxValue(block, "TRNAMT")
		amount, err := ParseAmount(amountText)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedRow{Line: ordinal, Reason: fmt.Sprintf("invalid TRNAMT %q", amountText), Raw: raw})
			continue
		}

		description := ofxValue(block, "NAME")
		if description == "" {
			description = ofxValue(block, "MEMO")
		}
		reference := ofxValue(block, "FITID")
		if reference == "" {
			reference = ofxValue(block, "CHECKNUM")
		}
		if reference == "" {
			reference = ofxValue(block, "REFNUM")
		}

		res.Entries = append(res.Entries, domain.BankEntry{
			EntryID:     opts.NewID(),
			Date:        date,
			Description: description,
			Amount:      amount,
			Reference:   reference,
			RawRow:      raw,
			Line:        ordinal,
		})
	}
	return res
}

func ofxMeta(content string, locale dateparse.Locale) domain.StatementMeta {
	meta := domain.StatementMeta{
		Currency:       strings.ToUpper(ofxValue(content, "CURDEF")),
		BankAccountRef: ofxValue(content, "ACCTID"),
	}
	if t, ok := ofxDate(ofxValue(content, "DTSTART"), locale); ok {
		meta.PeriodStart = &t
	}
	if t, ok := ofxDate(ofxValue(content, "DTEND"), locale); ok {
		meta.PeriodEnd = &t
	}

	if loc := ledgerBalOpen.FindStringIndex(content); loc != nil {
		ledger := content[loc[1]:]
		if end := ledgerBalClose.FindStringIndex(ledger); end != nil {
			ledger = ledger[:end[0]]
		}
		if bal, err := ParseAmount(ofxValue(ledger, "BALAMT")); err == nil {
			meta.LedgerBalance = &bal
		}
		if t, ok := ofxDate(ofxValue(ledger, "DTASOF"), locale); ok {
			meta.BalanceAsOf = &t
		}
	}
	return meta
}
