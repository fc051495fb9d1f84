package statement

import (
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/bank_reconciliation/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation/internal/utils/dateparse"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("entry-%d", n)
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestParse_CSVParenthesizedNegativeInDebitColumn(t *testing.T) {
	content := "Date,Description,Debit,Credit,Balance,Reference\n" +
		`"2025-02-01","Office Rent","(1500.00)",,13400.00,REF1` + "\n"

	res, err := Parse([]byte(content), "february.csv", Options{NewID: seqIDs()})
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)

	e := res.Entries[0]
	assert.Equal(t, FormatCSV, res.Format)
	assert.Equal(t, "entry-1", e.EntryID)
	assert.Equal(t, day(2025, 2, 1), e.Date)
	assert.Equal(t, "Office Rent", e.Description)
	assert.True(t, dec("-1500.00").Equal(e.Amount), "got %s", e.Amount)
	assert.Equal(t, "REF1", e.Reference)
	assert.Equal(t, 2, e.Line)
	assert.Contains(t, e.RawRow, "Office Rent")
}

func TestParse_CSVSignedAmountSchema(t *testing.T) {
	content := "Transaction Date,Payee,Amt\n" +
		"01/15/2025,Microsoft 365,-299.99\n" +
		"01/16/2025,\"ACME, Inc\",\"1,250.00\"\n" +
		"01/17/2025,Refund,(12.50)\n"

	res, err := Parse([]byte(content), "export.CSV", Options{NewID: seqIDs()})
	require.NoError(t, err)
	require.Len(t, res.Entries, 3)
	assert.Empty(t, res.Skipped)

	assert.True(t, dec("-299.99").Equal(res.Entries[0].Amount))
	assert.Equal(t, "ACME, Inc", res.Entries[1].Description)
	assert.True(t, dec("1250").Equal(res.Entries[1].Amount))
	assert.True(t, dec("-12.50").Equal(res.Entries[2].Amount))
}

func TestParse_CSVDebitCreditRowsAndSkips(t *testing.T) {
	content := "Date,Memo,Withdrawals,Deposits\n" +
		"2025-03-01,Coffee,4.50,\n" +
		"2025-03-02,Salary,,3000.00\n" +
		"2025-03-03,Broken,10.00,10.00\n" +
		"2025-03-04,Nothing,,\n" +
		"not-a-date,Mystery,1.00,\n" +
		"2025-03-05,Zero debit,0.00,25.00\n"

	res, err := Parse([]byte(content), "march.csv", Options{NewID: seqIDs()})
	require.NoError(t, err)

	require.Len(t, res.Entries, 3)
	assert.True(t, dec("-4.50").Equal(res.Entries[0].Amount))
	assert.True(t, dec("3000").Equal(res.Entries[1].Amount))
	assert.True(t, dec("25").Equal(res.Entries[2].Amount))

	require.Len(t, res.Skipped, 3)
	assert.Equal(t, 4, res.Skipped[0].Line)
	assert.Contains(t, res.Skipped[0].Reason, "both debit and credit")
	assert.Equal(t, 5, res.Skipped[1].Line)
	assert.Contains(t, res.Skipped[1].Reason, "neither")
	assert.Equal(t, 6, res.Skipped[2].Line)
	assert.Contains(t, res.Skipped[2].Reason, "unparseable date")
	assert.Equal(t, "not-a-date,Mystery,1.00,", res.Skipped[2].Raw)
}

func TestParse_CSVPreambleBOMAndSemicolon(t *testing.T) {
	content := "\xEF\xBB\xBFAccount;12345678\r\n" +
		"Generated;2025-04-30\r\n" +
		"\r\n" +
		"Buchungstag;Details;Amount\r\n" +
		"15/04/2025;Miete;-1.200,00\r\n" +
		"16/04/2025;Gehalt;2.500,50\r\n"

	res, err := Parse([]byte(content), "konto.csv", Options{NewID: seqIDs()})
	require.Error(t, err, "header without a known date column is not accepted")
	assert.Nil(t, res)

	content = "\xEF\xBB\xBFAccount;12345678\r\n" +
		"Generated;2025-04-30\r\n" +
		"\r\n" +
		"Value Date;Details;Amount\r\n" +
		"15/04/2025;Miete;-1.200,00\r\n" +
		"16/04/2025;Gehalt;2.500,50\r\n"

	res, err = Parse([]byte(content), "konto.csv", Options{NewID: seqIDs()})
	require.NoError(t, err)
	require.Len(t, res.Entries, 2)
	assert.Equal(t, day(2025, 4, 15), res.Entries[0].Date)
	assert.True(t, dec("-1200").Equal(res.Entries[0].Amount))
	assert.True(t, dec("2500.50").Equal(res.Entries[1].Amount))
	assert.Equal(t, 5, res.Entries[0].Line)
}

func TestParse_CSVLocaleHint(t *testing.T) {
	content := "Date,Description,Amount\n03/04/2025,Rent,-100\n"

	res, err := Parse([]byte(content), "a.csv", Options{NewID: seqIDs()})
	require.NoError(t, err)
	assert.Equal(t, day(2025, 3, 4), res.Entries[0].Date)

	res, err = Parse([]byte(content), "a.csv", Options{Locale: dateparse.LocaleEU, NewID: seqIDs()})
	require.NoError(t, err)
	assert.Equal(t, day(2025, 4, 3), res.Entries[0].Date)
}

const sgmlOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102

<OFX>
<BANKMSGSRSV1>
<STMTTRNRS>
<STMTRS>
<CURDEF>usd
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>000111222
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20250101
<DTEND>20250131
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20250115120000.000[-5:EST]
<TRNAMT>-299.99
<FITID>2025011501
<NAME>MICROSOFT 365
<MEMO>Subscription
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20250120
<TRNAMT>1500.00
<FITID>2025012001
<MEMO>Payroll &amp; Bonus
</STMTTRN>
<STMTTRN>
<TRNTYPE>CHECK
<DTPOSTED>20250122
<TRNAMT>-75.00
<CHECKNUM>1042
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>garbage
<TRNAMT>-1.00
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>2125.01
<DTASOF>20250131
</LEDGERBAL>
<AVAILBAL>
<BALAMT>2000.00
<DTASOF>20250131
</AVAILBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>
`

func TestParse_OFXSGML(t *testing.T) {
	res, err := Parse([]byte(sgmlOFX), "statement.qfx", Options{NewID: seqIDs()})
	require.NoError(t, err)
	assert.Equal(t, FormatOFX, res.Format)
	require.Len(t, res.Entries, 3)

	first := res.Entries[0]
	assert.Equal(t, day(2025, 1, 15), first.Date)
	assert.True(t, dec("-299.99").Equal(first.Amount))
	assert.Equal(t, "MICROSOFT 365", first.Description)
	assert.Equal(t, "2025011501", first.Reference)
	assert.Equal(t, 1, first.Line)

	assert.Equal(t, "Payroll & Bonus", res.Entries[1].Description, "MEMO is the fallback for a missing NAME")
	assert.Equal(t, "", res.Entries[2].Description)
	assert.Equal(t, "1042", res.Entries[2].Reference)

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 4, res.Skipped[0].Line)

	assert.Equal(t, "USD", res.Meta.Currency)
	assert.Equal(t, "000111222", res.Meta.BankAccountRef)
	require.NotNil(t, res.Meta.PeriodStart)
	assert.Equal(t, day(2025, 1, 1), *res.Meta.PeriodStart)
	require.NotNil(t, res.Meta.PeriodEnd)
	assert.Equal(t, day(2025, 1, 31), *res.Meta.PeriodEnd)
	require.NotNil(t, res.Meta.LedgerBalance)
	assert.True(t, dec("2125.01").Equal(*res.Meta.LedgerBalance))
}

func TestParse_OFXXMLClosedTags(t *testing.T) {
	content := `<?xml version="1.0"?><?OFX OFXHEADER="200" VERSION="211"?>
<OFX><BANKMSGSRSV1><STMTTRNRS><STMTRS><BANKTRANLIST>
<STMTTRN><TRNTYPE>DEBIT</TRNTYPE><DTPOSTED>20250301</DTPOSTED><TRNAMT>-42.10</TRNAMT><FITID>X1</FITID><NAME>Hardware Store</NAME></STMTTRN>
</BANKTRANLIST></STMTRS></STMTTRNRS></BANKMSGSRSV1></OFX>`

	res, err := Parse([]byte(content), "march.ofx", Options{NewID: seqIDs()})
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "Hardware Store", res.Entries[0].Description)
	assert.Equal(t, "X1", res.Entries[0].Reference)
	assert.True(t, dec("-42.10").Equal(res.Entries[0].Amount))
}

func TestParse_OFXBodyBehindCSVExtension(t *testing.T) {
	res, err := Parse([]byte(sgmlOFX), "download.csv", Options{NewID: seqIDs()})
	require.NoError(t, err)
	assert.Equal(t, FormatOFX, res.Format)
}

func TestParse_Failures(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		filename string
		kind     ErrorKind
		sentinel error
	}{
		{"txt extension", "Date,Amount\n2025-01-01,5\n", "statement.txt", KindUnsupportedFormat, apperrors.ErrUnsupportedFormat},
		{"pdf extension", "%PDF-1.4", "statement.pdf", KindUnsupportedFormat, apperrors.ErrUnsupportedFormat},
		{"empty csv", "", "empty.csv", KindEmptyOrUnparseable, apperrors.ErrEmptyOrUnparseable},
		{"header only", "Date,Description,Amount\n", "h.csv", KindEmptyOrUnparseable, apperrors.ErrEmptyOrUnparseable},
		{"all rows bad", "Date,Description,Amount\nnope,x,1\n", "bad.csv", KindEmptyOrUnparseable, apperrors.ErrEmptyOrUnparseable},
		{"no header", "a,b,c\n1,2,3\n", "nohdr.csv", KindEmptyOrUnparseable, apperrors.ErrEmptyOrUnparseable},
		{"ofx without transactions", "OFXHEADER:100\n<OFX></OFX>", "x.ofx", KindEmptyOrUnparseable, apperrors.ErrEmptyOrUnparseable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse([]byte(tt.content), tt.filename, Options{})
			require.Error(t, err)
			assert.Nil(t, res)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.kind, perr.Kind)
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestParse_DefaultIDsAreUnique(t *testing.T) {
	res, err := Parse([]byte("Date,Amount\n2025-01-01,1\n2025-01-02,2\n"), "a.csv", Options{})
	require.NoError(t, err)
	require.Len(t, res.Entries, 2)
	assert.NotEmpty(t, res.Entries[0].EntryID)
	assert.NotEqual(t, res.Entries[0].EntryID, res.Entries[1].EntryID)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"-299.99", "-299.99"},
		{"(1500.00)", "-1500"},
		{"1,234.56", "1234.56"},
		{"$1,234.56", "1234.56"},
		{"-$42.10", "-42.10"},
		{"42.10-", "-42.10"},
		{"42.10 DR", "-42.10"},
		{"42.10 cr", "42.10"},
		{"+17", "17"},
		{"1.234,56", "1234.56"},
		{"12,5", "12.5"},
		{"1,234", "1234"},
		{"€ 9.99", "9.99"},
		{"$(1,500.00)", "-1500"},
		{"USD (1,500.00)", "-1500"},
		{"(USD 1,500.00)", "-1500"},
		{"1,500.00 EUR", "1500"},
		{"$-42.10", "-42.10"},
		{"1 234,56", "1234.56"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			require.NoError(t, err)
			assert.True(t, dec(tt.want).Equal(got), "got %s", got)
		})
	}

	for _, bad := range []string{"", "  ", "abc", "1.2.3", "2025-02-01", "12abc34", "--5", "(-5)", "4-2", "$", "N/A", "."} {
		_, err := ParseAmount(bad)
		assert.Error(t, err, bad)
	}
}

func TestParse_CSVMalformedAmountIsSkipped(t *testing.T) {
	content := "Date,Description,Amount\n" +
		"2025-02-01,Deposit,10.00\n" +
		"2025-02-02,Garbled,12abc34\n" +
		"2025-02-03,Shifted,2025-02-03\n"

	res, err := Parse([]byte(content), "feb.csv", Options{NewID: seqIDs()})
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	require.Len(t, res.Skipped, 2)
	assert.Equal(t, 3, res.Skipped[0].Line)
	assert.Contains(t, res.Skipped[0].Reason, "invalid amount")
	assert.Equal(t, 4, res.Skipped[1].Line)
}
