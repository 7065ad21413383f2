package importer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/statements/internal/model"
)

func TestCSVDecoder_Fixture(t *testing.T) {
	f, err := os.Open("../../testdata/hdfc_statement.csv")
	require.NoError(t, err)
	defer f.Close()

	rows, err := CSVDecoder{}.Decode(context.Background(), f)
	require.NoError(t, err)

	// Title line is the header; the blank record is skipped.
	require.Len(t, rows, 11)
	title := "HDFC BANK Ltd. Statement of account"
	assert.Equal(t, "Account No : XXXXXXXX4821", rows[0][title])
	assert.Equal(t, "Date", rows[2][title])
	assert.Equal(t, "Narration", rows[2]["column_2"])
	assert.Equal(t, "85,000.00", rows[3]["column_5"])
}

func TestCSVDecoder_HeaderNames(t *testing.T) {
	in := "\ufeffDate,,Amount,Amount\n01-04-2025,x,1,2,extra\n"
	rows, err := CSVDecoder{}.Decode(context.Background(), strings.NewReader(in))
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, model.RawRow{
		"Date":     "01-04-2025",
		"column_2": "x",
		"Amount":   "1",
		"Amount_2": "2",
		"column_5": "extra",
	}, rows[0])
}

func TestCSVDecoder_GeneratedNameCollision(t *testing.T) {
	in := "A,A,A_2\n1,2,3\n"
	rows, err := CSVDecoder{}.Decode(context.Background(), strings.NewReader(in))
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, model.RawRow{"A": "1", "A_2": "2", "A_2_2": "3"}, rows[0])
}

func TestCSVDecoder_ShortRecordsAndBlankLines(t *testing.T) {
	in := "\n,,\nDate,Particulars,Debit\n\n01-04-2025,Coffee\n , ,\n"
	rows, err := CSVDecoder{}.Decode(context.Background(), strings.NewReader(in))
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, model.RawRow{"Date": "01-04-2025", "Particulars": "Coffee", "Debit": ""}, rows[0])
}

func TestCSVDecoder_Empty(t *testing.T) {
	rows, err := CSVDecoder{}.Decode(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, rows)

	rows, err = CSVDecoder{}.Decode(context.Background(), strings.NewReader("Date,Particulars,Debit\n"))
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestJSONDecoder(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"array", `[{"DATE":"01-04-2025"},{"DATE":"02-04-2025"}]`, 2},
		{"data object", `{"data":[{"DATE":"01-04-2025"}]}`, 1},
		{"object without data", `{"rows":[{"DATE":"01-04-2025"}]}`, 0},
		{"data not array", `{"data":"nope"}`, 0},
		{"scalar", `42`, 0},
		{"non-object elements", `[1, "x", {"DATE":"01-04-2025"}]`, 1},
		{"empty document", ``, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := JSONDecoder{}.Decode(context.Background(), strings.NewReader(tt.in))
			require.NoError(t, err)
			assert.Len(t, rows, tt.want)
		})
	}
}

func TestJSONDecoder_Invalid(t *testing.T) {
	_, err := JSONDecoder{}.Decode(context.Background(), strings.NewReader(`[{"DATE":`))
	assert.Error(t, err)
}

func TestJSONDecoder_Fixture(t *testing.T) {
	f, err := os.Open("../../testdata/statement.json")
	require.NoError(t, err)
	defer f.Close()

	rows, err := JSONDecoder{}.Decode(context.Background(), f)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Starbucks", rows[1]["Payee"])
	assert.Nil(t, rows[0]["Debit"])
	assert.Equal(t, "18.75", rows[1]["Debit"].(interface{ String() string }).String())
}

func xlsxBytes(t *testing.T, records [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &rec))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestXLSXDecoder(t *testing.T) {
	data := xlsxBytes(t, [][]any{
		{"Value Date", "Description", "Debit", "Credit"},
		{"01-04-2025", "Salary", nil, 50000},
		{},
		{"05-04-2025", "Rent", 15000, nil},
	})

	rows, err := XLSXDecoder{}.Decode(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Salary", rows[0]["Description"])
	assert.Equal(t, "50000", rows[0]["Credit"])
	assert.Equal(t, "15000", rows[1]["Debit"])
}

func TestXLSXDecoder_Invalid(t *testing.T) {
	_, err := XLSXDecoder{}.Decode(context.Background(), strings.NewReader("not a zip"))
	assert.Error(t, err)
}

func TestXLSDecoder_Invalid(t *testing.T) {
	_, err := XLSDecoder{}.Decode(context.Background(), strings.NewReader("not a workbook"))
	assert.Error(t, err)
}

func TestParseStatementText(t *testing.T) {
	text := strings.Join([]string{
		"                 HDFC BANK LTD",
		"Date        Narration                       Withdrawal     Deposit       Balance",
		"01/04/2025  Opening balance                                               10,000.00",
		"02/04/2025  UPI-SWIGGY-ORDER                450.00                        9,550.00",
		"03/04/2025  NEFT ACME SALARY                              85,000.00     94,550.00",
		"04/04/2025  ATM WDL                         2,000.00 Dr                   92,550.00 Cr",
		"05-Apr-25   REFUND AMAZON                   120.00Cr",
		"99/99/2025  BAD DATE                        1.00          2.00",
		"Page 1 of 2",
	}, "\n")

	rows := parseStatementText(text)
	require.Len(t, rows, 5)

	// A lone amount is the transaction amount and there is no balance.
	assert.Equal(t, "Opening balance", rows[0]["Particulars"])
	assert.Equal(t, "10000", rows[0]["Debit"])
	assert.Equal(t, "", rows[0]["Balance"])

	assert.Equal(t, "UPI-SWIGGY-ORDER", rows[1]["Particulars"])
	assert.Equal(t, "450", rows[1]["Debit"])
	assert.Equal(t, "9,550.00", rows[1]["Balance"])

	// Balance went up, so it is a credit.
	assert.Equal(t, "85000", rows[2]["Credit"])
	assert.Equal(t, "", rows[2]["Debit"])

	// Explicit markers win; the trailing Cr belongs to the balance.
	assert.Equal(t, "ATM WDL", rows[3]["Particulars"])
	assert.Equal(t, "2000", rows[3]["Debit"])

	assert.Equal(t, "05-Apr-25", rows[4]["Date"])
	assert.Equal(t, "120", rows[4]["Credit"])
}

func TestPDFDecoder_MissingTool(t *testing.T) {
	d := &PDFDecoder{Command: "statements-no-such-pdftotext"}
	_, err := d.Decode(context.Background(), strings.NewReader("%PDF-1.4"))
	assert.Error(t, err)
	assert.True(t, d.LowAccuracy())
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(CSVDecoder{})
	d := r.Get("csv")
	require.NotNil(t, d)
	assert.Equal(t, "csv", d.Format())
	assert.NotNil(t, r.Get(".CSV"))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(CSVDecoder{})
	assert.Panics(t, func() { r.Register(CSVDecoder{}) })
}

func TestRegistry_ForFile(t *testing.T) {
	r := DefaultRegistry()
	for _, name := range []string{"a.csv", "b.JSON", "c.xlsx", "d.xls", "e.pdf"} {
		_, err := r.ForFile(name)
		assert.NoError(t, err, name)
	}

	_, err := r.ForFile("notes.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	var fe *FileError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "notes.txt", fe.File)
	assert.Contains(t, err.Error(), "notes.txt")
}

func TestDecodeAll_PreservesOrder(t *testing.T) {
	files := []File{
		BytesFile("b.json", []byte(`[{"DATE":"02-04-2025"},{"DATE":"03-04-2025"}]`)),
		BytesFile("a.csv", []byte("DATE,PARTICULARS,DEBIT\n01-04-2025,x,1\n")),
	}
	got, err := DecodeAll(context.Background(), DefaultRegistry(), files)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "b.json", got[0].File)
	assert.Len(t, got[0].Rows, 2)
	assert.Equal(t, "a.csv", got[1].File)
	assert.Len(t, got[1].Rows, 1)
	assert.False(t, got[0].LowAccuracy)
}

func TestDecodeAll_UnsupportedAbortsBatch(t *testing.T) {
	files := []File{
		BytesFile("ok.csv", []byte("DATE,PARTICULARS,DEBIT\n01-04-2025,x,1\n")),
		BytesFile("scan.png", []byte{0x89}),
	}
	got, err := DecodeAll(context.Background(), DefaultRegistry(), files)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "scan.png")
}

func TestDecodeAll_DecodeErrorNamesFile(t *testing.T) {
	files := []File{
		BytesFile("good.json", []byte(`[]`)),
		BytesFile("broken.json", []byte(`{`)),
	}
	_, err := DecodeAll(context.Background(), DefaultRegistry(), files)
	require.Error(t, err)
	var fe *FileError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "broken.json", fe.File)
}

func TestDecodeAll_OpenError(t *testing.T) {
	files := []File{PathFile(filepath.Join(t.TempDir(), "missing.csv"))}
	_, err := DecodeAll(context.Background(), DefaultRegistry(), files)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBytesFile_Reopens(t *testing.T) {
	f := BytesFile("a.csv", []byte("abc"))
	for i := 0; i < 2; i++ {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "abc", string(data))
		require.NoError(t, rc.Close())
	}
}

func TestScan_FindsStatements(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"bank.csv", "card.xlsx", "other.txt", "export.JSON"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("data"), 0o644))
	}

	files, err := Scan(dir, DefaultRegistry())
	require.NoError(t, err)
	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"bank.csv", "card.xlsx", "export.JSON"}, names)
}

func TestScan_IgnoresProcessedDir(t *testing.T) {
	dir := t.TempDir()
	processed := filepath.Join(dir, "processed")
	require.NoError(t, os.MkdirAll(processed, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(processed, "old.csv"), []byte("data"), 0o644))

	files, err := Scan(dir, DefaultRegistry())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "new.csv", files[0].Name)
	assert.Equal(t, int64(4), files[0].Size)
}

func TestScan_MissingDir(t *testing.T) {
	files, err := Scan(filepath.Join(t.TempDir(), "nope"), DefaultRegistry())
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bank.csv"), []byte("data"), 0o644))

	require.NoError(t, MarkProcessed(dir, "bank.csv"))

	_, err := os.Stat(filepath.Join(dir, "bank.csv"))
	assert.True(t, os.IsNotExist(err))

	info, err := os.Stat(filepath.Join(dir, "processed", "bank.csv"))
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestMarkProcessed_MissingFile(t *testing.T) {
	err := MarkProcessed(t.TempDir(), "ghost.csv")
	assert.Error(t, err)
}
