package xlsxstream

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// openFixture builds an in-memory workbook with excelize from literal rows
// and opens it as a Document.
func openFixture(t *testing.T, rows [][]any) *Document {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	doc, err := Open(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	return doc
}

const (
	fixtureWorkbookXML = `<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
		`<sheets><sheet name="Sheet1" sheetId="1" r:id="rId1"/></sheets></workbook>`
	fixtureWorkbookRels = `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>` +
		`</Relationships>`
)

// openRawFixture assembles a workbook zip from hand-written parts, for shapes
// excelize will not produce (missing shared strings, out-of-range cells, ...).
// Parts for the workbook and its relationships are provided unless overridden.
func openRawFixture(t *testing.T, parts map[string]string) *Document {
	t.Helper()
	if _, ok := parts["xl/workbook.xml"]; !ok {
		parts["xl/workbook.xml"] = fixtureWorkbookXML
	}
	if _, ok := parts["xl/_rels/workbook.xml.rels"]; !ok {
		parts["xl/_rels/workbook.xml.rels"] = fixtureWorkbookRels
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	doc, err := Open(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	return doc
}

// sheetXML wraps row markup into a minimal worksheet part.
func sheetXML(rows string) string {
	return `<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>` +
		rows + `</sheetData></worksheet>`
}

func strptr(s string) *string {
	return &s
}
