package xlsxstream

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
)

/* =========================================================
 *  Document container
 * ========================================================= */

// Document is a read-only view over an opened spreadsheet package. It exposes
// the three things the row reader needs: the row sequence of the first
// worksheet, the shared-string table (loaded lazily, on the first cell that
// references it), and the style-index to number-format-id table.
//
// A Document is a single forward-only resource: only one row cursor may walk
// it at a time, and it is not safe for concurrent use.
type Document struct {
	zr     *zip.Reader
	closer io.Closer // non-nil only for OpenFile

	parts      map[string]*zip.File // key = normalized zip path
	sheetPath  string
	sharedPath string
	stylesPath string

	shared       []string
	sharedLoaded bool

	styleNumFmt []int // cellXfs position -> numFmtId
}

// Open reads a spreadsheet package from a seekable byte source.
func Open(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}
	return newDocument(zr, nil)
}

// OpenFile reads a spreadsheet package from a file path. Close must be called
// to release the underlying file handle.
func OpenFile(name string) (*Document, error) {
	zrc, err := zip.OpenReader(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}
	doc, err := newDocument(&zrc.Reader, zrc)
	if err != nil {
		_ = zrc.Close()
		return nil, err
	}
	return doc, nil
}

// Close releases the underlying container. It is a no-op for documents opened
// from an in-memory byte source.
func (d *Document) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

func newDocument(zr *zip.Reader, closer io.Closer) (*Document, error) {
	d := &Document{
		zr:     zr,
		closer: closer,
		parts:  make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		d.parts[strings.ToLower(f.Name)] = f
	}
	if err := d.resolveParts(); err != nil {
		return nil, err
	}
	if err := d.readStyles(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Document) part(name string) (*zip.File, bool) {
	f, ok := d.parts[strings.ToLower(name)]
	return f, ok
}

func (d *Document) openPart(name string) (io.ReadCloser, error) {
	f, ok := d.part(name)
	if !ok {
		return nil, fmt.Errorf("%w: missing part %s", ErrBadDocument, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open part %s: %v", ErrBadDocument, name, err)
	}
	return rc, nil
}

func (d *Document) decodePart(name string, v any) error {
	rc, err := d.openPart(name)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()
	if err := xml.NewDecoder(rc).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrBadDocument, name, err)
	}
	return nil
}

/* =========================================================
 *  Part resolution (workbook + relationships)
 * ========================================================= */

type xmlWorkbook struct {
	Sheets struct {
		Sheet []struct {
			Name string `xml:"name,attr"`
			RID  string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
		} `xml:"sheet"`
	} `xml:"sheets"`
}

type xmlRelationships struct {
	Relationship []struct {
		ID     string `xml:"Id,attr"`
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// resolveParts locates the first worksheet, the shared-string table and the
// style table through the workbook relationships, falling back to the
// conventional paths when a relationship is absent.
func (d *Document) resolveParts() error {
	d.sharedPath = "xl/sharedStrings.xml"
	d.stylesPath = "xl/styles.xml"

	var rels xmlRelationships
	relTargets := make(map[string]string)
	if _, ok := d.part("xl/_rels/workbook.xml.rels"); ok {
		if err := d.decodePart("xl/_rels/workbook.xml.rels", &rels); err != nil {
			return err
		}
		for _, rel := range rels.Relationship {
			target := rel.Target
			if strings.HasPrefix(target, "/") {
				target = target[1:]
			} else {
				target = path.Join("xl", target)
			}
			relTargets[rel.ID] = target
			switch strings.ToLower(path.Base(rel.Type)) {
			case "styles":
				d.stylesPath = target
			case "sharedstrings":
				d.sharedPath = target
			}
		}
	}

	var wb xmlWorkbook
	if err := d.decodePart("xl/workbook.xml", &wb); err != nil {
		return err
	}
	if len(wb.Sheets.Sheet) == 0 {
		return fmt.Errorf("%w: workbook has no sheets", ErrBadDocument)
	}
	// Always the first sheet in workbook order.
	first := wb.Sheets.Sheet[0]
	if target, ok := relTargets[first.RID]; ok {
		d.sheetPath = target
	} else {
		d.sheetPath = "xl/worksheets/sheet1.xml"
	}
	if _, ok := d.part(d.sheetPath); !ok {
		return fmt.Errorf("%w: missing worksheet part %s", ErrBadDocument, d.sheetPath)
	}
	return nil
}

/* =========================================================
 *  Shared strings (lazy) and styles
 * ========================================================= */

type xmlSharedStrings struct {
	SI []xmlRichText `xml:"si"`
}

// xmlRichText covers both plain (<t>) and rich (<r><t>) string items; the
// same shape serves shared-string entries and inline cell strings.
type xmlRichText struct {
	T string `xml:"t"`
	R []struct {
		T string `xml:"t"`
	} `xml:"r"`
}

func (s *xmlRichText) text() string {
	if len(s.R) == 0 {
		return s.T
	}
	var b strings.Builder
	b.WriteString(s.T)
	for _, run := range s.R {
		b.WriteString(run.T)
	}
	return b.String()
}

// sharedString resolves an index into the shared-string table, loading the
// table on first use. A document without the table only fails here, when a
// cell actually requires it.
func (d *Document) sharedString(idx int) (string, error) {
	if !d.sharedLoaded {
		if _, ok := d.part(d.sharedPath); !ok {
			return "", ErrMissingSharedStrings
		}
		var sst xmlSharedStrings
		if err := d.decodePart(d.sharedPath, &sst); err != nil {
			return "", err
		}
		d.shared = make([]string, len(sst.SI))
		for i := range sst.SI {
			d.shared[i] = sst.SI[i].text()
		}
		d.sharedLoaded = true
	}
	if idx < 0 || idx >= len(d.shared) {
		return "", fmt.Errorf("%w: shared string index %d out of range", ErrBadDocument, idx)
	}
	return d.shared[idx], nil
}

type xmlStyleSheet struct {
	CellXfs struct {
		Xf []struct {
			NumFmtID int `xml:"numFmtId,attr"`
		} `xml:"xf"`
	} `xml:"cellXfs"`
}

// readStyles loads the cell-format to number-format-id table. A missing style
// part is not an error; cells simply carry no usable style then.
func (d *Document) readStyles() error {
	if _, ok := d.part(d.stylesPath); !ok {
		return nil
	}
	var styles xmlStyleSheet
	if err := d.decodePart(d.stylesPath, &styles); err != nil {
		return err
	}
	d.styleNumFmt = make([]int, len(styles.CellXfs.Xf))
	for i, xf := range styles.CellXfs.Xf {
		d.styleNumFmt[i] = xf.NumFmtID
	}
	return nil
}

// numFmtID maps a cell style index to its number-format id.
func (d *Document) numFmtID(styleIdx int) (int, bool) {
	if styleIdx < 0 || styleIdx >= len(d.styleNumFmt) {
		return 0, false
	}
	return d.styleNumFmt[styleIdx], true
}

/* =========================================================
 *  Row cursor (forward-only pull over the worksheet XML)
 * ========================================================= */

type xmlRow struct {
	R int       `xml:"r,attr"`
	C []xmlCell `xml:"c"`
}

type xmlCell struct {
	R  string       `xml:"r,attr"`
	T  string       `xml:"t,attr"`
	S  *int         `xml:"s,attr"`
	V  string       `xml:"v"`
	IS *xmlRichText `xml:"is"`
}

// rawRow is one worksheet row as stored: its native 1-based row number and
// the cells that are physically present. Constructed per row and consumed
// immediately; never retained.
type rawRow struct {
	Num   int
	Cells []xmlCell
}

// rowCursor decodes worksheet rows one element at a time so that only the
// current row is ever held in memory. It can be walked forward exactly once.
type rowCursor struct {
	rc   io.ReadCloser
	dec  *xml.Decoder
	row  rawRow
	num  int
	err  error
	done bool
}

// rows opens a cursor over the first worksheet's row sequence.
func (d *Document) rows() (*rowCursor, error) {
	rc, err := d.openPart(d.sheetPath)
	if err != nil {
		return nil, err
	}
	return &rowCursor{rc: rc, dec: xml.NewDecoder(rc)}, nil
}

// next advances to the next row element. It returns false on exhaustion or
// error; the error, if any, is left in c.err.
func (c *rowCursor) next() bool {
	if c.done {
		return false
	}
	for {
		tok, err := c.dec.Token()
		if err == io.EOF {
			c.close()
			return false
		}
		if err != nil {
			c.err = fmt.Errorf("%w: %v", ErrBadDocument, err)
			c.close()
			return false
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "row" {
			continue
		}
		var row xmlRow
		if err := c.dec.DecodeElement(&row, &start); err != nil {
			c.err = fmt.Errorf("%w: decode row: %v", ErrBadDocument, err)
			c.close()
			return false
		}
		c.num++
		if row.R > 0 {
			c.num = row.R
		}
		c.row = rawRow{Num: c.num, Cells: row.C}
		return true
	}
}

func (c *rowCursor) close() {
	if c.done {
		return
	}
	c.done = true
	if c.rc != nil {
		_ = c.rc.Close()
	}
}
