package xlsxstream

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// resolveCell returns the canonical string value of a physically present
// cell. Resolution order: shared-string reference, inline string, date-styled
// serial number, raw inner text. Returns an error only for structural
// problems (bad shared-string reference, missing shared-string table).
func (d *Document) resolveCell(c *xmlCell) (string, error) {
	switch c.T {
	case "s":
		idx, err := strconv.Atoi(strings.TrimSpace(c.V))
		if err != nil {
			return "", fmt.Errorf("%w: shared string reference %q in cell %s", ErrBadDocument, c.V, c.R)
		}
		text, err := d.sharedString(idx)
		if err != nil {
			return "", err
		}
		return text, nil
	case "inlineStr":
		if c.IS == nil {
			return "", nil
		}
		return c.IS.text(), nil
	}

	// A numeric cell styled with a built-in date format holds a serial date.
	if c.S != nil {
		if id, ok := d.numFmtID(*c.S); ok && isDateFormatID(id) {
			if serial, err := strconv.ParseFloat(strings.TrimSpace(c.V), 64); err == nil && serial > 0 {
				return serialToTime(serial).Format(sortableTimeLayout), nil
			}
		}
	}

	// Raw inner text, verbatim. Trimming is a mapper concern.
	return c.V, nil
}

// serialToTime converts a spreadsheet serial date (1900 date system) to a UTC
// timestamp. Day 0 is 1899-12-30, matching the conventional handling of the
// 1900 leap-year bug.
func serialToTime(serial float64) time.Time {
	const secondsInDay = 24 * 60 * 60

	days := int64(serial)
	frac := serial - float64(days)

	base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	t := base.AddDate(0, 0, int(days))

	sec := int64(frac*secondsInDay + 0.5)
	return t.Add(time.Duration(sec) * time.Second)
}
