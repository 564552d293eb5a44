package xlsxstream

// builtInDateFormats lists the classic built-in number-format IDs that make a
// numeric cell display as a date or time. The values are the display patterns
// associated with each ID; only membership matters here, since date-styled
// cells are always rendered with sortableTimeLayout.
var builtInDateFormats = map[int]string{
	14: "dd/MM/yyyy",
	15: "d-MMM-yy",
	16: "d-MMM",
	17: "MMM-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "h:mm",
	21: "h:mm:ss",
	22: "M/d/yy h:mm",
	30: "M/d/yy",
	34: "yyyy-MM-dd",
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mmss.0",
	51: "MM-dd",
	52: "yyyy-MM-dd",
	53: "yyyy-MM-dd",
	55: "yyyy-MM-dd",
	56: "yyyy-MM-dd",
	58: "MM-dd",

	165: "M/d/yy",
	166: "dd MMMM yyyy",
	167: "dd/MM/yyyy",
	168: "dd/MM/yy",
	169: "d.M.yy",
	170: "yyyy-MM-dd",
	171: "dd MMMM yyyy",
	172: "d MMMM yyyy",
	173: "M/d",
	174: "M/d/yy",
	175: "MM/dd/yy",
	176: "d-MMM",
	177: "d-MMM-yy",
	178: "dd-MMM-yy",
	179: "MMM-yy",
	180: "MMMM-yy",
	181: "MMMM d, yyyy",
	182: "M/d/yy hh:mm t",
	183: "M/d/y HH:mm",
	184: "MMM",
	185: "MMM-dd",
	186: "M/d/yyyy",
	187: "d-MMM-yyyy",
}

// sortableTimeLayout is the output layout for date-styled cells: an ISO-8601
// style sortable timestamp with offset.
const sortableTimeLayout = "2006-01-02 15:04:05Z07:00"

// isDateFormatID reports whether a number-format ID is one of the built-in
// date/time display formats.
func isDateFormatID(id int) bool {
	_, ok := builtInDateFormats[id]
	return ok
}
