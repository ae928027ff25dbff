package domain

// GradeRecord is a single row of the portal's grades table
type GradeRecord struct {
	Course   string
	Grade    string
	Semester string
}

// ReportStatus tells how a scrape of the grades page ended
type ReportStatus int

const (
	// ReportRecords means the table was found and had data rows
	ReportRecords ReportStatus = iota
	// ReportEmpty means the table was found but had no data rows
	ReportEmpty
	// ReportNoTable means the grades table was not in the page at all
	ReportNoTable
)

func (s ReportStatus) String() string {
	switch s {
	case ReportEmpty:
		return "empty"
	case ReportNoTable:
		return "no_table"
	default:
		return "ok"
	}
}

// GradeReport is the tagged result of a grades fetch
type GradeReport struct {
	Status  ReportStatus
	Records []GradeRecord
}

// NewGradeReport picks the status from what the scraper saw
func NewGradeReport(tableFound bool, records []GradeRecord) GradeReport {
	if records == nil {
		records = []GradeRecord{}
	}
	switch {
	case !tableFound:
		return GradeReport{Status: ReportNoTable, Records: records}
	case len(records) == 0:
		return GradeReport{Status: ReportEmpty, Records: records}
	default:
		return GradeReport{Status: ReportRecords, Records: records}
	}
}
