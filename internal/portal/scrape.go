package portal

import (
	"bytes"
	"strings"

	"gradebot/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

// parseGrades extracts course, grade and semester from the first three
// cells of every data row in the grades table
func parseGrades(body []byte, tableSelector string) (domain.GradeReport, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return domain.GradeReport{}, &domain.ParseError{Page: "results", Err: err}
	}

	table := doc.Find(tableSelector).First()
	if table.Length() == 0 {
		return domain.NewGradeReport(false, nil), nil
	}

	var records []domain.GradeRecord
	ownRows(table).Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td")
		// header and spacer rows
		if cells.Length() == 0 {
			return
		}

		records = append(records, domain.GradeRecord{
			Course:   cellText(cells, 0),
			Grade:    cellText(cells, 1),
			Semester: cellText(cells, 2),
		})
	})

	return domain.NewGradeReport(true, records), nil
}

// ownRows returns the rows of table itself, skipping rows of tables nested in its cells
func ownRows(table *goquery.Selection) *goquery.Selection {
	return table.ChildrenFiltered("tr").
		AddSelection(table.ChildrenFiltered("thead, tbody, tfoot").ChildrenFiltered("tr"))
}

// cellText is the trimmed text of a cell without the text of nested tables
func cellText(cells *goquery.Selection, i int) string {
	cell := cells.Eq(i).Clone()
	cell.Find("table").Remove()
	return strings.TrimSpace(cell.Text())
}
