package people

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/campushq/eventdesk/models"
	"github.com/campushq/eventdesk/services"
)

// Spreadsheet header labels the import recognizes, matched
// case-insensitively on the first row of the first sheet.
const (
	headerFirstName  = "FIRST NAME"
	headerMiddleName = "MIDDLENAME"
	headerSurname    = "SURNAME"
	headerDepartment = "DEPARTMENT"
	headerGender     = "GENDER"
	headerClass      = "CLASS"
	headerLiving     = "LIVING"
)

// RowError records why a single spreadsheet row was skipped.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportReport summarizes a bulk import run. Failed rows never abort
// the run.
type ImportReport struct {
	Total     int        `json:"total"`
	Created   int        `json:"created"`
	Updated   int        `json:"updated"`
	Failed    int        `json:"failed"`
	RowErrors []RowError `json:"rowErrors,omitempty"`
}

// Import reads an xlsx/xlsm workbook and upserts each row into the
// roster. Existing people are matched on firstName+surname and only
// their non-empty incoming fields are merged.
func (s *PersonService) Import(ctx context.Context, r io.Reader) (*ImportReport, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, services.ErrInvalidInput.Wrap(fmt.Errorf("failed to open workbook: %w", err))
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, services.ErrInvalidInput.WithDetail("reason", "workbook has no sheets")
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, services.ErrMissingHeader
	}

	columns, err := mapHeaders(rows[0])
	if err != nil {
		return nil, err
	}

	report := &ImportReport{}
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header row
		person := rowToPerson(row, columns)
		if person.FirstName == "" && person.Surname == "" {
			continue // blank row
		}
		report.Total++

		if person.FirstName == "" || person.Surname == "" {
			report.Failed++
			report.RowErrors = append(report.RowErrors, RowError{
				Row:    rowNum,
				Reason: "missing first name or surname",
			})
			continue
		}

		created, err := s.upsert(ctx, person)
		if err != nil {
			s.logger.Warn("import row failed",
				zap.Int("row", rowNum),
				zap.String("name", person.FullName()),
				zap.Error(err))
			report.Failed++
			report.RowErrors = append(report.RowErrors, RowError{
				Row:    rowNum,
				Reason: err.Error(),
			})
			continue
		}
		if created {
			report.Created++
		} else {
			report.Updated++
		}
	}

	s.logger.Info("roster import finished",
		zap.Int("total", report.Total),
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("failed", report.Failed))
	return report, nil
}

// upsert creates the person, or merges the non-empty incoming fields
// into the existing record matched on firstName+surname. Returns true
// when a new record was created.
func (s *PersonService) upsert(ctx context.Context, person *models.Person) (bool, error) {
	existing, err := s.personRepo.FindByName(ctx, person.FirstName, person.Surname)
	if err != nil {
		if services.IsNotFoundError(err) {
			if _, err := s.personRepo.Create(ctx, person); err != nil {
				return false, err
			}
			return true, nil
		}
		return false, err
	}

	fields := map[string]interface{}{}
	if person.MiddleName != "" {
		fields["middleName"] = person.MiddleName
	}
	if person.Department != "" {
		fields["department"] = person.Department
	}
	if person.Gender != "" {
		fields["gender"] = person.Gender
	}
	if person.Class != "" {
		fields["class"] = person.Class
	}
	if person.Living != "" {
		fields["living"] = person.Living
	}
	if len(fields) == 0 {
		return false, nil
	}
	if err := s.personRepo.Merge(ctx, existing.ID, fields); err != nil {
		return false, err
	}
	return false, nil
}

// mapHeaders resolves the column index of each recognized header. The
// name columns are required; the rest are optional.
func mapHeaders(header []string) (map[string]int, error) {
	columns := map[string]int{}
	for i, cell := range header {
		label := strings.ToUpper(strings.TrimSpace(cell))
		switch label {
		case headerFirstName, headerMiddleName, headerSurname,
			headerDepartment, headerGender, headerClass, headerLiving:
			columns[label] = i
		}
	}
	if _, ok := columns[headerFirstName]; !ok {
		return nil, services.ErrMissingHeader.WithDetail("header", headerFirstName)
	}
	if _, ok := columns[headerSurname]; !ok {
		return nil, services.ErrMissingHeader.WithDetail("header", headerSurname)
	}
	return columns, nil
}

func rowToPerson(row []string, columns map[string]int) *models.Person {
	cell := func(label string) string {
		idx, ok := columns[label]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	return &models.Person{
		FirstName:  cell(headerFirstName),
		MiddleName: cell(headerMiddleName),
		Surname:    cell(headerSurname),
		Department: cell(headerDepartment),
		Gender:     cell(headerGender),
		Class:      cell(headerClass),
		Living:     models.NormalizeLiving(cell(headerLiving)),
	}
}
