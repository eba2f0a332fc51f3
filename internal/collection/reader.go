package collection

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("acqdate", validateAcquisitionDate)
}

func validateAcquisitionDate(fl validator.FieldLevel) bool {
	_, err := ParseDate(fl.Field().String())
	return err == nil
}

// row holds the cells that must be valid for a Record to be built.
// year_created is free text in many catalogues ("c. 1906", "1890-1895")
// and is checked separately so it never drops a row.
type row struct {
	AcquisitionDate string `validate:"omitempty,acqdate"`
}

func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open collection: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a collection CSV. Rows that cannot be turned into a Record
// are reported in Table.Skipped, kept rows with unusable optional cells in
// Table.Warnings; only a bad header or an I/O error fails.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrMissingArtistColumn
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		header[i] = strings.TrimPrefix(h, "\ufeff")
		key := normalizeColumn(h)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	if _, ok := index[ColArtistName]; !ok {
		return nil, ErrMissingArtistColumn
	}

	t := &Table{Header: header}
	for {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				t.Skipped = append(t.Skipped, RowError{Line: perr.Line, Err: perr.Err})
				continue
			}
			return nil, fmt.Errorf("read collection: %w", err)
		}

		line, _ := cr.FieldPos(0)
		if len(cells) != len(header) {
			t.Skipped = append(t.Skipped, RowError{
				Line: line,
				Err:  fmt.Errorf("expected %d columns, got %d", len(header), len(cells)),
			})
			continue
		}

		rec, warn, err := parseRecord(header, index, cells)
		if err != nil {
			t.Skipped = append(t.Skipped, RowError{Line: line, Err: err})
			continue
		}
		if warn != nil {
			t.Warnings = append(t.Warnings, RowError{Line: line, Err: warn})
		}
		rec.Line = line
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

// parseRecord returns a non-nil warn for a kept record whose optional
// cells could not be parsed.
func parseRecord(header []string, index map[string]int, cells []string) (rec Record, warn error, err error) {
	get := func(col string) string {
		if i, ok := index[col]; ok {
			return strings.TrimSpace(cells[i])
		}
		return ""
	}

	in := row{AcquisitionDate: get(ColAcquisitionDate)}
	if err := validate.Struct(in); err != nil {
		return Record{}, nil, describe(err)
	}

	rec = Record{
		ArtworkID:  get(ColArtworkID),
		Title:      get(ColTitle),
		ArtistName: get(ColArtistName),
		Department: get(ColDepartment),
		Medium:     get(ColMedium),
		raw:        cells,
	}
	if year := get(ColYearCreated); year != "" {
		n, convErr := strconv.Atoi(year)
		if convErr != nil {
			warn = fmt.Errorf("%s %q is not a year; left empty", ColYearCreated, year)
		} else {
			rec.YearCreated = n
		}
	}
	if in.AcquisitionDate != "" {
		rec.AcquisitionDate, _ = ParseDate(in.AcquisitionDate)
	}

	for i, h := range header {
		switch normalizeColumn(h) {
		case ColArtworkID, ColTitle, ColArtistName, ColYearCreated,
			ColAcquisitionDate, ColDepartment, ColMedium:
			continue
		}
		rec.Extra = append(rec.Extra, Field{Name: h, Value: cells[i]})
	}
	return rec, warn, nil
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Field() {
	case "AcquisitionDate":
		return fmt.Errorf("%s %q is not a date", ColAcquisitionDate, fe.Value())
	}
	return err
}
