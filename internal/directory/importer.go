package directory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"therapist-discovery-backend/internal/logger"
)

var (
	// ErrSourceNotFound is returned when the upload CSV does not exist.
	ErrSourceNotFound = errors.New("import source not found")
	// ErrSourceUnreadable is returned on row-level read errors (bad
	// quoting, encoding problems). The destination is left untouched.
	ErrSourceUnreadable = errors.New("import source unreadable")
)

// Report sums up one import run.
type Report struct {
	Accepted int
	// 1-indexed data rows dropped for missing required fields
	Skipped []int
}

// Import streams the upload CSV and replaces the directory file with
// the accepted records in one write. Columns are matched by header
// name, not position. Rows without a name or specialization are
// skipped and reported; they never abort the run.
func (d *Directory) Import(srcPath string) (Report, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Report{}, fmt.Errorf("%w: %s", ErrSourceNotFound, filepath.Base(srcPath))
		}
		return Report{}, err
	}
	defer src.Close()

	r := csv.NewReader(src)
	// short rows only mean empty trailing fields, like a spreadsheet export
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil && err != io.EOF {
		return Report{}, fmt.Errorf("%w: %v", ErrSourceUnreadable, err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rep Report
	therapists := []Therapist{}
	for rowNum := 1; ; rowNum++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Report{}, fmt.Errorf("%w: row %d: %v", ErrSourceUnreadable, rowNum, err)
		}

		t := Therapist{
			ID:             len(therapists) + 1,
			Name:           field(row, "name"),
			Specialization: field(row, "specialization"),
			Fee:            parseFee(field(row, "fee")),
			Ratings:        parseRatings(field(row, "ratings")),
			Languages:      field(row, "languages"),
			City:           field(row, "city"),
			Pincode:        field(row, "pincode"),
			Disorder:       field(row, "disorder"),
			Whatsapp:       field(row, "whatsapp"),
		}

		if t.Name == "" || t.Specialization == "" {
			logger.Warning("Skipping row", rowNum, "due to missing required fields")
			rep.Skipped = append(rep.Skipped, rowNum)
			continue
		}
		therapists = append(therapists, t)
	}

	release, err := d.file.Acquire()
	if err != nil {
		return Report{}, err
	}
	defer release()

	if err := d.file.Rewrite(therapists); err != nil {
		return Report{}, err
	}
	rep.Accepted = len(therapists)
	return rep, nil
}

// Validate re-reads the directory file and reports records missing the
// fields the frontend searches on. Diagnostic only, never mutates.
func (d *Directory) Validate() ([]string, error) {
	list, err := d.List()
	if err != nil {
		return nil, err
	}

	var issues []string
	for _, t := range list {
		var missing []string
		if t.Name == "" {
			missing = append(missing, "name")
		}
		if t.Specialization == "" {
			missing = append(missing, "specialization")
		}
		if t.City == "" {
			missing = append(missing, "city")
		}
		if len(missing) > 0 {
			name := t.Name
			if name == "" {
				name = "Unknown"
			}
			issues = append(issues, fmt.Sprintf("therapist %q missing: %s", name, strings.Join(missing, ", ")))
		}
	}
	return issues, nil
}

// parseFee accepts whole non-negative numbers only, everything else is 0.
func parseFee(s string) int {
	if s == "" {
		return 0
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parseRatings(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
