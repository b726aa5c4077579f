package store

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"time"
)

// CSVFile is an append-only CSV file with a fixed column order.
type CSVFile struct {
	path    string
	columns []string
	lock    *flock
}

func NewCSVFile(path string, columns []string, timeout time.Duration) *CSVFile {
	return &CSVFile{path: path, columns: append([]string{}, columns...), lock: newFlock(timeout)}
}

func (f *CSVFile) Path() string {
	return f.path
}

// Append writes one row in column order, preceded by the header row
// when the file did not exist yet. Prior rows are never touched.
func (f *CSVFile) Append(record map[string]string) error {
	if err := f.lock.acquire(); err != nil {
		return err
	}
	defer f.lock.release()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}

	_, statErr := os.Stat(f.path)
	writeHeader := os.IsNotExist(statErr)

	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if writeHeader {
		if err := w.Write(f.columns); err != nil {
			return err
		}
	}

	row := make([]string, len(f.columns))
	for i, col := range f.columns {
		row[i] = record[col]
	}
	if err := w.Write(row); err != nil {
		return err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return file.Sync()
}
