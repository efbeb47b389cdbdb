package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"tracker/internal/core"
)

// CSVDestination writes expenses to a local CSV file. The zero value
// writes into the current directory.
type CSVDestination struct {
	Dir string

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

var _ Destination = (*CSVDestination)(nil)

// Export writes all expenses to a timestamped file and returns its path.
func (d *CSVDestination) Export(ctx context.Context, userID int64, expenses []core.Expense) (string, error) {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	name := fmt.Sprintf("expenses_user_%d_%s.csv", userID, now().Format("20060102_150405"))
	path := filepath.Join(d.Dir, name)
	if err := d.WriteFile(path, expenses); err != nil {
		return "", err
	}
	return path, nil
}

// WriteFile writes the expenses to an explicit path.
func (d *CSVDestination) WriteFile(path string, expenses []core.Expense) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}

	if err := Write(f, expenses); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close csv file: %w", err)
	}
	return nil
}

// Write emits the header row followed by one record per expense.
func Write(w io.Writer, expenses []core.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range expenses {
		if err := cw.Write(Record(e)); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
