package memory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"contas/internal/core"
)

var seedHeader = []string{"date", "description", "amount", "type", "paid"}

// NewFromFile returns a store pre-filled with the entries listed in a CSV
// seed file. A missing file yields an empty store.
func NewFromFile(path string) (*Store, error) {
	s := New()
	if path == "" {
		return s, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	entries, err := ReadSeed(f)
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}
	for _, e := range entries {
		if _, err := s.Save(e); err != nil {
			return nil, fmt.Errorf("seed entry %q: %w", e.Description, err)
		}
	}
	return s, nil
}

// ReadSeed parses seed rows of the form
//
//	date,description,amount,type,paid
//	2024-03-01,Rent,1200.00,EXPENSE,true
//
// The header row is optional. Lines starting with # are skipped.
func ReadSeed(r io.Reader) ([]core.Entry, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = len(seedHeader)
	cr.TrimLeadingSpace = true

	var out []core.Entry
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if len(out) == 0 && isHeader(rec) {
			continue
		}
		e, err := parseSeedRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, e)
	}
}

func isHeader(rec []string) bool {
	for i, h := range seedHeader {
		if !strings.EqualFold(strings.TrimSpace(rec[i]), h) {
			return false
		}
	}
	return true
}

func parseSeedRecord(rec []string) (core.Entry, error) {
	date, err := core.ParseDate(rec[0])
	if err != nil {
		return core.Entry{}, err
	}
	amount, err := core.ParseAmount(rec[2])
	if err != nil {
		return core.Entry{}, fmt.Errorf("amount %q: %w", rec[2], err)
	}
	typ, err := core.ParseEntryType(rec[3])
	if err != nil {
		return core.Entry{}, err
	}
	paid, err := strconv.ParseBool(strings.TrimSpace(rec[4]))
	if err != nil {
		return core.Entry{}, fmt.Errorf("paid %q: must be true or false", rec[4])
	}
	e := core.Entry{
		Description: strings.TrimSpace(rec[1]),
		Date:        date,
		Amount:      amount,
		Type:        typ,
		Paid:        paid,
	}
	if err := e.Validate(); err != nil {
		return core.Entry{}, err
	}
	return e, nil
}
