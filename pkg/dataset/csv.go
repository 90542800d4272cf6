package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/grexie/planet/pkg/errs"
	"github.com/grexie/planet/pkg/labels"
)

func columnIndex(header []string, names ...string) ([]int, error) {
	out := make([]int, len(names))
	for i, name := range names {
		out[i] = -1
		for j, h := range header {
			if h == name {
				out[i] = j
				break
			}
		}
		if out[i] < 0 {
			return nil, fmt.Errorf("%w: column %q not found in header %v", errs.ErrInvalidArgument, name, header)
		}
	}
	return out, nil
}

// ReadRecordsCSV reads a label table with a header row. Columns other than idColumn and
// tagsColumn are ignored; row order is preserved.
func ReadRecordsCSV(r io.Reader, idColumn, tagsColumn string) ([]labels.Record, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty label table", errs.ErrInvalidArgument)
	} else if err != nil {
		return nil, err
	}

	idx, err := columnIndex(header, idColumn, tagsColumn)
	if err != nil {
		return nil, err
	}

	records := []labels.Record{}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}

		if row[idx[0]] == "" {
			return nil, fmt.Errorf("%w: line %d has no %s", errs.ErrInvalidInputKind, line, idColumn)
		}
		records = append(records, labels.Record{Identifier: row[idx[0]], Tags: row[idx[1]]})
	}

	return records, nil
}

// ReadScoresCSV reads model scores: an id column plus one column per vocabulary label. The
// returned rows follow vocabulary order whatever the column order in the file.
func ReadScoresCSV(r io.Reader, idColumn string, v *labels.Vocabulary) ([]string, [][]float64, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%w: empty score table", errs.ErrInvalidArgument)
	} else if err != nil {
		return nil, nil, err
	}

	idx, err := columnIndex(header, append([]string{idColumn}, v.Labels()...)...)
	if err != nil {
		return nil, nil, err
	}

	ids := []string{}
	scores := [][]float64{}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, nil, err
		}

		id := row[idx[0]]
		if id == "" {
			return nil, nil, fmt.Errorf("%w: line %d has no %s", errs.ErrInvalidInputKind, line, idColumn)
		}

		values := make([]float64, v.Len())
		for i, col := range idx[1:] {
			if f, err := strconv.ParseFloat(row[col], 64); err != nil {
				return nil, nil, fmt.Errorf("%w: line %d %s: %q is not a number", errs.ErrInvalidInputKind, line, header[col], row[col])
			} else {
				values[i] = f
			}
		}

		ids = append(ids, id)
		scores = append(scores, values)
	}

	return ids, scores, nil
}

// WriteSubmissionCSV writes predictions back as a label table of identifiers and tag strings.
func WriteSubmissionCSV(w io.Writer, idColumn, tagsColumn string, v *labels.Vocabulary, ids []string, predictions [][]bool) error {
	if len(ids) != len(predictions) {
		return fmt.Errorf("%w: %d ids but %d predictions", errs.ErrInvalidArgument, len(ids), len(predictions))
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{idColumn, tagsColumn}); err != nil {
		return err
	}
	for i, id := range ids {
		tags, err := v.TagString(predictions[i])
		if err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
		if err := writer.Write([]string{id, tags}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
