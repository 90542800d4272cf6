package dataset

import (
	"math"

	"github.com/grexie/planet/pkg/labels"
)

// Split keeps record order and puts the trailing fraction of records in validation.
func Split(records []labels.Record, fraction float64) ([]labels.Record, []labels.Record) {
	countValidation := int(math.Round(float64(len(records)) * fraction))
	countTraining := max(0, min(len(records), len(records)-countValidation))
	return records[:countTraining], records[countTraining:]
}

// Identifiers lists the record identifiers in order, keeping only the last of any repeats.
func Identifiers(records []labels.Record) []string {
	last := make(map[string]int, len(records))
	for i, r := range records {
		last[r.Identifier] = i
	}
	ids := make([]string, 0, len(last))
	for i, r := range records {
		if last[r.Identifier] == i {
			ids = append(ids, r.Identifier)
		}
	}
	return ids
}
