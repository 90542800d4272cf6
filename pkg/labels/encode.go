package labels

import (
	"fmt"
	"slices"
	"strings"

	"github.com/grexie/planet/pkg/errs"
)

// Policy decides what happens to a tag that is not in the vocabulary at encode time.
type Policy string

const (
	PolicyIgnore Policy = "ignore"
	PolicyReject Policy = "reject"
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyIgnore, PolicyReject:
		return p, nil
	case "":
		return PolicyIgnore, nil
	default:
		return "", fmt.Errorf("%w: unknown label policy %q", errs.ErrInvalidArgument, s)
	}
}

// Table maps an image identifier to its multi-hot label vector.
type Table map[string][]uint8

// Keys returns the identifiers in lexical order.
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

type Encoder struct {
	Vocabulary *Vocabulary
	Policy     Policy
}

func NewEncoder(vocabulary *Vocabulary, policy Policy) *Encoder {
	return &Encoder{Vocabulary: vocabulary, Policy: policy}
}

// Encode expands each record's tags into a vector with one position per vocabulary label.
// A later record with the same identifier replaces an earlier one.
func (e *Encoder) Encode(records []Record) (Table, error) {
	table := make(Table, len(records))
	for _, record := range records {
		vector, err := e.EncodeRecord(record)
		if err != nil {
			return nil, err
		}
		table[record.Identifier] = vector
	}
	return table, nil
}

func (e *Encoder) EncodeRecord(record Record) ([]uint8, error) {
	if record.Identifier == "" {
		return nil, fmt.Errorf("%w: record has no identifier", errs.ErrInvalidInputKind)
	}

	vector := make([]uint8, e.Vocabulary.Len())
	for _, label := range Tokenize(record.Tags) {
		if i, ok := e.Vocabulary.Index(label); ok {
			vector[i] = 1
		} else if e.Policy == PolicyReject {
			return nil, fmt.Errorf("%w: record %s has label %q outside the vocabulary", errs.ErrInvalidInputKind, record.Identifier, label)
		}
	}
	return vector, nil
}

// Encode builds the table for records against vocabulary, ignoring unknown labels.
func Encode(records []Record, vocabulary *Vocabulary) (Table, error) {
	return NewEncoder(vocabulary, PolicyIgnore).Encode(records)
}
