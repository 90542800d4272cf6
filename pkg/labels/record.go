package labels

import (
	"fmt"
	"strings"

	"github.com/grexie/planet/pkg/errs"
)

// Record is one row of the label table: an image name and its space separated tags.
type Record struct {
	Identifier string `bson:"image_name" json:"image_name"`
	Tags       string `bson:"tags" json:"tags"`
}

// RecordFromFields builds a Record from an untyped row, as decoded from CSV, BSON or JSON.
func RecordFromFields(fields map[string]any, idField, tagsField string) (Record, error) {
	id, ok := fields[idField]
	if !ok || id == nil {
		return Record{}, fmt.Errorf("%w: missing %s", errs.ErrInvalidInputKind, idField)
	}
	identifier, ok := id.(string)
	if !ok {
		return Record{}, fmt.Errorf("%w: %s is %T, not a string", errs.ErrInvalidInputKind, idField, id)
	}

	var tags string
	switch v := fields[tagsField].(type) {
	case string:
		tags = v
	case nil:
		return Record{}, fmt.Errorf("%w: record %s has no %s", errs.ErrInvalidInputKind, identifier, tagsField)
	default:
		return Record{}, fmt.Errorf("%w: record %s has %s of type %T", errs.ErrInvalidInputKind, identifier, tagsField, v)
	}

	return Record{Identifier: identifier, Tags: tags}, nil
}

// Tokenize splits a tag string on single spaces. Empty tokens produced by leading, trailing or
// repeated separators are dropped, so "" has no tokens.
func Tokenize(tags string) []string {
	parts := strings.Split(tags, " ")
	tokens := parts[:0]
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}
