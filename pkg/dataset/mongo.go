package dataset

import (
	"context"
	"fmt"

	"github.com/grexie/planet/pkg/labels"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DecodeRecord validates one label document.
func DecodeRecord(raw bson.Raw, idField, tagsField string) (labels.Record, error) {
	var d bson.M
	if err := bson.Unmarshal(raw, &d); err != nil {
		return labels.Record{}, fmt.Errorf("unable to decode bson label document: %w", err)
	}
	return labels.RecordFromFields(d, idField, tagsField)
}

// LoadRecords reads every label document of c in insertion (_id) order.
func LoadRecords(ctx context.Context, c *mongo.Collection, idField, tagsField string) ([]labels.Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{idField: 1, tagsField: 1})

	cur, err := c.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("unable to query %s: %w", c.Name(), err)
	}
	defer cur.Close(ctx)

	records := []labels.Record{}
	for cur.Next(ctx) {
		record, err := DecodeRecord(cur.Current, idField, tagsField)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
