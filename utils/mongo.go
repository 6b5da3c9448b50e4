package utils

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// FindAndDecode runs a Find and decodes every document into a slice of T.
func FindAndDecode[T any](ctx context.Context, coll *mongo.Collection, filter any) ([]T, error) {
	cursor, err := coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []T
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
