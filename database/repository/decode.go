package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// DecodeError reports a stored document that does not fit its model.
type DecodeError struct {
	Collection string
	ID         string
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s/%s: %v", e.Collection, e.ID, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeAll decodes every document of cursor into T, one at a time, so a
// malformed document is reported by id instead of failing the whole batch
// with an anonymous error.
func DecodeAll[T any](ctx context.Context, cursor *mongo.Cursor, collection string) ([]T, error) {
	defer cursor.Close(ctx)

	out := []T{}
	for cursor.Next(ctx) {
		var v T
		if err := cursor.Decode(&v); err != nil {
			return nil, &DecodeError{Collection: collection, ID: rawID(cursor.Current), Err: err}
		}
		out = append(out, v)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error on %s: %w", collection, err)
	}
	return out, nil
}

// DecodeOne decodes a single result, passing mongo.ErrNoDocuments through.
func DecodeOne[T any](res *mongo.SingleResult, collection string) (*T, error) {
	raw, err := res.Raw()
	if err != nil {
		return nil, err
	}
	var v T
	if err := bson.Unmarshal(raw, &v); err != nil {
		return nil, &DecodeError{Collection: collection, ID: rawID(raw), Err: err}
	}
	return &v, nil
}

func rawID(raw bson.Raw) string {
	if raw == nil {
		return "?"
	}
	if v, err := raw.LookupErr("id"); err == nil {
		if s, ok := v.StringValueOK(); ok {
			return s
		}
	}
	return "?"
}
