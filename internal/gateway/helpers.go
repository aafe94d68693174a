package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// parseDocument decodes an extended-JSON document. An empty string yields an
// empty document, so optional filter arguments can be omitted.
func parseDocument(arg string) (bson.D, error) {
	if arg == "" {
		return bson.D{}, nil
	}
	var doc bson.D
	if err := bson.UnmarshalExtJSON([]byte(arg), true, &doc); err != nil {
		return nil, fmt.Errorf("invalid document JSON: %w", err)
	}
	return doc, nil
}

// parsePipeline decodes an extended-JSON array of aggregation stages. The
// driver's extended-JSON decoder wants a document at the top level, so the
// array is wrapped before decoding.
func parsePipeline(arg string) (mongo.Pipeline, error) {
	if arg == "" {
		return mongo.Pipeline{}, nil
	}
	var wrapper struct {
		Pipeline mongo.Pipeline `bson:"pipeline"`
	}
	wrapped := append(append([]byte(`{"pipeline":`), arg...), '}')
	if err := bson.UnmarshalExtJSON(wrapped, true, &wrapper); err != nil {
		return nil, fmt.Errorf("invalid pipeline JSON: %w", err)
	}
	return wrapper.Pipeline, nil
}

// parseDocumentList decodes an extended-JSON array of documents into the
// []interface{} shape the driver's insert API takes.
func parseDocumentList(arg string) ([]interface{}, error) {
	var wrapper struct {
		Docs []bson.D `bson:"docs"`
	}
	wrapped := append(append([]byte(`{"docs":`), arg...), '}')
	if err := bson.UnmarshalExtJSON(wrapped, true, &wrapper); err != nil {
		return nil, fmt.Errorf("invalid documents JSON: %w", err)
	}
	if len(wrapper.Docs) == 0 {
		return nil, fmt.Errorf("documents must be a non-empty JSON array")
	}
	docs := make([]interface{}, len(wrapper.Docs))
	for i, d := range wrapper.Docs {
		docs[i] = d
	}
	return docs, nil
}

// formatDoc renders a BSON value as relaxed extended JSON.
func formatDoc(v interface{}) (json.RawMessage, error) {
	data, err := bson.MarshalExtJSON(v, false, false)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return json.RawMessage(data), nil
}

// drainCursor exhausts a cursor and renders each document as relaxed
// extended JSON.
func drainCursor(ctx context.Context, cur *mongo.Cursor) ([]json.RawMessage, error) {
	defer func() { _ = cur.Close(ctx) }()

	var raws []bson.Raw
	if err := cur.All(ctx, &raws); err != nil {
		return nil, err
	}

	docs := make([]json.RawMessage, 0, len(raws))
	for _, raw := range raws {
		doc, err := formatDoc(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
