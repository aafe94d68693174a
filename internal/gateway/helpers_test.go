package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParseDocument(t *testing.T) {
	doc, err := parseDocument(`{"name": "john", "age": 42}`)
	require.NoError(t, err)
	require.Len(t, doc, 2)
	assert.Equal(t, "name", doc[0].Key)
	assert.Equal(t, "john", doc[0].Value)

	// Extended JSON types survive parsing.
	doc, err = parseDocument(`{"_id": {"$oid": "507f1f77bcf86cd799439011"}}`)
	require.NoError(t, err)
	require.Len(t, doc, 1)

	// Empty argument means an empty document.
	doc, err = parseDocument("")
	require.NoError(t, err)
	assert.Empty(t, doc)

	_, err = parseDocument(`{"unterminated": `)
	assert.Error(t, err)

	_, err = parseDocument(`[1, 2]`)
	assert.Error(t, err)
}

func TestParsePipeline(t *testing.T) {
	pipeline, err := parsePipeline(`[{"$match": {"status": "active"}}, {"$limit": 5}]`)
	require.NoError(t, err)
	require.Len(t, pipeline, 2)
	assert.Equal(t, "$match", pipeline[0][0].Key)
	assert.Equal(t, "$limit", pipeline[1][0].Key)

	pipeline, err = parsePipeline("")
	require.NoError(t, err)
	assert.Empty(t, pipeline)

	_, err = parsePipeline(`{"$match": {}}`)
	assert.Error(t, err, "a single stage document is not a pipeline")

	_, err = parsePipeline(`[{"$match": `)
	assert.Error(t, err)
}

func TestParseDocumentList(t *testing.T) {
	docs, err := parseDocumentList(`[{"a": 1}, {"b": 2}]`)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	_, err = parseDocumentList(`[]`)
	assert.Error(t, err, "empty array has nothing to insert")

	_, err = parseDocumentList(`{"a": 1}`)
	assert.Error(t, err)
}

func TestFormatDoc(t *testing.T) {
	out, err := formatDoc(bson.D{{Key: "n", Value: int32(3)}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"n": 3}`, string(out))
}
