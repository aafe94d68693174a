package readonly

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestValidatePipeline(t *testing.T) {
	tests := []struct {
		name      string
		pipeline  interface{}
		wantStage string
	}{
		{
			name:     "empty pipeline",
			pipeline: mongo.Pipeline{},
		},
		{
			name:     "nil pipeline",
			pipeline: nil,
		},
		{
			name: "read-only stages pass",
			pipeline: mongo.Pipeline{
				{{Key: "$match", Value: bson.D{{Key: "a", Value: 1}}}},
				{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$a"}}}},
			},
		},
		{
			name: "$out rejected",
			pipeline: mongo.Pipeline{
				{{Key: "$match", Value: bson.D{{Key: "a", Value: 1}}}},
				{{Key: "$out", Value: "x"}},
			},
			wantStage: "$out",
		},
		{
			name: "$merge rejected",
			pipeline: mongo.Pipeline{
				{{Key: "$merge", Value: bson.D{{Key: "into", Value: "x"}}}},
			},
			wantStage: "$merge",
		},
		{
			name: "bson.A shape",
			pipeline: bson.A{
				bson.D{{Key: "$match", Value: bson.D{}}},
				bson.D{{Key: "$out", Value: "x"}},
			},
			wantStage: "$out",
		},
		{
			name: "bson.M stages",
			pipeline: []bson.M{
				{"$match": bson.M{"a": 1}},
				{"$merge": bson.M{"into": "x"}},
			},
			wantStage: "$merge",
		},
		{
			name: "nested $out inside $lookup is not scanned",
			pipeline: mongo.Pipeline{
				{{Key: "$lookup", Value: bson.D{
					{Key: "from", Value: "other"},
					{Key: "pipeline", Value: bson.A{
						bson.D{{Key: "$out", Value: "x"}},
					}},
					{Key: "as", Value: "joined"},
				}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePipeline(tt.pipeline)
			if tt.wantStage == "" {
				if err != nil {
					t.Fatalf("ValidatePipeline returned %v, want nil", err)
				}
				return
			}

			var v *Violation
			if !errors.As(err, &v) {
				t.Fatalf("ValidatePipeline returned %v, want *Violation", err)
			}
			if v.Stage != tt.wantStage {
				t.Errorf("violation names stage %q, want %q", v.Stage, tt.wantStage)
			}
		})
	}
}

func TestValidatePipelineUninspectable(t *testing.T) {
	if err := ValidatePipeline(42); err == nil {
		t.Error("expected error for uninspectable pipeline type")
	}
	if err := ValidatePipeline([]interface{}{"not a stage"}); err == nil {
		t.Error("expected error for uninspectable stage type")
	}
}

func TestViolationError(t *testing.T) {
	opErr := &Violation{Op: "insertOne"}
	if got := opErr.Error(); got != `read-only mode: operation "insertOne" is not allowed` {
		t.Errorf("unexpected message: %s", got)
	}

	stageErr := &Violation{Stage: "$out"}
	if got := stageErr.Error(); got != `read-only mode: aggregation stage "$out" is not allowed` {
		t.Errorf("unexpected message: %s", got)
	}

	if !errors.Is(opErr, ErrViolation) {
		t.Error("errors.Is should match ErrViolation")
	}
	if !IsViolation(stageErr) {
		t.Error("IsViolation should be true for a Violation")
	}
	if IsViolation(errors.New("boom")) {
		t.Error("IsViolation should be false for other errors")
	}
}
