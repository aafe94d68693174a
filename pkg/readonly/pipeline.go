package readonly

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// blockedStages are the aggregation stages that write to a collection.
var blockedStages = map[string]struct{}{
	"$out":   {},
	"$merge": {},
}

// ValidatePipeline scans the top-level stage names of an aggregation
// pipeline in order and returns a *Violation naming the first stage found in
// the blocked set ($out, $merge).
//
// Only top-level stage names are inspected; sub-pipelines nested inside
// stages such as $lookup are not scanned. Callers relying on deeper
// guarantees must validate those separately.
//
// Accepted pipeline shapes are the ones the driver accepts: mongo.Pipeline,
// []bson.D, []bson.M, bson.A and []interface{}. Anything else is rejected
// with an error, since a pipeline that cannot be inspected cannot be proven
// safe.
func ValidatePipeline(pipeline interface{}) error {
	stages, err := pipelineStages(pipeline)
	if err != nil {
		return err
	}

	for _, stage := range stages {
		names, err := stageNames(stage)
		if err != nil {
			return err
		}
		for _, name := range names {
			if _, blocked := blockedStages[name]; blocked {
				return &Violation{Stage: name}
			}
		}
	}
	return nil
}

func pipelineStages(pipeline interface{}) ([]interface{}, error) {
	switch p := pipeline.(type) {
	case nil:
		return nil, nil
	case mongo.Pipeline:
		stages := make([]interface{}, len(p))
		for i, s := range p {
			stages[i] = s
		}
		return stages, nil
	case []bson.D:
		stages := make([]interface{}, len(p))
		for i, s := range p {
			stages[i] = s
		}
		return stages, nil
	case []bson.M:
		stages := make([]interface{}, len(p))
		for i, s := range p {
			stages[i] = s
		}
		return stages, nil
	case bson.A:
		return []interface{}(p), nil
	case []interface{}:
		return p, nil
	default:
		return nil, fmt.Errorf("cannot inspect aggregation pipeline of type %T", pipeline)
	}
}

func stageNames(stage interface{}) ([]string, error) {
	switch s := stage.(type) {
	case bson.D:
		names := make([]string, 0, len(s))
		for _, elem := range s {
			names = append(names, elem.Key)
		}
		return names, nil
	case bson.M:
		names := make([]string, 0, len(s))
		for name := range s {
			names = append(names, name)
		}
		return names, nil
	case map[string]interface{}:
		names := make([]string, 0, len(s))
		for name := range s {
			names = append(names, name)
		}
		return names, nil
	default:
		return nil, fmt.Errorf("cannot inspect aggregation stage of type %T", stage)
	}
}
