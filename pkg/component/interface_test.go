package component_test

import (
	"testing"

	"github.com/spf13/pflag"

	"github.com/kart-io/mongo-gateway/pkg/component"
	"github.com/kart-io/mongo-gateway/pkg/component/mongodb"
)

// TestConfigOptionsInterface verifies that all component options
// implement the component.ConfigOptions interface.
func TestConfigOptionsInterface(t *testing.T) {
	tests := []struct {
		name   string
		option component.ConfigOptions
	}{
		{
			name:   "MongoDB Options",
			option: mongodb.NewOptions(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Test Complete method
			if err := tt.option.Complete(); err != nil {
				t.Errorf("Complete() error = %v", err)
			}

			// Test Validate method
			if err := tt.option.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}

			// Test AddFlags method
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			tt.option.AddFlags(fs, "mongodb.")

			// Verify that some flags were added by checking if FlagSet has flags
			flagCount := 0
			fs.VisitAll(func(_ *pflag.Flag) {
				flagCount++
			})
			if flagCount == 0 {
				t.Errorf("AddFlags() did not add any flags")
			}
		})
	}
}

// TestConfigOptionsComplete verifies that Complete() can be called
// multiple times without error.
func TestConfigOptionsComplete(t *testing.T) {
	opts := mongodb.NewOptions()

	// First call
	if err := opts.Complete(); err != nil {
		t.Fatalf("First Complete() failed: %v", err)
	}

	// Second call should also succeed
	if err := opts.Complete(); err != nil {
		t.Fatalf("Second Complete() failed: %v", err)
	}
}

// TestConfigOptionsAddFlags verifies that AddFlags() properly
// populates a FlagSet.
func TestConfigOptionsAddFlags(t *testing.T) {
	opts := mongodb.NewOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.AddFlags(fs, "mongodb.")

	if flag := fs.Lookup("mongodb.host"); flag == nil {
		t.Error("Expected flag \"mongodb.host\" not found")
	}
}
