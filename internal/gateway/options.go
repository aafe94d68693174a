package gateway

import (
	"github.com/spf13/pflag"

	"github.com/kart-io/mongo-gateway/pkg/component/mongodb"
	logopts "github.com/kart-io/mongo-gateway/pkg/options/logger"
)

// ServerOptions aggregates all configuration for the gateway process.
type ServerOptions struct {
	MongoDB *mongodb.Options `json:"mongodb" mapstructure:"mongodb"`
	Log     *logopts.Options `json:"log" mapstructure:"log"`

	// ConnectOnStartup dials the configured target during startup instead
	// of waiting for the first connect tool call. Startup still succeeds
	// when the dial fails; the failure is surfaced via connection-info.
	ConnectOnStartup bool `json:"connect-on-startup" mapstructure:"connect-on-startup"`
}

// NewServerOptions creates ServerOptions with defaults.
func NewServerOptions() *ServerOptions {
	o := &ServerOptions{
		MongoDB: mongodb.NewOptions(),
		Log:     logopts.NewOptions(),
	}
	// Stdout carries the MCP JSON-RPC stream; logs must stay off it.
	o.Log.OutputPaths = []string{"stderr"}
	return o
}

// AddFlags adds all gateway flags to the flagset.
func (o *ServerOptions) AddFlags(fs *pflag.FlagSet) {
	o.MongoDB.AddFlags(fs, "mongodb.")
	o.Log.AddFlags(fs)
	fs.BoolVar(&o.ConnectOnStartup, "connect-on-startup", o.ConnectOnStartup, "Connect to MongoDB during startup instead of on the first connect call")
}

// Complete completes the options with defaults.
func (o *ServerOptions) Complete() error {
	if err := o.MongoDB.Complete(); err != nil {
		return err
	}
	return o.Log.Complete()
}

// Validate validates all options.
func (o *ServerOptions) Validate() error {
	if err := o.MongoDB.Validate(); err != nil {
		return err
	}
	return o.Log.Validate()
}
