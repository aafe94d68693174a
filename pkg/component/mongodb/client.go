package mongodb

import (
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
)

// ClientOptions translates Options into driver client options for the given
// connection URI. Callers may attach monitors or override settings on the
// returned value before dialing.
func ClientOptions(opts *Options, uri string) *mongoopts.ClientOptions {
	if opts == nil {
		opts = NewOptions()
	}

	clientOpts := mongoopts.Client().ApplyURI(uri)

	// Connection pool settings
	if opts.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(opts.MaxPoolSize)
	}
	if opts.MinPoolSize > 0 {
		clientOpts.SetMinPoolSize(opts.MinPoolSize)
	}
	if opts.MaxConnIdleTime > 0 {
		clientOpts.SetMaxConnIdleTime(opts.MaxConnIdleTime)
	}

	// Timeout settings
	if opts.ConnectTimeout > 0 {
		clientOpts.SetConnectTimeout(opts.ConnectTimeout)
	}
	if opts.SocketTimeout > 0 {
		clientOpts.SetSocketTimeout(opts.SocketTimeout)
	}
	if opts.ServerSelectionTimeout > 0 {
		clientOpts.SetServerSelectionTimeout(opts.ServerSelectionTimeout)
	}

	if opts.Direct {
		clientOpts.SetDirect(opts.Direct)
	}

	return clientOpts
}
