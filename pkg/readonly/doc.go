// Package readonly provides read-only enforcement for MongoDB database and
// collection handles.
//
// It defines narrow Database and Collection interfaces covering the
// operations the gateway actually calls, with two implementations each: a
// direct passthrough over the driver handle and a policy decorator that
// rejects write operations and unsafe aggregation stages before they reach
// the server. Any collection obtained through a read-only database handle is
// itself read-only.
package readonly
