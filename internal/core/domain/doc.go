// Package domain holds the types every other package shares.
//
// Records carry typed scalar fields and are grouped into collections of one
// kind. A Snapshot is everything known about the remote service at one
// instant, and a Delta is the difference between two snapshots. Category and
// task records are the local mirror that deltas are applied to.
//
// Only the standard library may be imported here.
package domain
