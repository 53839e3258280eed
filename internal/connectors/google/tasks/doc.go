// Package tasks implements the remote task client over the Google Tasks API.
// Task lists map to categories; tasks keep their API field names.
package tasks
