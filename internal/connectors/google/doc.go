// Package google provides shared infrastructure for the Google Tasks client.
//
// It contains:
//   - service factory for the Tasks API
//   - a token source that persists refreshed oauth2 tokens to disk
//   - mapping of googleapi errors (401, 404, 429) to domain errors
//   - rate limiting to respect the API quota
//
// # Usage
//
//	cfg, err := google.LoadOAuthConfig("credentials.json")
//	ts, err := google.NewFileTokenSource(ctx, cfg, "token.json")
//	svc, err := google.NewTasksService(ctx, ts)
//
// The token file is provisioned out of band; a missing token is reported
// as domain.ErrAuthRequired.
package google
