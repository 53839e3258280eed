// Package env overlays YPSYNC_* environment variables on the settings read
// from the configuration file.
//
// Variables are parsed with caarlos0/env and merged with mergo, so only the
// variables that are set take effect:
//
//	YPSYNC_GOOGLE_TOKEN_FILE=/run/secrets/token.json
//	YPSYNC_RECONCILE_DELETION_POLICY=archive
//	YPSYNC_SCHEDULER_RECONCILE_INTERVAL=5m
package env
