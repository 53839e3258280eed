// Package file stores settings in a TOML file, by default
// ~/.ypsync/config.toml, and reloads it on change with fsnotify.
package file
