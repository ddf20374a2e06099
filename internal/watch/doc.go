// Package watch reloads route files when they change on disk.
//
// Watcher observes the directory holding a file through fsnotify, so
// editors that replace the file on save are handled, and fires its callback
// once per burst of events after a debounce delay. Reloader turns those
// callbacks into fresh route tables.
package watch
