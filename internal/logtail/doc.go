// Package logtail reads the end of the application log for the activity
// view.
//
// # Reading
//
// Read keeps a ring buffer of maxLines entries while scanning the file once,
// so memory stays proportional to the lines requested rather than the file
// size. Lines come back oldest first. A missing log file is not an error:
// logging may be disabled or nothing has been written yet.
//
// # Parsing
//
// Records are the JSON objects written by package logging. Parse pulls out
// the timestamp, level, logger name and message and renders every other
// field as key=value in key order:
//
//	{"level":"info","ts":"2026-03-01T12:30:00.000Z","logger":"catalog","msg":"product added","id":"42"}
//
// becomes an Entry with Level "info", Logger "catalog", Message
// "product added" and Fields ["id=42"]. Caller and stack traces are dropped.
// Anything that does not decode is kept verbatim in Message.
package logtail
