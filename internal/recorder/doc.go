// Package recorder writes events to a JSON-lines transcript and replays
// transcripts onto a bus.
//
// Each line is one JSON object:
//
//	{"type":"MouseMoved","id":"…","source":"capture","ts":"2026-10-14T09:30:00.123456789Z","handled":false,"x":"2.2","y":"3.3"}
//
// Float fields are JSON strings holding the shortest decimal that
// round-trips through float32, so NaN and ±Inf are preserved. Integer
// fields (code, width, height) are JSON numbers and repeat is a boolean.
//
// The transcript is an explicit encoding and is independent of the
// events' diagnostic String form.
package recorder
