package capture

import "errors"

// ErrClosed is returned by Source.Run when the user closes the session.
var ErrClosed = errors.New("capture: window closed")
