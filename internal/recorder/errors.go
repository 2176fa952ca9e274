package recorder

import "errors"

// ErrBadRecord is returned for transcript lines that cannot be decoded.
var ErrBadRecord = errors.New("bad record")
