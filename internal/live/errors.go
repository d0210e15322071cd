package live

import "errors"

// ErrSessionClosed is returned by sends after Close.
var ErrSessionClosed = errors.New("live: session closed")
