package office

import "errors"

var ErrNotConfigured = errors.New("office location not configured")
