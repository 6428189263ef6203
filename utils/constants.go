package utils

import "time"

// DefaultDraftTTL is the fallback draft session lifetime when none is
// configured.
const DefaultDraftTTL = 30 * time.Minute
