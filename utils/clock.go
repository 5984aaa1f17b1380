package utils

import "time"

// Now is the clock used for sweeping, check-in stamps and token expiry.
// Tests override it to control time.
var Now = time.Now
