package gateway

import "time"

// timeNow stamps journal records for rejections that never reached the
// broker and so carry no server time. Swappable in tests.
var timeNow = func() time.Time { return time.Now().UTC() }
