package service

import "time"

// NowFunc supplies the current time. Injected so expiry checks are
// deterministic in tests.
type NowFunc func() time.Time
