package retry_config

import (
	"github.com/avast/retry-go"
	"time"
)

// RetryOptions are applied to idempotent calls to the Octopus API
var RetryOptions = []retry.Option{
	retry.Attempts(3),
	retry.Delay(500 * time.Millisecond),
	retry.MaxDelay(3 * time.Second),
	retry.LastErrorOnly(true),
}

