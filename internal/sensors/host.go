package sensors

import (
	"fmt"
	"sync"

	"periph.io/x/host/v3"
)

var (
	hostOnce    sync.Once
	hostInitErr error
)

// initHost initializes the periph host exactly once, shared by every driver
// in this package.
func initHost() error {
	hostOnce.Do(func() {
		if _, err := host.Init(); err != nil {
			hostInitErr = fmt.Errorf("periph host init: %w", err)
		}
	})
	return hostInitErr
}
