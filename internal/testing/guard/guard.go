package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("INVENTOX_TEST_MODE") == "" {
			_ = os.Setenv("INVENTOX_TEST_MODE", "1")
		}
	})
}
