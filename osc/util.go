package osc

import (
	"bytes"
	"sync"
)

////
// Utility and helper functions
////
var bufPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}
