package internal

import (
	"bytes"
	"sync"
)

// BufferPool holds scratch buffers used to encode and decode recording frames.
var BufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 256))
	},
}
