package handler

import (
	"bytes"
	"sync"
)

const maxPooledBuffer = 64 << 10

// bufferPool reuses JSON encoding buffers across responses
var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

// putBuffer resets buf before returning it. Large buffers from oversized
// leaderboard pages are dropped so the pool does not pin them.
func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBuffer {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}
