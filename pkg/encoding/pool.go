package encoding

import (
	"bytes"
	"encoding/json"
	"sync"
)

// maxPooledBufferSize keeps outlier payloads from pinning memory in the pool
const maxPooledBufferSize = 64 * 1024

// BufferPool pools bytes.Buffer for JSON encoding of provider payloads
var BufferPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

// GetBuffer retrieves an empty bytes.Buffer from the pool
func GetBuffer() *bytes.Buffer {
	buf := BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns a bytes.Buffer to the pool
func PutBuffer(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBufferSize {
		return
	}
	buf.Reset()
	BufferPool.Put(buf)
}

// EncodeJSON encodes v using a pooled buffer. HTML characters are not escaped and
// the trailing newline written by json.Encoder is dropped.
func EncodeJSON(v interface{}) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}

	// Copy out, the buffer goes back to the pool.
	data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	result := make([]byte, len(data))
	copy(result, data)
	return result, nil
}

// EncodeJSONString is EncodeJSON returning a string
func EncodeJSONString(v interface{}) (string, error) {
	data, err := EncodeJSON(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
