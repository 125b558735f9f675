package kittyimg

import (
	"encoding/base64"
	"sync"
)

const (
	// CHUNK_SIZE is the protocol's upper bound on base64 characters per escape sequence
	CHUNK_SIZE = 4096
	// BASE64_CHUNK_SIZE is the number of raw bytes that encode to exactly CHUNK_SIZE characters
	BASE64_CHUNK_SIZE = 3 * CHUNK_SIZE / 4
)

// Base64 encoder pool to reuse encoding buffers
var base64EncoderPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, CHUNK_SIZE)
		return &buf
	},
}

// Base64Encode provides standard base64 encoding with buffer reuse
func Base64Encode(src []byte) string {
	bufPtr := base64EncoderPool.Get().(*[]byte)
	defer base64EncoderPool.Put(bufPtr)

	encodedLen := base64.StdEncoding.EncodedLen(len(src))
	if cap(*bufPtr) < encodedLen {
		*bufPtr = make([]byte, encodedLen)
	} else {
		*bufPtr = (*bufPtr)[:encodedLen]
	}

	base64.StdEncoding.Encode(*bufPtr, src)

	// string() copies, so the buffer can go back to the pool
	return string(*bufPtr)
}

// ChunkedBase64Encode encodes data in pieces of chunkSize raw bytes. When
// chunkSize is a multiple of 3 the pieces concatenate to the base64 of data.
func ChunkedBase64Encode(data []byte, chunkSize int) []string {
	if chunkSize <= 0 {
		chunkSize = BASE64_CHUNK_SIZE
	}
	numChunks := (len(data) + chunkSize - 1) / chunkSize
	results := make([]string, 0, numChunks)

	for i := 0; i < len(data); i += chunkSize {
		end := min(i+chunkSize, len(data))
		results = append(results, Base64Encode(data[i:end]))
	}

	return results
}
