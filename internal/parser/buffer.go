package parser

// Buffer accumulates model output for a single stream. It is not safe for
// concurrent use; each stream owns its own Buffer.
type Buffer struct {
	data []byte
}

// Append adds fragment to the end of the buffer.
func (b *Buffer) Append(fragment string) {
	b.data = append(b.data, fragment...)
}

// ConsumePrefix drops the first n bytes. Values past the end empty the buffer.
func (b *Buffer) ConsumePrefix(n int) {
	if n <= 0 {
		return
	}
	if n >= len(b.data) {
		b.data = b.data[:0]
		return
	}
	b.data = append(b.data[:0], b.data[n:]...)
}

// Bytes exposes the buffered content. The slice is only valid until the next
// Append or ConsumePrefix.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// String returns a copy of the buffered content.
func (b *Buffer) String() string {
	return string(b.data)
}

// Reset empties the buffer and keeps its capacity.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
}
