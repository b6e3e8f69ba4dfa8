// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package gc

import (
	"bytes"
	"io"

	"github.com/valyala/bytebufferpool"
)

// Buffer is a reusable byte buffer.
// It abstracts the [bytebufferpool.ByteBuffer] type to avoid direct dependencies.
type Buffer interface {
	io.Writer
	io.WriterTo
	io.ReaderFrom
	WriteString(s string) (int, error)
	WriteByte(c byte) error
	Bytes() []byte
	String() string
	Len() int
	Reset()
}

// Pool hands out buffers for reuse.
// It abstracts the [bytebufferpool.Pool] type to avoid direct dependencies.
//
// Pool implementations must be safe for concurrent use by multiple goroutines.
type Pool interface {
	Get() Buffer
	Put(b Buffer)
}

// pool wraps [bytebufferpool.Pool] to implement Pool interface.
type pool struct{ p *bytebufferpool.Pool }

// Get returns a buffer from the pool.
func (p *pool) Get() Buffer { return p.p.Get() }

// Put returns a buffer to the pool. Buffers that did not come from a
// [bytebufferpool.Pool] are dropped.
func (p *pool) Put(b Buffer) {
	if buf, ok := b.(*bytebufferpool.ByteBuffer); ok {
		p.p.Put(buf)
	}
}

// Default is the process-wide buffer pool. Certificate and key files are read
// through it and rendered tables are staged in it:
//
//	buf := gc.Default.Get()
//	defer func() {
//		buf.Reset()
//		gc.Default.Put(buf)
//	}()
//
//	if _, err := buf.ReadFrom(file); err != nil {
//		return err
//	}
//	cert, err := codec.Decode(buf.Bytes())
var Default Pool = &pool{p: &bytebufferpool.Pool{}}

// ReadAll reads r to EOF through a pooled buffer and returns a copy of the
// contents that stays valid after the buffer is recycled.
func ReadAll(p Pool, r io.Reader) ([]byte, error) {
	buf := p.Get()
	defer func() {
		buf.Reset()
		p.Put(buf)
	}()

	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}
