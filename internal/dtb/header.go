// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// header.go - The 8-byte DTB header: magic followed by the declared total size.
//
// Both fields are big-endian on disk. Nothing past the size field is read;
// the structure block, strings block and checksums are never interpreted.

package dtb

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// Magic is the value every DTB starts with (bytes D0 0D FE ED on disk).
	Magic uint32 = 0xd00dfeed

	// HeaderSize is the number of bytes read from the front of a file:
	// 4 bytes of magic plus the 4-byte totalsize field.
	HeaderSize = 8
)

// Header holds the two fields this tool cares about.
type Header struct {
	Magic     uint32
	TotalSize uint32
}

// FormatError reports a file that does not begin with the DTB magic.
// Found holds the bytes actually read (fewer than 4 if the file was short).
type FormatError struct {
	Path  string
	Found []byte
}

func (e *FormatError) Error() string {
	name := e.Path
	if name == "" {
		name = "input"
	}
	if len(e.Found) < 4 {
		return fmt.Sprintf("invalid DTB %s: file too short for magic (found % X)", name, e.Found)
	}
	return fmt.Sprintf("invalid DTB %s: magic is % X, want D0 0D FE ED", name, e.Found)
}

// ReadHeader reads and validates the magic, then reads the declared size.
// A bad magic yields *FormatError; a short read after a good magic is
// reported as io.ErrUnexpectedEOF.
func ReadHeader(r io.Reader) (Header, error) {
	var buf [HeaderSize]byte

	n, err := io.ReadFull(r, buf[:4])
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, &FormatError{Found: append([]byte(nil), buf[:n]...)}
		}
		return Header{}, fmt.Errorf("failed to read magic: %w", err)
	}

	magic := binary.BigEndian.Uint32(buf[:4])
	if magic != Magic {
		return Header{}, &FormatError{Found: append([]byte(nil), buf[:4]...)}
	}

	if _, err := io.ReadFull(r, buf[4:8]); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return Header{}, fmt.Errorf("failed to read total size: %w", err)
	}

	return Header{
		Magic:     magic,
		TotalSize: binary.BigEndian.Uint32(buf[4:8]),
	}, nil
}

// Bytes encodes h in on-disk order.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	binary.BigEndian.PutUint32(b[0:4], h.Magic)
	binary.BigEndian.PutUint32(b[4:8], h.TotalSize)
	return b
}
