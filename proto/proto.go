// Frame Codec
//
// Copyright (c) 2024, 2025  The go-awale authors
//
// This file is part of go-awale.
//
// go-awale is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License,
// version 3, as published by the Free Software Foundation.
//
// go-awale is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public
// License, version 3, along with go-awale. If not, see
// <http://www.gnu.org/licenses/>

package proto

import (
	"encoding/binary"
	"fmt"
	"io"

	"go-awale"
)

// Every message crosses the wire as one fixed-size record: a 4-byte
// little-endian kind code, a 32-byte NUL-terminated username and a
// 1024-byte NUL-terminated payload.  Client and server must agree on
// the record size; there are no partial-message semantics.
const (
	kindLen = 4
	nameLen = awale.MaxNameLen + 1
	dataLen = awale.MaxDataLen + 1

	FrameLen = kindLen + nameLen + dataLen
)

// Encode transmits MSG as a single frame, looping until the full
// record has been written or the connection fails
func Encode(w io.Writer, msg *awale.Message) error {
	var frame [FrameLen]byte

	binary.LittleEndian.PutUint32(frame[:kindLen], uint32(msg.Kind))
	putField(frame[kindLen:kindLen+nameLen], msg.Username)
	putField(frame[kindLen+nameLen:], msg.Data)

	for buf := frame[:]; len(buf) > 0; {
		n, err := w.Write(buf)
		if err != nil {
			return err
		}
		buf = buf[n:]
	}
	return nil
}

// Decode reads one full frame into MSG.  Any failure, including a
// short read because the peer closed, is reported as an error; the
// caller treats every error as a disconnect.
func Decode(r io.Reader, msg *awale.Message) error {
	var frame [FrameLen]byte

	if _, err := io.ReadFull(r, frame[:]); err != nil {
		return err
	}

	kind := awale.Kind(binary.LittleEndian.Uint32(frame[:kindLen]))
	if !kind.Valid() {
		return fmt.Errorf("invalid message kind %d", uint32(kind))
	}

	msg.Kind = kind
	msg.Username = field(frame[kindLen : kindLen+nameLen])
	msg.Data = field(frame[kindLen+nameLen:])
	return nil
}

// putField copies S into DST, truncating if necessary and always
// leaving room for the terminator
func putField(dst []byte, s string) {
	if len(s) > len(dst)-1 {
		s = s[:len(dst)-1]
	}
	copy(dst, s)
}

// field extracts the string up to the first NUL
func field(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
