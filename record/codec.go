// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package record

import (
	"encoding/binary"
	"fmt"

	"github.com/blinklabs-io/slick/address"
)

// encoder builds a serialized record. Writes never fail; the buffer grows
// as needed and callers size the initial capacity from the entity ceiling.
type encoder struct {
	buf []byte
}

func newEncoder(kind Kind, capacity int) *encoder {
	e := &encoder{buf: make([]byte, 0, capacity)}
	disc := kind.Discriminator()
	e.buf = append(e.buf, disc[:]...)
	return e
}

func (e *encoder) bytes() []byte {
	return e.buf
}

func (e *encoder) putU8(val uint8) {
	e.buf = append(e.buf, val)
}

func (e *encoder) putU32(val uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, val)
}

func (e *encoder) putU64(val uint64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, val)
}

func (e *encoder) putI64(val int64) {
	e.putU64(uint64(val))
}

func (e *encoder) putBool(val bool) {
	if val {
		e.putU8(1)
	} else {
		e.putU8(0)
	}
}

func (e *encoder) putAddress(addr address.Address) {
	e.buf = append(e.buf, addr[:]...)
}

func (e *encoder) putHash(hash [ContentHashSize]byte) {
	e.buf = append(e.buf, hash[:]...)
}

func (e *encoder) putString(s string) {
	e.putU32(uint32(len(s)))
	e.buf = append(e.buf, s...)
}

// decoder reads a serialized record sequentially. The first decode error
// sticks; finish reports it and rejects trailing bytes.
type decoder struct {
	buf []byte
	off int
	err error
}

func newDecoder(buf []byte) *decoder {
	return &decoder{buf: buf}
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if d.off+n > len(d.buf) {
		d.err = fmt.Errorf(
			"%w: truncated at offset %d",
			ErrCorruptRecord,
			d.off,
		)
		return nil
	}
	ret := d.buf[d.off : d.off+n]
	d.off += n
	return ret
}

func (d *decoder) u8() uint8 {
	data := d.take(1)
	if data == nil {
		return 0
	}
	return data[0]
}

func (d *decoder) u32() uint32 {
	data := d.take(4)
	if data == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(data)
}

func (d *decoder) u64() uint64 {
	data := d.take(8)
	if data == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(data)
}

func (d *decoder) i64() int64 {
	return int64(d.u64())
}

func (d *decoder) bool() bool {
	switch d.u8() {
	case 0:
		return false
	case 1:
		return true
	default:
		if d.err == nil {
			d.err = fmt.Errorf(
				"%w: invalid bool at offset %d",
				ErrCorruptRecord,
				d.off-1,
			)
		}
		return false
	}
}

func (d *decoder) address() address.Address {
	data := d.take(address.Size)
	if data == nil {
		return address.Zero
	}
	var ret address.Address
	copy(ret[:], data)
	return ret
}

func (d *decoder) hash() [ContentHashSize]byte {
	var ret [ContentHashSize]byte
	data := d.take(ContentHashSize)
	if data == nil {
		return ret
	}
	copy(ret[:], data)
	return ret
}

func (d *decoder) string(maxLen int) string {
	strLen := d.u32()
	if d.err != nil {
		return ""
	}
	if int(strLen) > maxLen {
		d.err = fmt.Errorf(
			"%w: string length %d exceeds ceiling %d",
			ErrCorruptRecord,
			strLen,
			maxLen,
		)
		return ""
	}
	data := d.take(int(strLen))
	if data == nil {
		return ""
	}
	return string(data)
}

func (d *decoder) finish() error {
	if d.err != nil {
		return d.err
	}
	if d.off != len(d.buf) {
		return fmt.Errorf(
			"%w: %d trailing bytes",
			ErrCorruptRecord,
			len(d.buf)-d.off,
		)
	}
	return nil
}
