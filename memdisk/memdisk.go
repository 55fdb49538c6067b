// Package memdisk implements an in-memory reference Disk for the sfs
// package's Disk contract. It is test tooling and a convenience for
// in-process experimentation, grounded on the same bytesextra-backed
// ReadWriteSeeker pattern the upstream driver pack uses for its disk image
// fixtures.
package memdisk

import (
	"fmt"

	"github.com/xaionaro-go/bytesextra"
)

// BlockSize matches sfs.BlockSize; it's duplicated here (rather than
// importing the sfs package) so memdisk has zero dependency on the file
// system logic it's meant to stand in for.
const BlockSize = 4096

// Disk is an in-memory implementation of the Disk contract consumed by the
// sfs package: a fixed-size array of BlockSize-byte blocks with a mount
// reservation flag.
type Disk struct {
	stream  *bytesextra.ReadWriteSeeker
	data    []byte
	blocks  uint32
	mounted bool
}

// New allocates a fresh, zero-filled Disk of the given number of blocks.
func New(blocks uint32) *Disk {
	data := make([]byte, int(blocks)*BlockSize)
	return &Disk{
		stream: bytesextra.NewReadWriteSeeker(data),
		data:   data,
		blocks: blocks,
	}
}

// NewFromImage wraps a pre-existing byte slice -- e.g. loaded from a file or
// a test fixture -- whose length must be an exact multiple of BlockSize.
func NewFromImage(image []byte) (*Disk, error) {
	if len(image)%BlockSize != 0 {
		return nil, fmt.Errorf(
			"memdisk: image length %d is not a multiple of the block size (%d)",
			len(image), BlockSize)
	}
	return &Disk{
		stream: bytesextra.NewReadWriteSeeker(image),
		data:   image,
		blocks: uint32(len(image) / BlockSize),
	}, nil
}

// Size returns the total number of blocks on the device.
func (d *Disk) Size() uint32 {
	return d.blocks
}

// Mounted reports whether Mount has been called without a matching Unmount.
func (d *Disk) Mounted() bool {
	return d.mounted
}

// Mount marks the device as mounted.
func (d *Disk) Mount() {
	d.mounted = true
}

// Unmount clears the mount reservation.
func (d *Disk) Unmount() {
	d.mounted = false
}

func (d *Disk) checkBounds(block uint32, bufLen int) {
	if block >= d.blocks {
		panic(fmt.Sprintf("memdisk: block %d out of range [0, %d)", block, d.blocks))
	}
	if bufLen != BlockSize {
		panic(fmt.Sprintf("memdisk: buffer length %d != block size %d", bufLen, BlockSize))
	}
}

// Read copies the contents of the given block into buf, which must be
// exactly BlockSize bytes. Panics on an out-of-range block or a
// wrongly-sized buffer.
func (d *Disk) Read(block uint32, buf []byte) {
	d.checkBounds(block, len(buf))
	offset := int64(block) * BlockSize
	if _, err := d.stream.Seek(offset, 0); err != nil {
		panic(fmt.Sprintf("memdisk: seek to block %d: %v", block, err))
	}
	if _, err := d.stream.Read(buf); err != nil {
		panic(fmt.Sprintf("memdisk: read block %d: %v", block, err))
	}
}

// Write copies buf, which must be exactly BlockSize bytes, into the given
// block. Panics on an out-of-range block or a wrongly-sized buffer.
func (d *Disk) Write(block uint32, buf []byte) {
	d.checkBounds(block, len(buf))
	offset := int64(block) * BlockSize
	if _, err := d.stream.Seek(offset, 0); err != nil {
		panic(fmt.Sprintf("memdisk: seek to block %d: %v", block, err))
	}
	if _, err := d.stream.Write(buf); err != nil {
		panic(fmt.Sprintf("memdisk: write block %d: %v", block, err))
	}
}

// Bytes returns the raw backing storage. Mutating the returned slice mutates
// the disk; it's intended for test assertions and for persisting an image
// to a file.
func (d *Disk) Bytes() []byte {
	return d.data
}
