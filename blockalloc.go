package sfs

import "github.com/boljen/go-bitmap"

// blockAllocator is a linear first-fit allocator over the free-block bitmap,
// restricted to the data region of the device (excluding the superblock and
// the inode-block region). It is the Go-native replacement for the
// out-parameter mutation described in spec.md §9: instead of threading a
// `&blocknum` reference through allocate_block, it returns the allocated
// block number and an ok bool, and the caller decides which pointer slot
// (direct, indirect, or an entry inside the indirect block) to store it in.
type blockAllocator struct {
	bits        bitmap.Bitmap
	totalBlocks uint32
	dataStart   uint32 // first block number eligible for allocation
}

func newBlockAllocator(bits bitmap.Bitmap, totalBlocks, inodeBlocks uint32) *blockAllocator {
	return &blockAllocator{
		bits:        bits,
		totalBlocks: totalBlocks,
		dataStart:   inodeBlocks + 1,
	}
}

// allocate finds the first free block at or after dataStart, marks it
// in-use, and returns it. It reports false if no block is free (ENOSPC).
func (a *blockAllocator) allocate() (uint32, bool) {
	for i := a.dataStart; i < a.totalBlocks; i++ {
		if !a.bits.Get(int(i)) {
			a.bits.Set(int(i), true)
			return i, true
		}
	}
	return 0, false
}

// allocateIfZero implements the lazy, idempotent allocation behavior used
// throughout the write path: if slot already names a block, it's a no-op
// success; otherwise a fresh block is allocated and written back through
// slot.
func (a *blockAllocator) allocateIfZero(slot *uint32) bool {
	if *slot != 0 {
		return true
	}
	block, ok := a.allocate()
	if !ok {
		return false
	}
	*slot = block
	return true
}

// free clears the bitmap bit for a block number, ignoring block 0 (the
// superblock) per the open question in spec.md §9.1: remove() must not
// clear bit 0 when it walks an inode's (possibly zero) direct pointers.
func (a *blockAllocator) free(block uint32) {
	if block == 0 {
		return
	}
	a.bits.Set(int(block), false)
}

// markInUse unconditionally sets a bit, matching the idempotent bitmap write
// create() performs for its own inode block (spec.md §9.4).
func (a *blockAllocator) markInUse(block uint32) {
	a.bits.Set(int(block), true)
}

func (a *blockAllocator) isInUse(block uint32) bool {
	return a.bits.Get(int(block))
}
