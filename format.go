package sfs

import (
	"encoding/binary"
	"log"

	"github.com/noxer/bytewriter"
)

// Format writes a fresh superblock to block 0 and zeroes every remaining
// block. It refuses a Disk that reports itself as already mounted and
// preserves no prior content otherwise, matching spec.md §4.1.
func Format(disk Disk) bool {
	if disk.Mounted() {
		log.Printf("sfs: format refused: %v", errAlreadyMounted)
		return false
	}

	blocks := disk.Size()
	sb := SuperBlock{
		Magic:       MagicNumber,
		Blocks:      blocks,
		InodeBlocks: inodeBlocksFor(blocks),
		Inodes:      inodeBlocksFor(blocks) * InodesPerBlock,
	}

	// The superblock is built in a scratch buffer via a bytewriter so the
	// four little-endian fields and the zero padding that follows them are
	// written through a single io.Writer before the block is handed to the
	// Disk.
	superBuf := make([]byte, BlockSize)
	w := bytewriter.New(superBuf)
	binary.Write(w, binary.LittleEndian, sb.Magic)
	binary.Write(w, binary.LittleEndian, sb.Blocks)
	binary.Write(w, binary.LittleEndian, sb.InodeBlocks)
	binary.Write(w, binary.LittleEndian, sb.Inodes)
	disk.Write(0, superBuf)

	empty := make([]byte, BlockSize)
	for i := uint32(1); i < blocks; i++ {
		disk.Write(i, empty)
	}
	return true
}
