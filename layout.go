// Package sfs implements a Unix-v6-style inode file system over a
// block-addressable Disk. See the package's design notes for the on-disk
// layout; this file defines the byte-exact structures and the little-endian
// codecs used to move them to and from a 4096-byte block buffer.
package sfs

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Fixed disk geometry. These are constants of the file system, not of any
// particular disk image.
const (
	BlockSize        = 4096
	InodesPerBlock   = 128
	PointersPerInode = 5
	PointersPerBlock = 1024
	InodeSize        = 32 // bytes: 4 + 4 + 5*4 + 4

	// MagicNumber identifies a block 0 as an SFS superblock.
	MagicNumber uint32 = 0xf0f03410

	// MaxFileSize is the largest offset+length reachable through the direct
	// and single indirect pointer regions combined.
	MaxFileSize = (PointersPerInode + PointersPerBlock) * BlockSize
)

// SuperBlock is the decoded form of block 0.
type SuperBlock struct {
	Magic       uint32
	Blocks      uint32
	InodeBlocks uint32
	Inodes      uint32
}

// ceilDiv10 computes ceil(n/10) without floating point.
func ceilDiv10(n uint32) uint32 {
	return (n + 9) / 10
}

// inodeBlocksFor returns the number of inode blocks a device of the given
// size must reserve, per spec: inode_blocks = ceil(blocks / 10).
func inodeBlocksFor(blocks uint32) uint32 {
	return ceilDiv10(blocks)
}

func encodeSuperBlock(sb SuperBlock) []byte {
	buf := make([]byte, BlockSize)
	binary.LittleEndian.PutUint32(buf[0:4], sb.Magic)
	binary.LittleEndian.PutUint32(buf[4:8], sb.Blocks)
	binary.LittleEndian.PutUint32(buf[8:12], sb.InodeBlocks)
	binary.LittleEndian.PutUint32(buf[12:16], sb.Inodes)
	return buf
}

func decodeSuperBlock(buf []byte) SuperBlock {
	return SuperBlock{
		Magic:       binary.LittleEndian.Uint32(buf[0:4]),
		Blocks:      binary.LittleEndian.Uint32(buf[4:8]),
		InodeBlocks: binary.LittleEndian.Uint32(buf[8:12]),
		Inodes:      binary.LittleEndian.Uint32(buf[12:16]),
	}
}

// RawInode is the 32-byte on-disk inode record. `Valid` is nonzero iff the
// slot is live; `Direct` entries and `Indirect` are block numbers, 0 meaning
// "none".
type RawInode struct {
	Valid    uint32
	Size     uint32
	Direct   [PointersPerInode]uint32
	Indirect uint32
}

func (in RawInode) encode(dst []byte) {
	binary.LittleEndian.PutUint32(dst[0:4], in.Valid)
	binary.LittleEndian.PutUint32(dst[4:8], in.Size)
	for i, d := range in.Direct {
		off := 8 + i*4
		binary.LittleEndian.PutUint32(dst[off:off+4], d)
	}
	binary.LittleEndian.PutUint32(dst[28:32], in.Indirect)
}

func decodeRawInode(src []byte) RawInode {
	var in RawInode
	in.Valid = binary.LittleEndian.Uint32(src[0:4])
	in.Size = binary.LittleEndian.Uint32(src[4:8])
	for i := range in.Direct {
		off := 8 + i*4
		in.Direct[i] = binary.LittleEndian.Uint32(src[off : off+4])
	}
	in.Indirect = binary.LittleEndian.Uint32(src[28:32])
	return in
}

// encodeInodeBlock packs 128 inodes into one 4096-byte block buffer.
func encodeInodeBlock(inodes [InodesPerBlock]RawInode) []byte {
	buf := make([]byte, BlockSize)
	for i, in := range inodes {
		in.encode(buf[i*InodeSize : (i+1)*InodeSize])
	}
	return buf
}

// decodeInodeBlock unpacks a 4096-byte block buffer into 128 inodes.
func decodeInodeBlock(buf []byte) [InodesPerBlock]RawInode {
	var inodes [InodesPerBlock]RawInode
	for i := range inodes {
		inodes[i] = decodeRawInode(buf[i*InodeSize : (i+1)*InodeSize])
	}
	return inodes
}

// decodePointerBlock reads the 1024 4-byte little-endian block numbers out of
// an indirect pointer block.
func decodePointerBlock(buf []byte) [PointersPerBlock]uint32 {
	var ptrs [PointersPerBlock]uint32
	r := bytes.NewReader(buf)
	if err := binary.Read(r, binary.LittleEndian, &ptrs); err != nil {
		// buf is always exactly BlockSize bytes by construction; a short read
		// here means a caller violated that invariant.
		panic(fmt.Sprintf("sfs: corrupt pointer block buffer: %v", err))
	}
	return ptrs
}

// encodePointerBlock serializes 1024 block numbers into a 4096-byte buffer.
func encodePointerBlock(ptrs [PointersPerBlock]uint32) []byte {
	buf := make([]byte, BlockSize)
	var w bytes.Buffer
	w.Grow(BlockSize)
	binary.Write(&w, binary.LittleEndian, &ptrs)
	copy(buf, w.Bytes())
	return buf
}

// globalInumber computes the inumber for slot `slot` (0-based) of inode
// block index `blk` (1-based, as blocks are addressed on disk).
func globalInumber(blk uint32, slot uint32) uint32 {
	return (blk-1)*InodesPerBlock + slot
}

// splitInumber returns the (inodeBlockIndex, slot) pair for a global inumber,
// where inodeBlockIndex is 0-based (add 1 to get the on-disk block number).
func splitInumber(inumber uint32) (uint32, uint32) {
	return inumber / InodesPerBlock, inumber % InodesPerBlock
}
