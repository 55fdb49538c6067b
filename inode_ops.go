package sfs

import "log"

// Create finds the first free inode slot, initializes it, and returns its
// global inumber, or -1 if every slot is in use. Implements spec.md §4.4.
func (fs *FileSystem) Create() int64 {
	for i := uint32(1); i <= fs.meta.InodeBlocks; i++ {
		if fs.inodeCounter[i-1] == InodesPerBlock {
			continue
		}

		block := fs.readInodeBlock(i)
		for j := uint32(0); j < InodesPerBlock; j++ {
			if block[j].Valid != 0 {
				continue
			}

			block[j] = RawInode{Valid: 1}
			fs.inodeCounter[i-1]++
			fs.alloc.markInUse(i)
			fs.writeInodeBlock(i, block)
			return int64(globalInumber(i, j))
		}
	}
	return -1
}

// Remove invalidates an inode and releases the blocks it owned. Implements
// spec.md §4.5, including the §9.1 resolution of skipping zero direct
// entries so bit 0 (the superblock) is never incorrectly cleared.
func (fs *FileSystem) Remove(inumber uint32) bool {
	inode, ok := fs.loadInode(inumber)
	if !ok {
		log.Printf("sfs: remove refused: %v", errInvalidInode.WithMessage("inumber %d", inumber))
		return false
	}

	i, _ := splitInumber(inumber)
	inode.Valid = 0
	inode.Size = 0

	fs.inodeCounter[i]--
	if fs.inodeCounter[i] == 0 {
		fs.alloc.free(i + 1)
	}

	for k, d := range inode.Direct {
		if d != 0 {
			fs.alloc.free(d)
		}
		inode.Direct[k] = 0
	}

	if inode.Indirect != 0 {
		// The indirect block's payload is read for its pointers but its
		// on-disk contents are left untouched, matching spec.md §4.5.
		ptrBuf := make([]byte, BlockSize)
		fs.disk.Read(inode.Indirect, ptrBuf)
		fs.alloc.free(inode.Indirect)
		inode.Indirect = 0

		for _, p := range decodePointerBlock(ptrBuf) {
			if p != 0 {
				fs.alloc.free(p)
			}
		}
	}

	fs.writeInode(inumber, inode)
	return true
}

// Stat returns an inode's size in bytes, or -1 if the inumber doesn't name a
// valid inode. Implements spec.md §4.8.
func (fs *FileSystem) Stat(inumber uint32) int64 {
	inode, ok := fs.loadInode(inumber)
	if !ok {
		return -1
	}
	return int64(inode.Size)
}
