package sfs

import "log"

// writeCursor tracks how many bytes of the caller's data have been copied
// into data blocks so far, threaded through writeDataToBlock instead of the
// C++ source's `(int *num_bytes, ...)` out-parameter (spec.md §9).
type writeCursor struct {
	data     []byte
	numBytes int
	length   int
}

// writeDataToBlock is the write-path's data primitive: it reads the target
// block, overwrites [offset, min(BlockSize, offset+remaining)) with the next
// bytes of the cursor's source data, and writes the block back -- preserving
// any previously written tail bytes inside the same block. Implements
// spec.md §4.10's "data-write primitive".
func writeDataToBlock(disk Disk, blockNum uint32, offset int, c *writeCursor) {
	buf := make([]byte, BlockSize)
	disk.Read(blockNum, buf)
	for i := offset; i < BlockSize && c.numBytes < c.length; i++ {
		buf[i] = c.data[c.numBytes]
		c.numBytes++
	}
	disk.Write(blockNum, buf)
}

// Write resolves (offset, length) the same way Read does, but lazily
// allocates data blocks (and the indirect block) as it advances. On
// allocator exhaustion it persists partial progress and returns the number
// of bytes actually copied; on full success it returns length. Implements
// spec.md §4.10, preserving the per-branch Size bookkeeping of §9.3 exactly.
func (fs *FileSystem) Write(inumber uint32, data []byte, length int, offset int) int64 {
	maxSize := length + offset
	if maxSize > MaxFileSize {
		log.Printf("sfs: write refused: %v", errTooLarge.WithMessage("offset %d + length %d", offset, length))
		return -1
	}

	oldOffset := offset
	var oldSize uint32

	inode, ok := fs.loadInode(inumber)
	if !ok {
		inode = RawInode{Valid: 1, Size: uint32(maxSize)}
		i, _ := splitInumber(inumber)
		fs.inodeCounter[i]++
		fs.alloc.markInUse(i + 1)
	} else {
		oldSize = inode.Size
		if uint32(maxSize) > inode.Size {
			inode.Size = uint32(maxSize)
		}
	}

	cursor := &writeCursor{data: data, length: length}

	persistIndirectAndInode := func(indirect [PointersPerBlock]uint32) {
		fs.disk.Write(inode.Indirect, encodePointerBlock(indirect))
		fs.writeInode(inumber, inode)
	}

	if offset < PointersPerInode*BlockSize {
		d := offset / BlockSize
		o := offset % BlockSize

		if !fs.alloc.allocateIfZero(&inode.Direct[d]) {
			log.Printf("sfs: write on inode %d stopped short: %v", inumber, errNoSpace)
			inode.Size = oldSize
			fs.writeInode(inumber, inode)
			return int64(cursor.numBytes)
		}
		writeDataToBlock(fs.disk, inode.Direct[d], o, cursor)
		d++

		if cursor.numBytes == length {
			fs.writeInode(inumber, inode)
			return int64(length)
		}

		for ; d < PointersPerInode; d++ {
			if !fs.alloc.allocateIfZero(&inode.Direct[d]) {
				log.Printf("sfs: write on inode %d stopped short: %v", inumber, errNoSpace)
				inode.Size = uint32(oldOffset + cursor.numBytes)
				fs.writeInode(inumber, inode)
				return int64(cursor.numBytes)
			}
			writeDataToBlock(fs.disk, inode.Direct[d], 0, cursor)
			if cursor.numBytes == length {
				fs.writeInode(inumber, inode)
				return int64(length)
			}
		}

		var indirect [PointersPerBlock]uint32
		if inode.Indirect != 0 {
			ptrBuf := make([]byte, BlockSize)
			fs.disk.Read(inode.Indirect, ptrBuf)
			indirect = decodePointerBlock(ptrBuf)
		} else if !fs.alloc.allocateIfZero(&inode.Indirect) {
			log.Printf("sfs: write on inode %d stopped short: %v", inumber, errNoSpace)
			inode.Size = uint32(oldOffset + cursor.numBytes)
			fs.writeInode(inumber, inode)
			return int64(cursor.numBytes)
		}

		for i := 0; i < PointersPerBlock; i++ {
			if !fs.alloc.allocateIfZero(&indirect[i]) {
				log.Printf("sfs: write on inode %d stopped short: %v", inumber, errNoSpace)
				inode.Size = uint32(oldOffset + cursor.numBytes)
				persistIndirectAndInode(indirect)
				return int64(cursor.numBytes)
			}
			writeDataToBlock(fs.disk, indirect[i], 0, cursor)
			if cursor.numBytes == length {
				persistIndirectAndInode(indirect)
				return int64(length)
			}
		}
		persistIndirectAndInode(indirect)
		return int64(cursor.numBytes)
	}

	// Indirect region.
	offset -= PointersPerInode * BlockSize
	p := offset / BlockSize
	o := offset % BlockSize

	var indirect [PointersPerBlock]uint32
	if inode.Indirect != 0 {
		ptrBuf := make([]byte, BlockSize)
		fs.disk.Read(inode.Indirect, ptrBuf)
		indirect = decodePointerBlock(ptrBuf)
	} else if !fs.alloc.allocateIfZero(&inode.Indirect) {
		log.Printf("sfs: write on inode %d stopped short: %v", inumber, errNoSpace)
		inode.Size = oldSize
		fs.writeInode(inumber, inode)
		return int64(cursor.numBytes)
	}

	if !fs.alloc.allocateIfZero(&indirect[p]) {
		log.Printf("sfs: write on inode %d stopped short: %v", inumber, errNoSpace)
		inode.Size = oldSize
		persistIndirectAndInode(indirect)
		return int64(cursor.numBytes)
	}
	writeDataToBlock(fs.disk, indirect[p], o, cursor)
	p++

	if cursor.numBytes == length {
		persistIndirectAndInode(indirect)
		return int64(length)
	}

	for i := p; i < PointersPerBlock; i++ {
		if !fs.alloc.allocateIfZero(&indirect[i]) {
			log.Printf("sfs: write on inode %d stopped short: %v", inumber, errNoSpace)
			inode.Size = uint32(oldOffset + cursor.numBytes)
			persistIndirectAndInode(indirect)
			return int64(cursor.numBytes)
		}
		writeDataToBlock(fs.disk, indirect[i], 0, cursor)
		if cursor.numBytes == length {
			persistIndirectAndInode(indirect)
			return int64(length)
		}
	}
	persistIndirectAndInode(indirect)
	return int64(cursor.numBytes)
}
