package sfs

// copyCursor threads (remaining, destination position) through the block
// copiers in Read, replacing the C++ source's mutation of a `(length, ptr)`
// pair by reference (spec.md §9).
type copyCursor struct {
	dst       []byte
	pos       int
	remaining int
}

// copyFromBlock reads one block and copies BlockSize-srcOffset bytes from it
// into the cursor's destination starting at srcOffset, advancing the
// cursor. This intentionally always copies a full BlockSize-srcOffset run,
// even past what `remaining` says is still wanted: spec.md §4.9 documents
// this overshoot as a contractual part of the read path that callers must
// size their buffers for.
func copyFromBlock(disk Disk, blockNum uint32, srcOffset int, c *copyCursor) {
	buf := make([]byte, BlockSize)
	disk.Read(blockNum, buf)
	n := BlockSize - srcOffset
	copy(c.dst[c.pos:c.pos+n], buf[srcOffset:])
	c.pos += n
	c.remaining -= n
}

// Read resolves (offset, length) against inumber's direct pointers and, if
// necessary, its single indirect block, copying bytes into buf. Implements
// spec.md §4.9.
func (fs *FileSystem) Read(inumber uint32, buf []byte, length int, offset int) int64 {
	size := fs.Stat(inumber)
	if size == -1 {
		return -1
	}
	if int64(offset) >= size {
		return 0
	}
	if int64(length+offset) > size {
		length = int(size) - offset
	}

	inode, ok := fs.loadInode(inumber)
	if !ok {
		return -1
	}

	requested := length
	cursor := &copyCursor{dst: buf, remaining: length}

	if offset < PointersPerInode*BlockSize {
		d := offset / BlockSize
		o := offset % BlockSize

		if inode.Direct[d] == 0 {
			return 0
		}
		copyFromBlock(fs.disk, inode.Direct[d], o, cursor)
		d++

		for cursor.remaining > 0 && d < PointersPerInode && inode.Direct[d] != 0 {
			copyFromBlock(fs.disk, inode.Direct[d], 0, cursor)
			d++
		}

		if cursor.remaining <= 0 {
			return int64(requested)
		}
		if d != PointersPerInode || inode.Indirect == 0 {
			return int64(requested - cursor.remaining)
		}

		ptrBuf := make([]byte, BlockSize)
		fs.disk.Read(inode.Indirect, ptrBuf)
		for _, p := range decodePointerBlock(ptrBuf) {
			if p == 0 || cursor.remaining <= 0 {
				break
			}
			copyFromBlock(fs.disk, p, 0, cursor)
		}
		return int64(requested - cursor.remaining)
	}

	// Indirect region.
	if inode.Indirect == 0 {
		return 0
	}
	offset -= PointersPerInode * BlockSize
	p := offset / BlockSize
	o := offset % BlockSize

	ptrBuf := make([]byte, BlockSize)
	fs.disk.Read(inode.Indirect, ptrBuf)
	pointers := decodePointerBlock(ptrBuf)

	if pointers[p] != 0 && cursor.remaining > 0 {
		copyFromBlock(fs.disk, pointers[p], o, cursor)
		p++
	}
	for i := p; i < PointersPerBlock; i++ {
		if pointers[i] == 0 || cursor.remaining <= 0 {
			break
		}
		copyFromBlock(fs.disk, pointers[i], 0, cursor)
	}
	return int64(requested - cursor.remaining)
}
