package sfs

import (
	"fmt"
	"io"
	"os"
)

// Debug reads disk's superblock and every valid inode, printing a
// human-readable report to stdout in the exact textual form the test suite
// depends on. It never mounts the Disk and never mutates it. Implements
// spec.md §4.3 / §4.11.
func Debug(disk Disk) {
	DebugTo(os.Stdout, disk)
}

// DebugTo is Debug with an explicit output writer, so callers (and tests)
// can capture the report without redirecting os.Stdout.
func DebugTo(w io.Writer, disk Disk) {
	sbBuf := make([]byte, BlockSize)
	disk.Read(0, sbBuf)
	sb := decodeSuperBlock(sbBuf)

	fmt.Fprintln(w, "SuperBlock:")
	if sb.Magic != MagicNumber {
		fmt.Fprintln(w, "    magic number is invalid")
		fmt.Fprintln(w, "    exiting...")
		return
	}
	fmt.Fprintln(w, "    magic number is valid")
	fmt.Fprintf(w, "    %d blocks\n", sb.Blocks)
	fmt.Fprintf(w, "    %d inode blocks\n", sb.InodeBlocks)
	fmt.Fprintf(w, "    %d inodes\n", sb.Inodes)

	for i := uint32(1); i <= sb.InodeBlocks; i++ {
		blockBuf := make([]byte, BlockSize)
		disk.Read(i, blockBuf)
		inodeBlock := decodeInodeBlock(blockBuf)

		for slot, inode := range inodeBlock {
			if inode.Valid == 0 {
				continue
			}
			n := globalInumber(i, uint32(slot))
			fmt.Fprintf(w, "Inode %d:\n", n)
			fmt.Fprintf(w, "    size: %d bytes\n", inode.Size)

			fmt.Fprint(w, "    direct blocks:")
			for _, d := range inode.Direct {
				if d != 0 {
					fmt.Fprintf(w, " %d", d)
				}
			}
			fmt.Fprintln(w)

			if inode.Indirect == 0 {
				continue
			}
			fmt.Fprintf(w, "    indirect block: %d\n    indirect data blocks:", inode.Indirect)

			ptrBuf := make([]byte, BlockSize)
			disk.Read(inode.Indirect, ptrBuf)
			for _, p := range decodePointerBlock(ptrBuf) {
				if p != 0 {
					fmt.Fprintf(w, " %d", p)
				}
			}
			fmt.Fprintln(w)
		}
	}
}
