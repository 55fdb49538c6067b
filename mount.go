package sfs

import (
	"fmt"
	"log"

	"github.com/boljen/go-bitmap"
	"github.com/hashicorp/go-multierror"
)

// Mount validates the Disk's superblock and rebuilds the in-memory free
// block bitmap and per-inode-block census by scanning every inode, per
// spec.md §4.2. On any validation failure it returns (nil, false) with no
// state retained and the Disk left unmounted.
func Mount(disk Disk) (*FileSystem, bool) {
	if disk.Mounted() {
		log.Printf("sfs: mount refused: %v", errAlreadyMounted)
		return nil, false
	}

	sbBuf := make([]byte, BlockSize)
	disk.Read(0, sbBuf)
	sb := decodeSuperBlock(sbBuf)

	if err := validateSuperBlock(sb); err != nil {
		log.Printf("sfs: mount refused: %v", err)
		return nil, false
	}

	bits := bitmap.New(int(sb.Blocks))
	bits.Set(0, true)
	inodeCounter := make([]uint32, sb.InodeBlocks)

	for i := uint32(1); i <= sb.InodeBlocks; i++ {
		blockBuf := make([]byte, BlockSize)
		disk.Read(i, blockBuf)
		inodeBlock := decodeInodeBlock(blockBuf)

		for _, inode := range inodeBlock {
			if inode.Valid == 0 {
				continue
			}
			inodeCounter[i-1]++
			bits.Set(int(i), true)

			for _, d := range inode.Direct {
				if d == 0 {
					continue
				}
				if d >= sb.Blocks {
					log.Printf("sfs: mount aborted: %v", errCorruptPointer.WithMessage("direct pointer %d", d))
					return nil, false
				}
				bits.Set(int(d), true)
			}

			if inode.Indirect == 0 {
				continue
			}
			if inode.Indirect >= sb.Blocks {
				log.Printf("sfs: mount aborted: %v", errCorruptPointer.WithMessage("indirect pointer %d", inode.Indirect))
				return nil, false
			}
			bits.Set(int(inode.Indirect), true)

			ptrBuf := make([]byte, BlockSize)
			disk.Read(inode.Indirect, ptrBuf)
			for _, p := range decodePointerBlock(ptrBuf) {
				if p == 0 {
					continue
				}
				if p >= sb.Blocks {
					log.Printf("sfs: mount aborted: %v", errCorruptPointer.WithMessage("indirect-block entry %d", p))
					return nil, false
				}
				bits.Set(int(p), true)
			}
		}
	}

	disk.Mount()
	return &FileSystem{
		disk:         disk,
		meta:         sb,
		alloc:        newBlockAllocator(bits, sb.Blocks, sb.InodeBlocks),
		inodeCounter: inodeCounter,
	}, true
}

func validateSuperBlock(sb SuperBlock) error {
	if sb.Magic != MagicNumber {
		return errBadSuperblock.WithMessage("magic %#x != %#x", sb.Magic, MagicNumber)
	}
	if sb.InodeBlocks != inodeBlocksFor(sb.Blocks) {
		return errBadSuperblock.WithMessage(
			"inode_blocks %d != ceil(%d/10)=%d", sb.InodeBlocks, sb.Blocks, inodeBlocksFor(sb.Blocks))
	}
	if sb.Inodes != sb.InodeBlocks*InodesPerBlock {
		return errBadSuperblock.WithMessage(
			"inodes %d != inode_blocks(%d)*%d", sb.Inodes, sb.InodeBlocks, InodesPerBlock)
	}
	return nil
}

// Check performs the same walk Mount does but, once the superblock has
// validated, never stops at the first problem: every invariant violation it
// finds is accumulated and returned together. A superblock that fails
// validation is reported on its own and ends the walk. It does not mount the
// Disk, keep any state after it returns, or mutate anything; it exists for
// tooling and test suites that want a full
// diagnostic report rather than a single bool. A nil return means the image
// is fully consistent.
func Check(disk Disk) error {
	var result *multierror.Error

	sbBuf := make([]byte, BlockSize)
	disk.Read(0, sbBuf)
	sb := decodeSuperBlock(sbBuf)

	if err := validateSuperBlock(sb); err != nil {
		result = multierror.Append(result, err)
		// Nothing else on the image can be trusted to be laid out as SFS
		// expects if the superblock itself doesn't check out.
		return result.ErrorOrNil()
	}

	// owner records which inode (by textual description) first claimed a
	// given data block, so a second claim on the same block -- two inodes
	// sharing a data block, which SFS never does -- is reported instead of
	// silently overwriting the first claim the way Mount's bitmap would.
	owner := make(map[uint32]string, sb.Blocks)
	owner[0] = "superblock"
	for i := uint32(1); i <= sb.InodeBlocks; i++ {
		owner[i] = "inode table"
	}

	mark := func(block uint32, context string) {
		if block >= sb.Blocks {
			result = multierror.Append(result, fmt.Errorf("%s: block %d out of range [0, %d)", context, block, sb.Blocks))
			return
		}
		if prior, claimed := owner[block]; claimed {
			result = multierror.Append(result, fmt.Errorf(
				"%s: block %d already claimed by %s", context, block, prior))
			return
		}
		owner[block] = context
	}

	for i := uint32(1); i <= sb.InodeBlocks; i++ {
		blockBuf := make([]byte, BlockSize)
		disk.Read(i, blockBuf)
		inodeBlock := decodeInodeBlock(blockBuf)

		for slot, inode := range inodeBlock {
			if inode.Valid == 0 {
				continue
			}
			inumber := globalInumber(i, uint32(slot))

			for _, d := range inode.Direct {
				if d != 0 {
					mark(d, fmt.Sprintf("inode %d direct pointer", inumber))
				}
			}
			if inode.Indirect == 0 {
				continue
			}
			mark(inode.Indirect, fmt.Sprintf("inode %d indirect pointer", inumber))
			if inode.Indirect >= sb.Blocks {
				continue
			}
			ptrBuf := make([]byte, BlockSize)
			disk.Read(inode.Indirect, ptrBuf)
			for _, p := range decodePointerBlock(ptrBuf) {
				if p != 0 {
					mark(p, fmt.Sprintf("inode %d indirect-block entry", inumber))
				}
			}
		}
	}

	return result.ErrorOrNil()
}
