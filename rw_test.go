package sfs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	sfs "github.com/gosfs/sfs"
	"github.com/gosfs/sfs/memdisk"
)

func fillPattern(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i % 251)
	}
	return b
}

func TestWriteThenReadWithinOneBlock(t *testing.T) {
	fs, _ := mustMount(t, 64)
	inumber := uint32(fs.Create())

	data := []byte("hello, file system")
	n := fs.Write(inumber, data, len(data), 0)
	require.EqualValues(t, len(data), n)
	require.EqualValues(t, len(data), fs.Stat(inumber))

	buf := make([]byte, sfs.BlockSize)
	got := fs.Read(inumber, buf, len(data), 0)
	require.EqualValues(t, len(data), got)
	require.Equal(t, data, buf[:len(data)])
}

func TestWriteCrossesDirectBlockBoundary(t *testing.T) {
	fs, _ := mustMount(t, 64)
	inumber := uint32(fs.Create())

	data := fillPattern(sfs.BlockSize + 100)
	n := fs.Write(inumber, data, len(data), 0)
	require.EqualValues(t, len(data), n)

	buf := make([]byte, 2*sfs.BlockSize)
	got := fs.Read(inumber, buf, len(data), 0)
	require.EqualValues(t, len(data), got)
	require.Equal(t, data, buf[:len(data)])
}

func TestWriteStraddlesIntoIndirectRegion(t *testing.T) {
	fs, _ := mustMount(t, 4096)
	inumber := uint32(fs.Create())

	offset := (sfs.PointersPerInode - 1) * sfs.BlockSize
	data := fillPattern(2 * sfs.BlockSize)
	n := fs.Write(inumber, data, len(data), offset)
	require.EqualValues(t, len(data), n)
	require.EqualValues(t, offset+len(data), fs.Stat(inumber))

	buf := make([]byte, 3*sfs.BlockSize)
	got := fs.Read(inumber, buf, len(data), offset)
	require.EqualValues(t, len(data), got)
	require.Equal(t, data, buf[:len(data)])
}

func TestWriteAtMaxFileSizeSucceeds(t *testing.T) {
	fs, _ := mustMount(t, 4096)
	inumber := uint32(fs.Create())

	offset := sfs.MaxFileSize - sfs.BlockSize
	data := fillPattern(sfs.BlockSize)
	n := fs.Write(inumber, data, len(data), offset)
	require.EqualValues(t, len(data), n)
	require.EqualValues(t, sfs.MaxFileSize, fs.Stat(inumber))
}

func TestWriteBeyondMaxFileSizeFails(t *testing.T) {
	fs, _ := mustMount(t, 4096)
	inumber := uint32(fs.Create())

	data := fillPattern(1)
	n := fs.Write(inumber, data, len(data), sfs.MaxFileSize)
	require.EqualValues(t, -1, n)
	require.EqualValues(t, 0, fs.Stat(inumber))
}

func TestWriteRunsOutOfSpaceAndPersistsPartialProgress(t *testing.T) {
	// 16 total blocks: block 0 is the superblock, inodeBlocksFor(16) == 2,
	// leaving only 13 data blocks for everything -- easy to exhaust.
	fs, _ := mustMount(t, 16)
	inumber := uint32(fs.Create())

	data := fillPattern(32 * sfs.BlockSize)
	n := fs.Write(inumber, data, len(data), 0)
	require.Less(t, n, int64(len(data)))
	require.Greater(t, n, int64(0))
	require.EqualValues(t, n, fs.Stat(inumber))

	buf := make([]byte, 32*sfs.BlockSize)
	got := fs.Read(inumber, buf, int(n), 0)
	require.Equal(t, n, got)
	require.Equal(t, data[:n], buf[:n])
}

func TestReadPastEndOfFileReturnsZero(t *testing.T) {
	fs, _ := mustMount(t, 64)
	inumber := uint32(fs.Create())

	data := []byte("short")
	fs.Write(inumber, data, len(data), 0)

	buf := make([]byte, sfs.BlockSize)
	got := fs.Read(inumber, buf, 10, len(data)+5)
	require.EqualValues(t, 0, got)
}

func TestReadOnInvalidInodeFails(t *testing.T) {
	fs, _ := mustMount(t, 64)
	buf := make([]byte, sfs.BlockSize)
	got := fs.Read(999, buf, 10, 0)
	require.EqualValues(t, -1, got)
}

func TestOverwriteWithinExistingFileKeepsSize(t *testing.T) {
	fs, _ := mustMount(t, 64)
	inumber := uint32(fs.Create())

	data := fillPattern(sfs.BlockSize)
	fs.Write(inumber, data, len(data), 0)

	patch := []byte("PATCHED")
	n := fs.Write(inumber, patch, len(patch), 10)
	require.EqualValues(t, len(patch), n)
	require.EqualValues(t, len(data), fs.Stat(inumber))

	buf := make([]byte, sfs.BlockSize)
	fs.Read(inumber, buf, len(data), 0)
	require.Equal(t, patch, buf[10:10+len(patch)])
	require.Equal(t, data[:10], buf[:10])
}

func TestDiskPersistsAcrossRemount(t *testing.T) {
	disk := memdisk.New(64)
	require.True(t, sfs.Format(disk))
	fs, ok := sfs.Mount(disk)
	require.True(t, ok)

	inumber := uint32(fs.Create())
	data := []byte("persisted across a remount")
	fs.Write(inumber, data, len(data), 0)

	disk.Unmount()
	fs2, ok := sfs.Mount(disk)
	require.True(t, ok)

	buf := make([]byte, sfs.BlockSize)
	got := fs2.Read(inumber, buf, len(data), 0)
	require.EqualValues(t, len(data), got)
	require.Equal(t, data, buf[:len(data)])
}
