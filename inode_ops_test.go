package sfs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	sfs "github.com/gosfs/sfs"
	"github.com/gosfs/sfs/memdisk"
)

func mustMount(t *testing.T, blocks uint32) (*sfs.FileSystem, sfs.Disk) {
	t.Helper()
	disk := memdisk.New(blocks)
	require.True(t, sfs.Format(disk))
	fs, ok := sfs.Mount(disk)
	require.True(t, ok)
	return fs, disk
}

func TestCreateAssignsDistinctInumbers(t *testing.T) {
	fs, _ := mustMount(t, 64)

	first := fs.Create()
	second := fs.Create()
	require.GreaterOrEqual(t, first, int64(0))
	require.GreaterOrEqual(t, second, int64(0))
	require.NotEqual(t, first, second)
}

func TestStatOnFreshInodeIsZero(t *testing.T) {
	fs, _ := mustMount(t, 64)

	inumber := fs.Create()
	require.Equal(t, int64(0), fs.Stat(uint32(inumber)))
}

func TestStatOnUnusedSlotIsNegativeOne(t *testing.T) {
	fs, _ := mustMount(t, 64)
	require.Equal(t, int64(-1), fs.Stat(0))
}

func TestRemoveFreesInodeForReuse(t *testing.T) {
	fs, _ := mustMount(t, 64)

	inumber := fs.Create()
	require.True(t, fs.Remove(uint32(inumber)))
	require.Equal(t, int64(-1), fs.Stat(uint32(inumber)))

	again := fs.Create()
	require.Equal(t, inumber, again)
}

func TestRemoveOnInvalidInodeFails(t *testing.T) {
	fs, _ := mustMount(t, 64)
	require.False(t, fs.Remove(999))
}

func TestRemoveReleasesDataBlocksForReuse(t *testing.T) {
	fs, _ := mustMount(t, 64)

	inumber := uint32(fs.Create())
	data := make([]byte, sfs.BlockSize*3)
	for i := range data {
		data[i] = byte(i)
	}
	n := fs.Write(inumber, data, len(data), 0)
	require.EqualValues(t, len(data), n)

	require.True(t, fs.Remove(inumber))

	other := uint32(fs.Create())
	n = fs.Write(other, data, len(data), 0)
	require.EqualValues(t, len(data), n)
}
