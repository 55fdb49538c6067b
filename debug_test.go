package sfs_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	sfs "github.com/gosfs/sfs"
	"github.com/gosfs/sfs/memdisk"
)

func TestDebugToReportsSuperblockAndInodes(t *testing.T) {
	fs, disk := mustMount(t, 64)

	inumber := uint32(fs.Create())
	data := []byte("debug me")
	fs.Write(inumber, data, len(data), 0)

	var out bytes.Buffer
	sfs.DebugTo(&out, disk)

	text := out.String()
	require.Contains(t, text, "SuperBlock:")
	require.Contains(t, text, "magic number is valid")
	require.Contains(t, text, "64 blocks")
	require.Contains(t, text, "inodes")
	require.Contains(t, text, "Inode 0:")
	require.Contains(t, text, "size: 8 bytes")
	require.Contains(t, text, "direct blocks:")
}

func TestDebugToReportsInvalidMagicAndStops(t *testing.T) {
	disk := memdisk.New(16)
	require.True(t, sfs.Format(disk))

	buf := make([]byte, sfs.BlockSize)
	disk.Read(0, buf)
	buf[0] ^= 0xff
	disk.Write(0, buf)

	var out bytes.Buffer
	sfs.DebugTo(&out, disk)

	text := out.String()
	require.Contains(t, text, "magic number is invalid")
	require.Contains(t, text, "exiting...")
	require.NotContains(t, text, "blocks\n")
}
