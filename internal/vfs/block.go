// Package vfs implements a small in-memory, block-device-backed filesystem:
// a flat directory of named byte blobs laid out over a fixed array of
// erasable blocks, in the spirit of FATFS/user_diskio.c's RAM disk with a
// flash-style program-after-erase discipline borrowed from mkflash's
// flashFile.
package vfs

import (
	"errors"
	"fmt"
)

// ErrBlockRange is returned by any block operation addressing a block
// outside the device.
var ErrBlockRange = errors.New("vfs: block out of range")

// ErrNotErased is returned by WriteBlock when the target block was never
// erased (or was already written) first, mirroring the erase-before-program
// discipline of real flash and of mkflash's flashFile.WriteAt.
var ErrNotErased = errors.New("vfs: block must be erased before write")

// BlockDevice is a fixed-size array of fixed-size blocks, each of which
// must be erased before it can be written again. It is the RAM equivalent
// of USER_read/USER_write/mem in user_diskio.c.
type BlockDevice struct {
	blockSize int
	blocks    [][]byte
	erased    []bool
}

// NewBlockDevice allocates a device of numBlocks blocks of blockSize bytes
// each, all initially erased.
func NewBlockDevice(numBlocks, blockSize int) *BlockDevice {
	d := &BlockDevice{
		blockSize: blockSize,
		blocks:    make([][]byte, numBlocks),
		erased:    make([]bool, numBlocks),
	}
	for i := range d.blocks {
		d.blocks[i] = make([]byte, blockSize)
		d.erased[i] = true
	}
	return d
}

// BlockSize returns the device's fixed block size in bytes.
func (d *BlockDevice) BlockSize() int { return d.blockSize }

// NumBlocks returns the number of blocks on the device.
func (d *BlockDevice) NumBlocks() int { return len(d.blocks) }

// ReadBlock copies block n's contents into dst, which must be at least
// BlockSize() bytes long.
func (d *BlockDevice) ReadBlock(n int, dst []byte) error {
	if n < 0 || n >= len(d.blocks) {
		return fmt.Errorf("read block %d: %w", n, ErrBlockRange)
	}
	copy(dst, d.blocks[n])
	return nil
}

// WriteBlock programs block n with src, which must be at most BlockSize()
// bytes long. The block must have been erased since its last write.
func (d *BlockDevice) WriteBlock(n int, src []byte) error {
	if n < 0 || n >= len(d.blocks) {
		return fmt.Errorf("write block %d: %w", n, ErrBlockRange)
	}
	if !d.erased[n] {
		return fmt.Errorf("write block %d: %w", n, ErrNotErased)
	}
	copy(d.blocks[n], src)
	d.erased[n] = false
	return nil
}

// EraseBlock resets block n to all-zero and marks it programmable again.
func (d *BlockDevice) EraseBlock(n int) error {
	if n < 0 || n >= len(d.blocks) {
		return fmt.Errorf("erase block %d: %w", n, ErrBlockRange)
	}
	for i := range d.blocks[n] {
		d.blocks[n][i] = 0
	}
	d.erased[n] = true
	return nil
}
