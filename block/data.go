package block

import (
	"github.com/pkg/errors"

	"github.com/weiju/adftools/physical"
)

// ofsDataPayloadOffset is where payload bytes start within an OFS data
// block (after its 24-byte header).
const ofsDataPayloadOffset = 24

// DataBlock is a view over a file's data block. Its layout differs by
// filesystem: OFS blocks carry a small header (seq_num, data_size, a
// checksum, next_data) before the payload; FFS blocks are pure payload.
type DataBlock struct {
	img      *physical.Image
	blocknum uint32
	sec      *physical.Sector
}

// NewDataBlock materializes the data block view at blocknum.
func NewDataBlock(img *physical.Image, blocknum uint32) (*DataBlock, error) {
	sec, err := img.Sector(int(blocknum))
	if err != nil {
		return nil, errors.Wrapf(err, "data block %d", blocknum)
	}
	return &DataBlock{img: img, blocknum: blocknum, sec: sec}, nil
}

func (d *DataBlock) BlockNum() uint32 { return d.blocknum }
func (d *DataBlock) BlockSize() int   { return d.sec.SizeInBytes() }

// SeqNum (OFS only): this data block's 1-based sequence number.
func (d *DataBlock) SeqNum() uint32 { return d.sec.U32At(8) }

// DataSize (OFS only): the number of payload bytes stored in this block.
func (d *DataBlock) DataSize() uint32 { return d.sec.U32At(12) }

// Raw returns the data block's full 512-byte content.
func (d *DataBlock) Raw() []byte { return d.sec.Raw() }

// Payload returns the OFS payload span (after the 24-byte header).
func (d *DataBlock) Payload() []byte {
	return d.sec.Raw()[ofsDataPayloadOffset : ofsDataPayloadOffset+d.DataSize()]
}
