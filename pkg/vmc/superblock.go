package vmc

import (
	"bytes"

	"github.com/hansbonini/vmctool/pkg/common"
)

// Magic is the exact 28-byte signature (trailing space included) every
// valid VMC image starts with.
var Magic = []byte("Sony PS2 Memory Card Format ")

// ClustersPerCard is not read from the image; every VMC geometry this
// package targets fixes it at 65536.
const ClustersPerCard = 65536

const (
	offMagic                  = 0x000
	offVersion                = 0x01C
	offPageSize               = 0x028
	offPagesPerCluster        = 0x02A
	offAllocOffset            = 0x034
	offRootdirCluster         = 0x03C
	offBackupBlock1           = 0x040
	offBackupBlock2           = 0x044
	offIfcPtrList             = 0x050
	offBadBlockList           = 0x0D0
	offCardType               = 0x150
	offCardFlags              = 0x151
	offClusterSize            = 0x154
	offMaxAllocatableClusters = 0x170

	ifcListLen  = 32
	badBlockLen = 32
)

// Superblock is the immutable geometry and filesystem-root record read
// from the first 384 bytes of a VMC image.
type Superblock struct {
	Magic                  string
	Version                string
	PageSize               int16
	PagesPerCluster        uint16
	ClusterSize            uint32
	ClustersPerCard        uint32
	AllocOffset            uint32
	MaxAllocatableClusters uint32
	RootdirCluster         uint32
	BackupBlock1           uint32
	BackupBlock2           uint32
	IfcPtrList             [ifcListLen]uint32
	BadBlockList           [badBlockLen]uint32
	CardType               uint8
	CardFlags              uint8
}

// DecodeSuperblock reads and validates the superblock at the start of the
// image, seeking to each field's fixed offset in turn. A magic mismatch
// fails with KindInvalidFormat; any read failure fails with KindIo.
func DecodeSuperblock(r *BinReader) (*Superblock, error) {
	const op = "vmc.DecodeSuperblock"

	magic, err := r.SeekAndReadBytes(offMagic, len(Magic))
	if err != nil {
		return nil, newError(KindIo, op, err)
	}
	if !bytes.Equal(magic, Magic) {
		return nil, newError(KindInvalidFormat, op, errInvalidMagic(magic))
	}

	version, err := r.ReadBytes(12) // immediately follows magic at 0x01C
	if err != nil {
		return nil, newError(KindIo, op, err)
	}

	sb := &Superblock{
		Magic:           string(magic),
		Version:         trimNul(version),
		ClustersPerCard: ClustersPerCard,
	}

	if err := r.Seek(offPageSize); err != nil {
		return nil, newError(KindIo, op, err)
	}
	if sb.PageSize, err = r.ReadI16(); err != nil {
		return nil, newError(KindIo, op, err)
	}
	if sb.PagesPerCluster, err = r.ReadU16(); err != nil {
		return nil, newError(KindIo, op, err)
	}

	if err := r.Seek(offAllocOffset); err != nil {
		return nil, newError(KindIo, op, err)
	}
	if sb.AllocOffset, err = r.ReadU32(); err != nil {
		return nil, newError(KindIo, op, err)
	}

	if err := r.Seek(offRootdirCluster); err != nil {
		return nil, newError(KindIo, op, err)
	}
	if sb.RootdirCluster, err = r.ReadU32(); err != nil {
		return nil, newError(KindIo, op, err)
	}
	if sb.BackupBlock1, err = r.ReadU32(); err != nil {
		return nil, newError(KindIo, op, err)
	}
	if sb.BackupBlock2, err = r.ReadU32(); err != nil {
		return nil, newError(KindIo, op, err)
	}

	if err := r.Seek(offIfcPtrList); err != nil {
		return nil, newError(KindIo, op, err)
	}
	ifcList, err := r.ReadU32Array(ifcListLen)
	if err != nil {
		return nil, newError(KindIo, op, err)
	}
	copy(sb.IfcPtrList[:], ifcList)

	if err := r.Seek(offBadBlockList); err != nil {
		return nil, newError(KindIo, op, err)
	}
	badBlocks, err := r.ReadU32Array(badBlockLen)
	if err != nil {
		return nil, newError(KindIo, op, err)
	}
	copy(sb.BadBlockList[:], badBlocks)

	if err := r.Seek(offCardType); err != nil {
		return nil, newError(KindIo, op, err)
	}
	if sb.CardType, err = r.ReadU8(); err != nil {
		return nil, newError(KindIo, op, err)
	}
	if sb.CardFlags, err = r.ReadU8(); err != nil {
		return nil, newError(KindIo, op, err)
	}

	if err := r.Seek(offClusterSize); err != nil {
		return nil, newError(KindIo, op, err)
	}
	if sb.ClusterSize, err = r.ReadU32(); err != nil {
		return nil, newError(KindIo, op, err)
	}

	if err := r.Seek(offMaxAllocatableClusters); err != nil {
		return nil, newError(KindIo, op, err)
	}
	if sb.MaxAllocatableClusters, err = r.ReadU32(); err != nil {
		return nil, newError(KindIo, op, err)
	}

	common.LogDebug(common.DebugSuperblockField, "cluster_size", sb.ClusterSize)
	common.LogDebug(common.DebugSuperblockField, "rootdir_cluster", sb.RootdirCluster)

	return sb, nil
}

func trimNul(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

type invalidMagicError struct{ got []byte }

func (e *invalidMagicError) Error() string {
	return common.ErrInvalidMagic + ": got " + string(e.got)
}

func errInvalidMagic(got []byte) error {
	return &invalidMagicError{got: append([]byte(nil), got...)}
}
