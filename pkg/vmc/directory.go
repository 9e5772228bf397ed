package vmc

import (
	"github.com/hansbonini/vmctool/pkg/common"
)

// DataOffset computes the image-absolute byte offset of data-area cluster c.
func DataOffset(sb *Superblock, c uint32) int64 {
	return (int64(sb.AllocOffset) + int64(c)) * int64(sb.ClusterSize)
}

// ListRoot reads the root directory: the header entry's declared length
// bounds how many 512-byte slots, starting with the header's own slot and
// walked across the root's cluster chain, are counted, regardless of
// whether each slot decodes to a logical entry.
func ListRoot(r *BinReader, sb *Superblock, fat *Fat) ([]DirEntry, error) {
	const op = "vmc.ListRoot"

	if sb.ClusterSize == 0 {
		return nil, newError(KindInvalidFormat, op, errRootOffsetOutOfRange())
	}

	rootOffset := DataOffset(sb, sb.RootdirCluster)
	if rootOffset >= r.Size() {
		return nil, newError(KindInvalidFormat, op, errRootOffsetOutOfRange())
	}

	if err := r.Seek(rootOffset); err != nil {
		return nil, newError(KindIo, op, err)
	}
	header, err := r.ReadBytes(dirEntrySize)
	if err != nil {
		return nil, newError(KindIo, op, err)
	}

	expected := leU32(header[deOffLength:])
	common.LogDebug(common.DebugSuperblockField, "root_expected", expected)

	chain := fat.BuildChain(sb.RootdirCluster)
	entriesPerCluster := int(sb.ClusterSize / dirEntrySize)

	var entries []DirEntry
	processed := uint32(0)

	for _, cluster := range chain {
		if processed >= expected {
			break
		}

		offset := DataOffset(sb, cluster)
		if err := r.Seek(offset); err != nil {
			break
		}
		clusterBuf, err := r.ReadBytes(int(sb.ClusterSize))
		if err != nil {
			break
		}

		for slot := 0; slot < entriesPerCluster && processed < expected; slot++ {
			raw := clusterBuf[slot*dirEntrySize : (slot+1)*dirEntrySize]
			if entry, ok := DecodeDirEntry(raw); ok {
				entries = append(entries, entry)
			} else {
				common.LogDebug(common.DebugDirEntrySkip, slot)
			}
			processed++
		}
	}

	common.LogInfo(common.InfoRootListed)
	return entries, nil
}

type rootOffsetError struct{}

func (e *rootOffsetError) Error() string {
	return common.ErrRootOffsetOutOfRange
}

func errRootOffsetOutOfRange() error {
	return &rootOffsetError{}
}
