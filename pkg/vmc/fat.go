package vmc

import (
	"github.com/hansbonini/vmctool/pkg/common"
)

// Invalid is the sentinel cluster pointer value: "no next cluster".
const Invalid uint32 = 0xFFFFFFFF

const (
	fatFlagFree     = 0x7F
	fatFlagChained  = 0x80
	fatFlagTerminal = 0xFF
)

// Fat is the dense, zero-based array of raw 32-bit FAT entries covering
// the data-area clusters, materialized from the superblock's IFC → FAT
// cluster indirection.
type Fat struct {
	entries []uint32
}

// Len returns the number of clusters the FAT covers.
func (f *Fat) Len() int { return len(f.entries) }

// Entry returns the raw FAT entry for cluster index c.
func (f *Fat) Entry(c uint32) uint32 { return f.entries[c] }

// fatFlag extracts the flag byte (bits 24-31) of a raw FAT entry.
func fatFlag(entry uint32) uint8 { return uint8((entry >> 24) & 0xFF) }

// fatNext extracts the 24-bit next-cluster field of a raw FAT entry.
func fatNext(entry uint32) uint32 { return entry & 0x00FFFFFF }

// LoadFat materializes the linear FAT from the superblock's indirect FAT
// cluster (IFC) list. Step 1 reads each IFC's pointer table: the IFC list
// stops at its first 0 or Invalid entry, and the pointers inside one IFC
// cluster stop at the first Invalid entry.
// Step 2 reads every pointed-to FAT cluster into the final array. Per
// spec, these offsets are image-absolute: AllocOffset is not applied here.
func LoadFat(r *BinReader, sb *Superblock) (*Fat, error) {
	const op = "vmc.LoadFat"

	entriesPerCluster := int(sb.ClusterSize / 4)

	var fatClusterPtrs []uint32
	for i, ifc := range sb.IfcPtrList {
		if ifc == 0 || ifc == Invalid {
			break
		}
		common.LogDebug(common.DebugIFCPointer, i, ifc)

		if err := r.Seek(int64(ifc) * int64(sb.ClusterSize)); err != nil {
			return nil, newError(KindIo, op, err)
		}
		for j := 0; j < entriesPerCluster; j++ {
			ptr, err := r.ReadU32()
			if err != nil {
				return nil, newError(KindIo, op, err)
			}
			if ptr == Invalid {
				break
			}
			common.LogDebug(common.DebugFatClusterPointer, ptr)
			fatClusterPtrs = append(fatClusterPtrs, ptr)
		}
	}

	entries := make([]uint32, 0, len(fatClusterPtrs)*entriesPerCluster)
	for _, ptr := range fatClusterPtrs {
		if err := r.Seek(int64(ptr) * int64(sb.ClusterSize)); err != nil {
			return nil, newError(KindIo, op, err)
		}
		chunk, err := r.ReadU32Array(entriesPerCluster)
		if err != nil {
			return nil, newError(KindIo, op, err)
		}
		entries = append(entries, chunk...)
	}

	common.LogInfo(common.InfoFatLoaded)
	return &Fat{entries: entries}, nil
}

// CountFree returns the number of clusters whose FAT entry marks them free
// (flag 0x7F, next 0xFFFFFF).
func (f *Fat) CountFree() uint32 {
	var free uint32
	for _, e := range f.entries {
		if fatFlag(e) == fatFlagFree && fatNext(e) == 0x00FFFFFF {
			free++
		}
	}
	return free
}

// BuildChain walks the cluster chain starting at start, following FAT
// entries until a terminal entry (flag 0xFF), a cluster index beyond the
// FAT's length, or a repeated cluster (cycle) is reached. A terminal or
// out-of-range cluster is kept as the chain's last element; a repeated
// cluster is not added a second time, and Invalid is never added.
func (f *Fat) BuildChain(start uint32) []uint32 {
	var chain []uint32
	visited := make(map[uint32]struct{})

	current := start
	for {
		if _, seen := visited[current]; seen || current == Invalid {
			if seen {
				common.LogWarn(common.DebugChainCycle, current)
			}
			break
		}
		visited[current] = struct{}{}
		chain = append(chain, current)

		if int(current) >= len(f.entries) {
			common.LogWarn(common.WarnClusterBeyondImage)
			break
		}

		entry := f.entries[current]
		flag := fatFlag(entry)
		common.LogDebug(common.DebugChainStep, current, flag, fatNext(entry))
		if flag == fatFlagTerminal {
			break
		}

		current = fatNext(entry)
	}

	return chain
}
