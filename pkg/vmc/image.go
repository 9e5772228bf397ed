package vmc

import (
	"io"
	"os"
	"path/filepath"

	"github.com/hansbonini/vmctool/pkg/common"
)

// VmcImage is an opened VMC image: the decoded superblock and FAT plus the
// underlying byte source used to satisfy later listing/extraction calls.
type VmcImage struct {
	reader *BinReader
	sb     *Superblock
	fat    *Fat
}

// Open reads and validates the superblock and loads the FAT from path.
func Open(path string) (*VmcImage, error) {
	const op = "vmc.Open"

	f, err := os.Open(path)
	if err != nil {
		return nil, newError(KindIo, op, err)
	}

	img, err := OpenReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	common.LogInfo(common.InfoImageOpened)
	return img, nil
}

// OpenReader is Open generalized over any seekable byte source, primarily
// for tests that fabricate images in memory.
func OpenReader(src io.ReadSeeker) (*VmcImage, error) {
	const op = "vmc.OpenReader"

	r, err := NewBinReader(src)
	if err != nil {
		return nil, newError(KindIo, op, err)
	}

	sb, err := DecodeSuperblock(r)
	if err != nil {
		return nil, err
	}
	common.LogInfo(common.InfoSuperblockParsed)

	fat, err := LoadFat(r, sb)
	if err != nil {
		return nil, err
	}

	return &VmcImage{reader: r, sb: sb, fat: fat}, nil
}

// Superblock returns the decoded superblock.
func (img *VmcImage) Superblock() *Superblock { return img.sb }

// Fat returns the materialized FAT.
func (img *VmcImage) Fat() *Fat { return img.fat }

// FreeClusters reports how many clusters the FAT marks free.
func (img *VmcImage) FreeClusters() uint32 {
	n := img.fat.CountFree()
	common.LogInfo(common.InfoFreeClusters)
	return n
}

// ListRoot lists the root directory's entries, in encounter order.
func (img *VmcImage) ListRoot() ([]DirEntry, error) {
	return ListRoot(img.reader, img.sb, img.fat)
}

// ReadFile materializes the byte contents of a file given its first cluster
// and declared size. A zero or Invalid first cluster yields an empty buffer.
func (img *VmcImage) ReadFile(firstCluster uint32, size uint32) ([]byte, error) {
	const op = "vmc.ReadFile"

	if firstCluster == 0 || firstCluster == Invalid {
		return []byte{}, nil
	}

	chain := img.fat.BuildChain(firstCluster)
	out := make([]byte, 0, size)
	remaining := int64(size)

	for _, cluster := range chain {
		if remaining <= 0 {
			break
		}
		offset := DataOffset(img.sb, cluster)
		if err := img.reader.Seek(offset); err != nil {
			break
		}

		toRead := int64(img.sb.ClusterSize)
		if remaining < toRead {
			toRead = remaining
		}
		chunk, err := img.reader.ReadBytes(int(toRead))
		if err != nil {
			return nil, newError(KindIo, op, err)
		}
		out = append(out, chunk...)
		remaining -= int64(len(chunk))
	}

	return out, nil
}

// Extractor performs a single extraction pass of every root-level
// subdirectory into an output directory, one level deep.
type Extractor struct {
	img       *VmcImage
	outputDir string
}

// NewExtractor builds an Extractor targeting outputDir.
func NewExtractor(img *VmcImage, outputDir string) *Extractor {
	return &Extractor{img: img, outputDir: outputDir}
}

// Extract ensures the output directory exists, then walks every root
// directory entry: subdirectories become <output>/<name>, and every
// regular file found one level inside them is extracted. Per-child
// failures are logged and skipped; they never abort the batch.
func (ex *Extractor) Extract() error {
	const op = "vmc.Extract"

	if err := os.MkdirAll(ex.outputDir, 0o755); err != nil {
		return newError(KindIo, op, err)
	}

	roots, err := ex.img.ListRoot()
	if err != nil {
		return err
	}

	for _, entry := range roots {
		if entry.IsDot() || !entry.IsDirectory() {
			continue
		}

		dirPath := filepath.Join(ex.outputDir, entry.Name)
		if err := os.MkdirAll(dirPath, 0o755); err != nil {
			common.LogWarn(common.WarnChildExtractFailed)
			continue
		}

		ex.extractChildren(entry, dirPath)
	}

	common.LogInfo(common.InfoExtractionComplete)
	return nil
}

func (ex *Extractor) extractChildren(parent DirEntry, dirPath string) {
	chain := ex.img.fat.BuildChain(parent.FirstCluster)
	entriesPerCluster := int(ex.img.sb.ClusterSize / dirEntrySize)

	for _, cluster := range chain {
		offset := DataOffset(ex.img.sb, cluster)
		if err := ex.img.reader.Seek(offset); err != nil {
			break
		}
		clusterBuf, err := ex.img.reader.ReadBytes(int(ex.img.sb.ClusterSize))
		if err != nil {
			break
		}

		for slot := 0; slot < entriesPerCluster; slot++ {
			raw := clusterBuf[slot*dirEntrySize : (slot+1)*dirEntrySize]
			child, ok := DecodeDirEntry(raw)
			if !ok || child.IsDot() || child.IsDirectory() {
				continue
			}
			if child.FirstCluster == 0 || child.FirstCluster == Invalid {
				continue
			}

			common.LogDebug(common.DebugExtractChild, parent.Name, child.Name)
			data, err := ex.img.ReadFile(child.FirstCluster, child.Length)
			if err != nil {
				common.LogWarn(common.WarnChildExtractFailed)
				continue
			}

			outPath := filepath.Join(dirPath, child.Name)
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				common.LogWarn(common.WarnChildExtractFailed)
				continue
			}
		}
	}

	common.LogInfo(common.InfoDirectoryExtracted)
}
