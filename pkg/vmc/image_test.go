package vmc

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func buildMinimalImage(clusterSize uint32) []byte {
	buf := make([]byte, 0x200)
	copy(buf[offMagic:], Magic)
	binary.LittleEndian.PutUint16(buf[offPageSize:], 512)
	binary.LittleEndian.PutUint16(buf[offPagesPerCluster:], 2)
	binary.LittleEndian.PutUint32(buf[offAllocOffset:], 0)
	binary.LittleEndian.PutUint32(buf[offRootdirCluster:], 0)
	for i := 0; i < ifcListLen; i++ {
		binary.LittleEndian.PutUint32(buf[offIfcPtrList+i*4:], 0)
	}
	binary.LittleEndian.PutUint32(buf[offClusterSize:], clusterSize)
	binary.LittleEndian.PutUint32(buf[offMaxAllocatableClusters:], 100)
	return buf
}

func TestOpenReader_ScenarioA_ValidMagicOnly(t *testing.T) {
	// file of 4096 bytes beginning with the exact magic, remainder zero:
	// cluster_size is therefore 0 too.
	buf := make([]byte, 4096)
	copy(buf[offMagic:], Magic)

	img, err := OpenReader(bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	if img.FreeClusters() != 0 {
		t.Errorf("FreeClusters() = %d, want 0", img.FreeClusters())
	}

	_, err = img.ListRoot()
	if err == nil {
		t.Fatal("ListRoot() should fail when root offset is beyond the image")
	}
	if !Is(err, KindInvalidFormat) {
		t.Errorf("ListRoot() error kind = %v, want KindInvalidFormat", err)
	}
}

func TestOpenReader_ScenarioB_InvalidMagic(t *testing.T) {
	buf := make([]byte, 4096)
	copy(buf, []byte("Invalid PS2 memory card format.... "))

	_, err := OpenReader(bytes.NewReader(buf))
	if err == nil {
		t.Fatal("OpenReader() should fail on invalid magic")
	}
}

func TestOpen_ScenarioC_NonexistentPath(t *testing.T) {
	_, err := Open("void")
	if err == nil {
		t.Fatal("Open() should fail for a non-existent path")
	}
	if !Is(err, KindIo) {
		t.Errorf("Open() error kind = %v, want KindIo", err)
	}
}

func TestVmcImage_ReadFile_EmptyForInvalidCluster(t *testing.T) {
	buf := buildMinimalImage(1024)
	img, err := OpenReader(bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}

	data, err := img.ReadFile(0, 100)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(data) != 0 {
		t.Errorf("ReadFile(0, ...) = %d bytes, want 0", len(data))
	}

	data, err = img.ReadFile(Invalid, 100)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(data) != 0 {
		t.Errorf("ReadFile(Invalid, ...) = %d bytes, want 0", len(data))
	}
}

func TestExtractor_CreatesOutputAndExtractsFile(t *testing.T) {
	const clusterSize = 1024

	// layout (4 clusters of clusterSize bytes, alloc_offset = 1):
	// image cluster 0: superblock (data-area cluster indices start at 1)
	// image cluster 1 (data cluster 0): root dir (header "." + "SAVE1")
	// image cluster 2 (data cluster 1): SAVE1's directory listing
	// image cluster 3 (data cluster 2): the child file's data
	full := make([]byte, 4*clusterSize)

	sbFields := buildMinimalImage(clusterSize)
	binary.LittleEndian.PutUint32(sbFields[offAllocOffset:], 1)
	binary.LittleEndian.PutUint32(sbFields[offRootdirCluster:], 0)
	copy(full[0:], sbFields)

	copy(full[clusterSize+0:], makeDirEntryBytes(ModeExists|ModeDirectory, 2, 0, ".", [8]byte{}, [8]byte{}))
	copy(full[clusterSize+dirEntrySize:], makeDirEntryBytes(ModeExists|ModeDirectory, 2, 1, "SAVE1", [8]byte{}, [8]byte{}))

	fileData := []byte("hello vmc")
	copy(full[2*clusterSize+0:], makeDirEntryBytes(ModeExists, uint32(len(fileData)), 2, "ICON.SYS", [8]byte{}, [8]byte{}))

	copy(full[3*clusterSize:], fileData)

	imgObj, err := OpenReader(bytes.NewReader(full))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}

	tmpDir := t.TempDir()
	extractor := NewExtractor(imgObj, tmpDir)
	if err := extractor.Extract(); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(tmpDir, "SAVE1", "ICON.SYS"))
	if err != nil {
		t.Fatalf("expected extracted file, read error = %v", err)
	}
	if !bytes.Equal(got, fileData) {
		t.Errorf("extracted file content = %q, want %q", got, fileData)
	}
}
