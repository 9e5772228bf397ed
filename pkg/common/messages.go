package common

import (
	"fmt"
	"log"
)

// Global variable to control debug output
var VerboseMode bool = false

// SetVerboseMode enables or disables verbose/debug output
func SetVerboseMode(verbose bool) {
	VerboseMode = verbose
}

// Error messages
const (
	ErrInvalidMagic           = "invalid VMC magic signature"
	ErrFailedToOpenImage      = "failed to open VMC image"
	ErrFailedToReadSuperblock = "failed to read superblock"
	ErrFailedToLoadFat        = "failed to load FAT"
	ErrFailedToReadDirEntry   = "failed to read directory entry"
	ErrRootOffsetOutOfRange   = "root directory offset exceeds image size"
	ErrFailedToCreateOutput   = "failed to create output directory"
	ErrFailedToExtractFile    = "failed to extract file"
	ErrFailedToOpenTitleDB    = "failed to open title database"
	ErrFailedToParseTitleDB   = "failed to parse title database"
	ErrTitleNotFound          = "title not found"
)

// Info messages
const (
	InfoImageOpened         = "VMC image opened"
	InfoSuperblockParsed    = "superblock parsed"
	InfoFatLoaded           = "FAT loaded"
	InfoRootListed          = "root directory listed"
	InfoFreeClusters        = "free clusters counted"
	InfoExtractionComplete  = "extraction complete"
	InfoDirectoryExtracted  = "directory extracted"
	InfoTitleDatabaseLoaded = "title database loaded"
	InfoFallbackTitleUsed   = "built-in title table used"
)

// Debug messages
const (
	DebugSuperblockField   = "superblock field %s = %v"
	DebugIFCPointer        = "IFC pointer %d: cluster %d"
	DebugFatClusterPointer = "FAT cluster pointer: %d"
	DebugChainStep         = "chain step: cluster %d, flag 0x%02X, next %d"
	DebugChainCycle        = "chain cycle detected at cluster %d"
	DebugDirEntrySkip      = "skipping non-existent directory entry at slot %d"
	DebugDirEntryFound     = "directory entry %q (dir=%v) at slot %d"
	DebugExtractChild      = "extracting %s/%s"
)

// Warning messages
const (
	WarnClusterBeyondImage  = "cluster index exceeds FAT length, stopping chain walk"
	WarnChildExtractFailed  = "failed to extract child entry, skipping"
	WarnTitleLookupFallback = "title lookup failed, falling back to built-in table"
)

// LogInfo logs an informational message
func LogInfo(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[INFO] "+message, args...)
	} else {
		log.Printf("[INFO] %s", message)
	}
}

// LogWarn logs a warning message
func LogWarn(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[WARN] "+message, args...)
	} else {
		log.Printf("[WARN] %s", message)
	}
}

// LogError logs an error message
func LogError(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[ERROR] "+message, args...)
	} else {
		log.Printf("[ERROR] %s", message)
	}
}

// LogDebug logs a debug message (only if VerboseMode is enabled)
func LogDebug(message string, args ...interface{}) {
	if !VerboseMode {
		return
	}
	if len(args) > 0 {
		log.Printf("[DEBUG] "+message, args...)
	} else {
		log.Printf("[DEBUG] %s", message)
	}
}

// FormatError creates a formatted error with additional context
func FormatError(baseMessage string, details interface{}) error {
	if err, ok := details.(error); ok {
		return fmt.Errorf("%s: %w", baseMessage, err)
	}
	return fmt.Errorf("%s: %v", baseMessage, details)
}

// FormatErrorString creates a formatted error with string details
func FormatErrorString(baseMessage, details string, args ...interface{}) error {
	if len(args) > 0 {
		return fmt.Errorf("%s: "+details, append([]interface{}{baseMessage}, args...)...)
	}
	return fmt.Errorf("%s: %s", baseMessage, details)
}
