// Package titledb resolves a PS2 memory-card save's game ID to a human
// title, backed by an optional TSV database with a small built-in fallback.
package titledb

import (
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/hansbonini/vmctool/pkg/common"
)

// Entry mirrors one row of the title database. Only ID and Title are
// consumed by the lookup path; the rest is preserved for compatibility with
// the original database file's column shape.
type Entry struct {
	ID          string
	Title       string
	Developer   string
	Genre       string
	Language    string
	Publisher   string
	Region      string
	ReleaseDate string
}

// builtinTable is the small fallback used when no TSV is configured or the
// id isn't present there.
var builtinTable = map[string]string{
	"BESLES-55673": "PES 2014: Pro Evolution Soccer",
	"BASLUS-21050": "Burnout 3: Takedown",
	"BASLUS-21846": "Sonic Unleashed",
	"BASCUS-97436": "Gran Turismo 4",
	"BASLUS-21672": "Guitar Hero III: Legends of Rock",
	"BISLPS-25912": "Soul Eater: Battle Resonance",
	"BASLUS-21106": "True Crime: New York City",
}

// knownSuffixes is checked longest-first so a save name is never stripped
// of a short suffix that is itself a substring of a longer one.
var knownSuffixes = []string{
	"SAVEDATA", "GAMEDATA", "BEMU5YYY",
	"2014OPT", "2014000",
	"SYSTEM", "CONFIG",
	"TCNYC",
	"DAT0", "DAT1", "DAT2",
	"DATA", "SAVE", "SYS",
	"OPT",
	"000", "001", "002", "003", "004", "005", "006", "007", "008", "009",
}

// displaySuffixes is the subset appended to a rendered title.
var displaySuffixes = map[string]bool{
	"2014OPT":  true,
	"2014000":  true,
	"DAT0":     true,
	"BEMU5YYY": true,
	"TCNYC":    true,
}

func init() {
	sort.Slice(knownSuffixes, func(i, j int) bool {
		return len(knownSuffixes[i]) > len(knownSuffixes[j])
	})
}

// ExtractedID is a save name split into its game ID and optional suffix.
type ExtractedID struct {
	ID     string
	Suffix string
}

// ExtractID uppercases name and strips the longest matching known suffix.
func ExtractID(name string) ExtractedID {
	upper := strings.ToUpper(name)
	for _, suffix := range knownSuffixes {
		if strings.HasSuffix(upper, suffix) {
			return ExtractedID{ID: strings.TrimSuffix(upper, suffix), Suffix: suffix}
		}
	}
	return ExtractedID{ID: upper, Suffix: ""}
}

// LookupFunc resolves a game id to a title; it is the core's injected
// collaborator, matching the save-name -> title rendering described for the
// title-lookup adapter.
type LookupFunc func(id string) (title string, found bool)

// DB is a loaded TSV title database.
type DB struct {
	entries []Entry
}

// Load reads a tab-separated title database from path. Each row corresponds
// to an Entry in column order (id, title, developer, genre, language,
// publisher, region, release_date).
func Load(path string) (*DB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, common.FormatErrorString(common.ErrFailedToOpenTitleDB, err.Error())
	}
	defer f.Close()

	db, err := loadFrom(f)
	if err != nil {
		return nil, common.FormatErrorString(common.ErrFailedToParseTitleDB, err.Error())
	}
	common.LogInfo(common.InfoTitleDatabaseLoaded)
	return db, nil
}

func loadFrom(r io.Reader) (*DB, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1

	var entries []Entry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, rowToEntry(record))
	}

	return &DB{entries: entries}, nil
}

func rowToEntry(row []string) Entry {
	get := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return Entry{
		ID:          get(0),
		Title:       get(1),
		Developer:   get(2),
		Genre:       get(3),
		Language:    get(4),
		Publisher:   get(5),
		Region:      get(6),
		ReleaseDate: get(7),
	}
}

// Lookup performs the case-insensitive "contains" match the source used:
// a query matches any row whose id or title contains it. The last match
// wins, mirroring the source's Vec::pop() behavior over accumulated
// results.
func (db *DB) Lookup(query string) (title string, found bool) {
	if db == nil {
		return "", false
	}
	needle := strings.ToLower(query)

	for i := len(db.entries) - 1; i >= 0; i-- {
		e := db.entries[i]
		if strings.Contains(strings.ToLower(e.ID), needle) || strings.Contains(strings.ToLower(e.Title), needle) {
			return e.Title, true
		}
	}
	return "", false
}

// LookupFunc adapts the DB into the core's injected LookupFunc, falling
// back to the built-in table when db is nil or the id isn't found.
func (db *DB) LookupFunc() LookupFunc {
	return func(id string) (string, bool) {
		if db != nil {
			if title, ok := db.Lookup(id); ok {
				return title, true
			}
			common.LogWarn(common.WarnTitleLookupFallback)
		}
		title, ok := builtinTable[id]
		return title, ok
	}
}

// RenderTitle resolves a save name to its display title: "<title>" or
// "<title> (<suffix>)" when the suffix is in the display set, falling back
// to "Unknown Game (<id>)" when lookup fails entirely.
func RenderTitle(lookup LookupFunc, saveName string) string {
	extracted := ExtractID(saveName)

	title, found := lookup(extracted.ID)
	if !found {
		return "Unknown Game (" + extracted.ID + ")"
	}
	if displaySuffixes[extracted.Suffix] {
		return title + " (" + extracted.Suffix + ")"
	}
	return title
}
