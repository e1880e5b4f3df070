// Package data ships the default campaign rule tables. A directory on disk
// with the same file names can replace them without a rebuild.
package data

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
)

// File names looked up in the rule-data filesystem.
const (
	TerritoriesFile     = "territories.json"
	TerritorySchemaFile = "territory_schemas.json"
	GangsFile           = "gangs.json"
	InjuriesFile        = "injuries.json"
	LootBoxesFile       = "loot_boxes.json"
	XPTablesFile        = "xp_tables.json"
)

// Names lists every rule-data file.
var Names = []string{
	TerritoriesFile,
	TerritorySchemaFile,
	GangsFile,
	InjuriesFile,
	LootBoxesFile,
	XPTablesFile,
}

//go:embed *.json
var embedded embed.FS

// Files returns the rule-data filesystem: dir when set, the embedded defaults
// otherwise.
func Files(dir string) fs.FS {
	if dir == "" {
		return embedded
	}
	return os.DirFS(dir)
}

// Read returns one rule-data file.
func Read(fsys fs.FS, name string) ([]byte, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read rule data %s: %w", name, err)
	}
	return b, nil
}
