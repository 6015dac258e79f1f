package data

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SpawnEntry defines a monster spawner placement loaded from spawners.yaml.
type SpawnEntry struct {
	RefID uint32  `yaml:"ref_id"`
	X     float32 `yaml:"x"`
	Z     float32 `yaml:"z"`
}

type spawnFile struct {
	Spawners []SpawnEntry `yaml:"spawners"`
}

// Tables aggregates all static game data. Loaded once at startup, immutable
// afterwards, freely shared.
type Tables struct {
	Characters *CharacterMap
	Items      *ItemMap
	Skills     *SkillMap
	Levels     *LevelMap
	Gold       *GoldMap
	Spawners   []SpawnEntry
}

// Load reads every static table from the data directory. Any missing or
// corrupt file is fatal at startup.
func Load(dir string) (*Tables, error) {
	characters, err := LoadCharacterMap(filepath.Join(dir, "characterdata.yaml"))
	if err != nil {
		return nil, err
	}
	items, err := LoadItemMap(filepath.Join(dir, "itemdata.yaml"))
	if err != nil {
		return nil, err
	}
	skills, err := LoadSkillMap(filepath.Join(dir, "skilldata.yaml"))
	if err != nil {
		return nil, err
	}
	levels, err := LoadLevelMap(filepath.Join(dir, "leveldata.yaml"))
	if err != nil {
		return nil, err
	}
	gold, err := LoadGoldMap(filepath.Join(dir, "levelgold.yaml"))
	if err != nil {
		return nil, err
	}
	spawners, err := loadSpawners(filepath.Join(dir, "spawners.yaml"))
	if err != nil {
		return nil, err
	}
	return &Tables{
		Characters: characters,
		Items:      items,
		Skills:     skills,
		Levels:     levels,
		Gold:       gold,
		Spawners:   spawners,
	}, nil
}

func loadSpawners(path string) ([]SpawnEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spawner data %s: %w", path, err)
	}
	var f spawnFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse spawner data: %w", err)
	}
	return f.Spawners, nil
}
