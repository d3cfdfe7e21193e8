package taxonomy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Kyz7/backoffice/internal/models"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SeedFile struct {
	Categories []string `yaml:"categories"`
	Brands     []string `yaml:"brands"`
}

func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("taxonomy seed: read %s: %w", path, err)
	}

	var parsed SeedFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("taxonomy seed: parse %s: %w", path, err)
	}
	return &parsed, nil
}

// SeedFromFile inserts any categories and brands from the YAML file that do
// not exist yet. A missing file is not an error.
func SeedFromFile(db *gorm.DB, path string) error {
	seed, err := LoadSeedFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug().Str("path", path).Msg("no taxonomy seed file")
			return nil
		}
		return err
	}
	return Seed(db, seed)
}

func Seed(db *gorm.DB, seed *SeedFile) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, raw := range seed.Categories {
			name, err := normalizeName(raw)
			if err != nil {
				return fmt.Errorf("taxonomy seed: category %q: %w", raw, err)
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Category{Name: name}).Error; err != nil {
				return err
			}
		}
		for _, raw := range seed.Brands {
			name, err := normalizeName(raw)
			if err != nil {
				return fmt.Errorf("taxonomy seed: brand %q: %w", raw, err)
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Brand{Name: name}).Error; err != nil {
				return err
			}
		}
		log.Info().Int("categories", len(seed.Categories)).Int("brands", len(seed.Brands)).Msg("Taxonomy seeded")
		return nil
	})
}
