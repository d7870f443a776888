package badges

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/models"
	"github.com/brian-miller-r/Henry-congressional-app-challenge/pkg/logger"
)

//go:embed badges.yaml
var catalogYAML []byte

// catalogFile is the YAML shape of the embedded badge catalog.
type catalogFile struct {
	Badges []catalogEntry `yaml:"badges"`
}

type catalogEntry struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Icon        string          `yaml:"icon"`
	Category    string          `yaml:"category"`
	Tier        string          `yaml:"tier"`
	Rarity      string          `yaml:"rarity"`
	Color       string          `yaml:"color"`
	Secret      bool            `yaml:"secret"`
	Criteria    catalogCriteria `yaml:"criteria"`
}

type catalogCriteria struct {
	Kind      string   `yaml:"kind"`
	Value     int      `yaml:"value"`
	Condition string   `yaml:"condition"`
	Hour      int      `yaml:"hour"`
	Subject   string   `yaml:"subject"`
	Subjects  []string `yaml:"subjects"`
	Rarities  []string `yaml:"rarities"`
}

// LoadCatalog decodes the embedded badge catalog into model rows. Every
// entry's criteria must parse; a catalog that ships an undecodable badge is
// a build defect, not a runtime condition.
func LoadCatalog() ([]models.Badge, error) {
	var file catalogFile
	if err := yaml.Unmarshal(catalogYAML, &file); err != nil {
		return nil, fmt.Errorf("failed to decode badge catalog: %w", err)
	}
	if len(file.Badges) == 0 {
		return nil, fmt.Errorf("badge catalog is empty")
	}

	catalog := make([]models.Badge, 0, len(file.Badges))
	seen := make(map[string]bool, len(file.Badges))
	for _, entry := range file.Badges {
		if entry.Name == "" {
			return nil, fmt.Errorf("badge catalog entry with empty name")
		}
		if seen[entry.Name] {
			return nil, fmt.Errorf("duplicate badge %q in catalog", entry.Name)
		}
		seen[entry.Name] = true

		points, ok := models.TierPoints[entry.Tier]
		if !ok {
			return nil, fmt.Errorf("badge %q: unknown tier %q", entry.Name, entry.Tier)
		}

		badge := models.Badge{
			Name:          entry.Name,
			Description:   entry.Description,
			Icon:          entry.Icon,
			Category:      entry.Category,
			Tier:          entry.Tier,
			Rarity:        entry.Rarity,
			Points:        points,
			CriteriaKind:  models.CriteriaKind(entry.Criteria.Kind),
			CriteriaValue: entry.Criteria.Value,
			Color:         entry.Color,
			IsSecret:      entry.Secret,
			IsActive:      true,
		}
		if err := badge.SetParams(&models.CriteriaParams{
			Condition: models.SpecialCondition(entry.Criteria.Condition),
			Hour:      entry.Criteria.Hour,
			Subject:   entry.Criteria.Subject,
			Subjects:  entry.Criteria.Subjects,
			Rarities:  entry.Criteria.Rarities,
		}); err != nil {
			return nil, err
		}

		if _, err := ParseCriteria(&badge); err != nil {
			return nil, fmt.Errorf("invalid catalog entry: %w", err)
		}
		catalog = append(catalog, badge)
	}
	return catalog, nil
}

// CatalogSeeder writes missing catalog badges to the database.
type CatalogSeeder interface {
	GetByName(name string) (*models.Badge, error)
	Create(badge *models.Badge) error
}

// SeedCatalog inserts any catalog badge not yet present in the database,
// keyed by name. Existing rows are left untouched so operator edits and
// earned-badge references survive restarts.
func SeedCatalog(repo CatalogSeeder, log *logger.Logger) error {
	catalog, err := LoadCatalog()
	if err != nil {
		return err
	}

	seeded := 0
	for i := range catalog {
		badge := &catalog[i]
		existing, err := repo.GetByName(badge.Name)
		if err != nil {
			return fmt.Errorf("failed to check badge %q: %w", badge.Name, err)
		}
		if existing != nil {
			continue
		}
		if err := repo.Create(badge); err != nil {
			return fmt.Errorf("failed to seed badge %q: %w", badge.Name, err)
		}
		seeded++
	}

	log.Info().
		Int("catalog_size", len(catalog)).
		Int("seeded", seeded).
		Msg("Badge catalog seeded")
	return nil
}
