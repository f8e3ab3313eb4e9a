// Package catalog loads the settlement, region, and property definitions
// the economy service operates over. The catalog is startup configuration:
// it is read once, validated, and never mutated at runtime.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ravenmoor/ravenmoor/internal/services/economy/domain/coinhouse"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/domain/money"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/domain/rental"
)

// Settlement is one named settlement with an optional coinhouse.
type Settlement struct {
	Tag          string `yaml:"tag"`
	Name         string `yaml:"name"`
	CoinhouseTag string `yaml:"coinhouse_tag"`
}

// Region is one world region grouping in-world areas under a settlement.
type Region struct {
	Tag        string   `yaml:"tag"`
	Name       string   `yaml:"name"`
	Settlement string   `yaml:"settlement"`
	Areas      []string `yaml:"areas"`
}

// Property is one rentable property entry. A property without its own
// coinhouse tag inherits its settlement's.
type Property struct {
	ID                    string `yaml:"id"`
	InternalName          string `yaml:"internal_name"`
	Settlement            string `yaml:"settlement"`
	Category              string `yaml:"category"`
	MonthlyRent           int64  `yaml:"monthly_rent"`
	AllowsCoinhouseRental bool   `yaml:"allows_coinhouse_rental"`
	AllowsDirectRental    bool   `yaml:"allows_direct_rental"`
	CoinhouseTag          string `yaml:"coinhouse_tag"`
	PurchasePrice         *int64 `yaml:"purchase_price"`
	MonthlyOwnershipTax   *int64 `yaml:"monthly_ownership_tax"`
}

type file struct {
	Settlements []Settlement `yaml:"settlements"`
	Regions     []Region     `yaml:"regions"`
	Properties  []Property   `yaml:"properties"`
}

// Catalog is the validated, immutable world catalog.
type Catalog struct {
	settlements map[string]Settlement
	definitions map[rental.PropertyID]rental.Definition
	areaRegions map[string]rental.Region
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("catalog path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	catalog := &Catalog{
		settlements: make(map[string]Settlement, len(f.Settlements)),
		definitions: make(map[rental.PropertyID]rental.Definition, len(f.Properties)),
		areaRegions: make(map[string]rental.Region),
	}

	for _, settlement := range f.Settlements {
		tag := strings.ToLower(strings.TrimSpace(settlement.Tag))
		if tag == "" {
			return nil, fmt.Errorf("settlement tag is required")
		}
		if _, exists := catalog.settlements[tag]; exists {
			return nil, fmt.Errorf("duplicate settlement tag %q", tag)
		}
		settlement.Tag = tag
		settlement.CoinhouseTag = strings.ToLower(strings.TrimSpace(settlement.CoinhouseTag))
		catalog.settlements[tag] = settlement
	}

	regionTags := make(map[string]bool, len(f.Regions))
	for _, region := range f.Regions {
		tag := strings.ToLower(strings.TrimSpace(region.Tag))
		if tag == "" {
			return nil, fmt.Errorf("region tag is required")
		}
		if regionTags[tag] {
			return nil, fmt.Errorf("duplicate region tag %q", tag)
		}
		regionTags[tag] = true
		settlementTag := strings.ToLower(strings.TrimSpace(region.Settlement))
		if _, ok := catalog.settlements[settlementTag]; !ok {
			return nil, fmt.Errorf("region %q names unknown settlement %q", tag, region.Settlement)
		}
		resolved := rental.Region{
			Tag:        tag,
			Name:       strings.TrimSpace(region.Name),
			Settlement: rental.NewSettlementTag(settlementTag),
		}
		for _, area := range region.Areas {
			area = strings.TrimSpace(area)
			if area == "" {
				return nil, fmt.Errorf("region %q lists an empty area", tag)
			}
			if existing, taken := catalog.areaRegions[area]; taken {
				return nil, fmt.Errorf("area %q claimed by regions %q and %q", area, existing.Tag, tag)
			}
			catalog.areaRegions[area] = resolved
		}
	}

	for _, property := range f.Properties {
		definition, err := catalog.resolveProperty(property)
		if err != nil {
			return nil, err
		}
		if _, exists := catalog.definitions[definition.ID]; exists {
			return nil, fmt.Errorf("duplicate property id %q", definition.ID)
		}
		catalog.definitions[definition.ID] = definition
	}

	return catalog, nil
}

func (c *Catalog) resolveProperty(property Property) (rental.Definition, error) {
	id := strings.TrimSpace(property.ID)
	settlementTag := strings.ToLower(strings.TrimSpace(property.Settlement))
	settlement, ok := c.settlements[settlementTag]
	if !ok {
		return rental.Definition{}, fmt.Errorf("property %q names unknown settlement %q", id, property.Settlement)
	}

	rent, err := money.NewGold(property.MonthlyRent)
	if err != nil {
		return rental.Definition{}, fmt.Errorf("property %q monthly rent: %w", id, err)
	}

	coinhouseTag := strings.ToLower(strings.TrimSpace(property.CoinhouseTag))
	if coinhouseTag == "" {
		coinhouseTag = settlement.CoinhouseTag
	}

	definition := rental.Definition{
		ID:                     rental.PropertyID(id),
		InternalName:           strings.TrimSpace(property.InternalName),
		Settlement:             rental.NewSettlementTag(settlementTag),
		Category:               strings.TrimSpace(property.Category),
		MonthlyRent:            rent,
		AllowsCoinhouseRental:  property.AllowsCoinhouseRental,
		AllowsDirectRental:     property.AllowsDirectRental,
		SettlementCoinhouseTag: coinhouse.NewTag(coinhouseTag),
	}
	if property.PurchasePrice != nil {
		price, err := money.NewGold(*property.PurchasePrice)
		if err != nil {
			return rental.Definition{}, fmt.Errorf("property %q purchase price: %w", id, err)
		}
		definition.PurchasePrice = &price
	}
	if property.MonthlyOwnershipTax != nil {
		tax, err := money.NewGold(*property.MonthlyOwnershipTax)
		if err != nil {
			return rental.Definition{}, fmt.Errorf("property %q ownership tax: %w", id, err)
		}
		definition.MonthlyOwnershipTax = &tax
	}
	if err := definition.Validate(); err != nil {
		return rental.Definition{}, fmt.Errorf("property %q: %w", id, err)
	}
	return definition, nil
}

// Definition returns one property definition by id.
func (c *Catalog) Definition(id rental.PropertyID) (rental.Definition, bool) {
	definition, ok := c.definitions[id]
	return definition, ok
}

// Definitions returns all property definitions keyed by id.
func (c *Catalog) Definitions() map[rental.PropertyID]rental.Definition {
	out := make(map[rental.PropertyID]rental.Definition, len(c.definitions))
	for id, definition := range c.definitions {
		out[id] = definition
	}
	return out
}

// RegionForArea resolves the region covering an in-world area. The catalog
// satisfies the rental service's region index directly.
func (c *Catalog) RegionForArea(area string) (rental.Region, bool) {
	region, ok := c.areaRegions[strings.TrimSpace(area)]
	return region, ok
}

// Settlement returns one settlement by tag.
func (c *Catalog) Settlement(tag string) (Settlement, bool) {
	settlement, ok := c.settlements[strings.ToLower(strings.TrimSpace(tag))]
	return settlement, ok
}

var _ rental.RegionIndex = (*Catalog)(nil)
