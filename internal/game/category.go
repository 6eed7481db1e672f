package game

import (
	"fmt"
	"strings"
)

// Category tags what a block does when a player stops on it.
type Category int

const (
	Go Category = iota
	Property
	Company
	Tax
	Jail
	GoToJail
	Chance
	Reverse
	FreeParking
)

var categoryNames = [...]string{
	Go:          "go",
	Property:    "property",
	Company:     "company",
	Tax:         "tax",
	Jail:        "jail",
	GoToJail:    "go_to_jail",
	Chance:      "chance",
	Reverse:     "reverse",
	FreeParking: "free_parking",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// Purchasable reports whether blocks of this category can be owned.
func (c Category) Purchasable() bool {
	return c == Property || c == Company
}

// ParseCategory parses the lower_snake name of a category. Dashes, spaces and
// case are tolerated so board files can say "Go To Jail".
func ParseCategory(s string) (Category, error) {
	key := normalize(s)
	for c, name := range categoryNames {
		if name == key {
			return Category(c), nil
		}
	}
	return 0, fmt.Errorf("unknown block category %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// BuildingCategory selects the evolution track and rent multiplier of an
// ownable block.
type BuildingCategory int

const (
	NoBuilding BuildingCategory = iota
	House
	Hotel
	CompanyBuilding
	Special
)

var buildingNames = [...]string{
	NoBuilding:      "none",
	House:           "house",
	Hotel:           "hotel",
	CompanyBuilding: "company",
	Special:         "special",
}

func (b BuildingCategory) String() string {
	if b < 0 || int(b) >= len(buildingNames) {
		return fmt.Sprintf("building(%d)", int(b))
	}
	return buildingNames[b]
}

// ParseBuildingCategory parses a building category name. The empty string
// means NoBuilding.
func ParseBuildingCategory(s string) (BuildingCategory, error) {
	key := normalize(s)
	if key == "" {
		return NoBuilding, nil
	}
	for b, name := range buildingNames {
		if name == key {
			return BuildingCategory(b), nil
		}
	}
	return 0, fmt.Errorf("unknown building category %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (b BuildingCategory) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *BuildingCategory) UnmarshalText(text []byte) error {
	parsed, err := ParseBuildingCategory(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}
