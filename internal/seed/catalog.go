package seed

import (
	_ "embed"
	"fmt"

	"bailemos/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog is the fixed demo data set: named academies and venues that are
// always present after seeding.
type Catalog struct {
	Academies      []AcademySpec       `yaml:"academies"`
	Establishments []EstablishmentSpec `yaml:"establishments"`
}

type AcademySpec struct {
	Name        string                `yaml:"name"`
	Email       string                `yaml:"email"`
	Phone       string                `yaml:"phone"`
	Address     string                `yaml:"address"`
	Description string                `yaml:"description"`
	Location    []float64             `yaml:"location"`
	Schedule    models.WeeklySchedule `yaml:"schedule"`
	Prices      []PriceSpec           `yaml:"prices"`
	Classes     []ClassSpec           `yaml:"classes"`
}

type PriceSpec struct {
	Type           models.PriceType `yaml:"type"`
	MonthlyPrice   float64          `yaml:"monthlyPrice"`
	ClassesPerWeek int              `yaml:"classesPerWeek"`
}

type ClassSpec struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Level       models.ClassLevel `yaml:"level"`
	Schedule    string            `yaml:"schedule"`
	Price       float64           `yaml:"price"`
}

type EstablishmentSpec struct {
	Name        string          `yaml:"name"`
	Email       string          `yaml:"email"`
	Phone       string          `yaml:"phone"`
	Address     string          `yaml:"address"`
	Description string          `yaml:"description"`
	Location    []float64       `yaml:"location"`
	Events      []EventSpec     `yaml:"events"`
	Promotions  []PromotionSpec `yaml:"promotions"`
}

// EventSpec dates are relative to the seeding time.
type EventSpec struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	InDays      int     `yaml:"inDays"`
	CoverCharge float64 `yaml:"coverCharge"`
}

type PromotionSpec struct {
	Title        string              `yaml:"title"`
	Description  string              `yaml:"description"`
	DiscountType models.DiscountType `yaml:"discountType"`
	Value        float64             `yaml:"value"`
	ValidDays    int                 `yaml:"validDays"`
}

// LoadCatalog parses the embedded catalogue.
func LoadCatalog() (*Catalog, error) {
	return parseCatalog(catalogYAML)
}

func parseCatalog(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for _, a := range c.Academies {
		if err := checkSpec(a.Name, a.Email, a.Location); err != nil {
			return nil, err
		}
		for _, p := range a.Prices {
			if !p.Type.Valid() {
				return nil, fmt.Errorf("academy %s: unknown price type %q", a.Name, p.Type)
			}
		}
		for _, cl := range a.Classes {
			if !cl.Level.Valid() {
				return nil, fmt.Errorf("academy %s: unknown class level %q", a.Name, cl.Level)
			}
		}
	}
	for _, e := range c.Establishments {
		if err := checkSpec(e.Name, e.Email, e.Location); err != nil {
			return nil, err
		}
		for _, p := range e.Promotions {
			if !p.DiscountType.Valid() {
				return nil, fmt.Errorf("establishment %s: unknown discount type %q", e.Name, p.DiscountType)
			}
		}
	}
	return &c, nil
}

func checkSpec(name, email string, location []float64) error {
	if name == "" || email == "" {
		return fmt.Errorf("catalog entry %q needs a name and an email", name)
	}
	if location != nil && len(location) != 2 {
		return fmt.Errorf("catalog entry %s: location must be [longitude, latitude]", name)
	}
	return nil
}
