package seed

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"log"

	"gopkg.in/yaml.v3"

	"restaurant-pos/internal/domain"
)

//go:embed fixture.yaml
var defaultFixture []byte

type Fixture struct {
	Restaurant struct {
		Key                  string   `yaml:"key"`
		Name                 string   `yaml:"name"`
		ServiceChargePercent *float64 `yaml:"serviceChargePercent"`
	} `yaml:"restaurant"`
	Categories []categorySeed `yaml:"categories"`
	Products   []productSeed  `yaml:"products"`
	TaxRules   []taxRuleSeed  `yaml:"taxRules"`
}

type categorySeed struct {
	Key      string `yaml:"key"`
	Name     string `yaml:"name"`
	Position int    `yaml:"position"`
}

type productSeed struct {
	Key            string      `yaml:"key"`
	Name           string      `yaml:"name"`
	Description    string      `yaml:"description"`
	Category       string      `yaml:"category"`
	Price          float64     `yaml:"price"`
	Available      *bool       `yaml:"available"`
	ModifierGroups []groupSeed `yaml:"modifierGroups"`
}

type groupSeed struct {
	Name     string       `yaml:"name"`
	Mode     string       `yaml:"mode"`
	Required bool         `yaml:"required"`
	Min      int          `yaml:"min"`
	Max      int          `yaml:"max"`
	Options  []optionSeed `yaml:"options"`
}

type optionSeed struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	Price     float64 `yaml:"price"`
	Available *bool   `yaml:"available"`
}

type taxRuleSeed struct {
	Name         string   `yaml:"name"`
	Type         string   `yaml:"type"`
	Percentage   float64  `yaml:"percentage"`
	ApplicableOn string   `yaml:"applicableOn"`
	Categories   []string `yaml:"categories"`
	MinAmount    *float64 `yaml:"minAmount"`
	MaxAmount    *float64 `yaml:"maxAmount"`
	Compounded   bool     `yaml:"compounded"`
	Inactive     bool     `yaml:"inactive"`
}

type RestaurantWriter interface {
	Upsert(ctx context.Context, r domain.Restaurant) (*domain.Restaurant, error)
}

type CatalogWriter interface {
	UpsertCategory(ctx context.Context, c domain.Category) (*domain.Category, error)
	UpsertProduct(ctx context.Context, p domain.Product, categoryKey string) (*domain.Product, error)
}

type TaxWriter interface {
	List(ctx context.Context, restaurantID string, includeInactive bool) ([]domain.TaxRule, error)
	Create(ctx context.Context, restaurantID string, rule domain.TaxRule) (*domain.TaxRule, error)
	Update(ctx context.Context, restaurantID, id string, rule domain.TaxRule) (*domain.TaxRule, error)
}

type Seeder struct {
	Restaurants RestaurantWriter
	Catalog     CatalogWriter
	Taxes       TaxWriter
	// DefaultServiceCharge applies when the fixture restaurant has none.
	DefaultServiceCharge float64
	Logger               *log.Logger
}

// Load parses a YAML fixture; nil data loads the embedded one.
func Load(data []byte) (Fixture, error) {
	if data == nil {
		data = defaultFixture
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	if f.Restaurant.Key == "" {
		return Fixture{}, fmt.Errorf("parse fixture: restaurant key is required")
	}
	return f, nil
}

// Apply is idempotent: entities are upserted by key, tax rules by name.
func (s *Seeder) Apply(ctx context.Context, f Fixture) (*domain.Restaurant, error) {
	logger := s.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	charge := s.DefaultServiceCharge
	if f.Restaurant.ServiceChargePercent != nil {
		charge = *f.Restaurant.ServiceChargePercent
	}
	name := f.Restaurant.Name
	if name == "" {
		name = f.Restaurant.Key
	}
	rest, err := s.Restaurants.Upsert(ctx, domain.Restaurant{Key: f.Restaurant.Key, Name: name, ServiceChargePercent: charge})
	if err != nil {
		return nil, fmt.Errorf("ensure restaurant: %w", err)
	}

	categoryIDs := make(map[string]string, len(f.Categories))
	for _, c := range f.Categories {
		saved, err := s.Catalog.UpsertCategory(ctx, domain.Category{RestaurantID: rest.ID, Key: c.Key, Name: c.Name, Position: c.Position})
		if err != nil {
			return nil, fmt.Errorf("upsert category %s: %w", c.Key, err)
		}
		categoryIDs[c.Key] = saved.ID
	}

	for _, p := range f.Products {
		if _, err := s.Catalog.UpsertProduct(ctx, p.toDomain(rest.ID), p.Category); err != nil {
			return nil, fmt.Errorf("upsert product %s: %w", p.Key, err)
		}
	}

	existing, err := s.Taxes.List(ctx, rest.ID, true)
	if err != nil {
		return nil, fmt.Errorf("list tax rules: %w", err)
	}
	byName := make(map[string]string, len(existing))
	for _, r := range existing {
		byName[r.Name] = r.ID
	}
	for i, tr := range f.TaxRules {
		rule, err := tr.toDomain(i, categoryIDs)
		if err != nil {
			return nil, err
		}
		if id, ok := byName[tr.Name]; ok {
			_, err = s.Taxes.Update(ctx, rest.ID, id, rule)
		} else {
			_, err = s.Taxes.Create(ctx, rest.ID, rule)
		}
		if err != nil {
			return nil, fmt.Errorf("tax rule %s: %w", tr.Name, err)
		}
	}

	logger.Printf("seed: restaurant=%s categories=%d products=%d tax_rules=%d", rest.Key, len(f.Categories), len(f.Products), len(f.TaxRules))
	return rest, nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func (p productSeed) toDomain(restaurantID string) domain.Product {
	groups := make([]domain.ModifierGroup, 0, len(p.ModifierGroups))
	for i, g := range p.ModifierGroups {
		options := make([]domain.ModifierOption, 0, len(g.Options))
		for _, o := range g.Options {
			options = append(options, domain.ModifierOption{ID: o.ID, Name: o.Name, Price: o.Price, Available: boolOr(o.Available, true)})
		}
		mode := domain.SelectionMode(g.Mode)
		if mode == "" {
			mode = domain.SelectionSingle
		}
		groups = append(groups, domain.ModifierGroup{
			Name:          g.Name,
			SelectionMode: mode,
			Required:      g.Required,
			MinSelect:     g.Min,
			MaxSelect:     g.Max,
			Position:      i,
			Options:       options,
		})
	}
	return domain.Product{
		RestaurantID:   restaurantID,
		Key:            p.Key,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		Available:      boolOr(p.Available, true),
		ModifierGroups: groups,
	}
}

func (t taxRuleSeed) toDomain(position int, categoryIDs map[string]string) (domain.TaxRule, error) {
	cats := make([]string, 0, len(t.Categories))
	for _, key := range t.Categories {
		id, ok := categoryIDs[key]
		if !ok {
			return domain.TaxRule{}, fmt.Errorf("tax rule %s: unknown category %q", t.Name, key)
		}
		cats = append(cats, id)
	}
	scope := domain.OrderType(t.ApplicableOn)
	if scope == "" {
		scope = domain.OrderTypeAll
	}
	typ := domain.TaxType(t.Type)
	if typ == "" {
		typ = domain.TaxTypeCustom
	}
	return domain.TaxRule{
		Name:         t.Name,
		Type:         typ,
		Percentage:   t.Percentage,
		ApplicableOn: scope,
		Categories:   cats,
		MinAmount:    t.MinAmount,
		MaxAmount:    t.MaxAmount,
		IsCompounded: t.Compounded,
		Active:       !t.Inactive,
		Position:     position,
	}, nil
}
