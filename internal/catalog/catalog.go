package catalog

import (
	"fmt"
	"os"

	"github.com/dkraev/lingobook/internal/domain"
	"gopkg.in/yaml.v3"
)

// Catalog holds the static set of bookable services and operating cities.
// It is built once at process start and is read-only afterwards.
type Catalog struct {
	services []domain.Service
	cities   []domain.City

	servicesByID    map[string]domain.Service
	providersByCity map[string][]string
}

type seedFile struct {
	Services []seedService `yaml:"services"`
	Cities   []seedCity    `yaml:"cities"`
}

type seedService struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	BaseRate    int64  `yaml:"base_rate"`
	Description string `yaml:"description"`
}

type seedCity struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Providers []string `yaml:"providers"`
}

// Load reads the catalog seed from a YAML file. An empty path yields the
// built-in demo catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog seed: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse catalog seed: %w", err)
	}

	services := make([]domain.Service, 0, len(seed.Services))
	for _, s := range seed.Services {
		services = append(services, domain.Service{ID: s.ID, Name: s.Name, BaseRate: s.BaseRate, Description: s.Description})
	}
	cities := make([]domain.City, 0, len(seed.Cities))
	for _, c := range seed.Cities {
		cities = append(cities, domain.City{ID: c.ID, Name: c.Name, Providers: c.Providers})
	}

	return New(services, cities), nil
}

// Default returns the demo catalog.
func Default() *Catalog {
	services := []domain.Service{
		{ID: "1", Name: "Intensive German Course", BaseRate: 75, Description: "Comprehensive German language course for all levels"},
		{ID: "2", Name: "Business English Course", BaseRate: 85, Description: "Professional English for business environments"},
		{ID: "3", Name: "Spanish Conversation Course", BaseRate: 65, Description: "Focus on speaking and conversation skills"},
	}
	cities := []domain.City{
		{ID: "1", Name: "Berlin", Providers: []string{"provider1", "provider2"}},
		{ID: "2", Name: "Munich", Providers: []string{"provider3", "provider4"}},
		{ID: "3", Name: "Hamburg", Providers: []string{"provider5"}},
		{ID: "4", Name: "Frankfurt", Providers: []string{"provider6", "provider7"}},
	}
	return New(services, cities)
}

func New(services []domain.Service, cities []domain.City) *Catalog {
	c := &Catalog{
		services:        services,
		cities:          cities,
		servicesByID:    make(map[string]domain.Service, len(services)),
		providersByCity: make(map[string][]string, len(cities)),
	}
	for _, s := range services {
		c.servicesByID[s.ID] = s
	}
	for _, city := range cities {
		c.providersByCity[city.Name] = city.Providers
	}
	return c
}

func (c *Catalog) Services() []domain.Service {
	return c.services
}

func (c *Catalog) Cities() []domain.City {
	return c.cities
}

func (c *Catalog) ServiceByID(id string) (domain.Service, bool) {
	s, ok := c.servicesByID[id]
	return s, ok
}

// ProvidersInCity returns the providers operating in the named city.
func (c *Catalog) ProvidersInCity(city string) []string {
	return c.providersByCity[city]
}

// CitiesForProvider returns the names of the cities the provider serves.
func (c *Catalog) CitiesForProvider(providerID string) []string {
	var names []string
	for _, city := range c.cities {
		for _, p := range city.Providers {
			if p == providerID {
				names = append(names, city.Name)
				break
			}
		}
	}
	return names
}
