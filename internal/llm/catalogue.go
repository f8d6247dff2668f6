package llm

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ModelOption is one entry of the model picker.
type ModelOption struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

// ProviderModels lists the models offered for one provider.
type ProviderModels struct {
	Name   string        `yaml:"name" json:"name"`
	Models []ModelOption `yaml:"models" json:"models"`
}

// Catalogue is the set of provider/model pairs the settings page offers.
type Catalogue struct {
	Providers []ProviderModels `yaml:"providers" json:"providers"`
}

// DefaultCatalogue is used when no catalogue file is configured.
func DefaultCatalogue() *Catalogue {
	return &Catalogue{Providers: []ProviderModels{
		{
			Name: "OpenAI",
			Models: []ModelOption{
				{ID: "gpt-4o-mini", Label: "GPT-4o Mini"},
				{ID: "gpt-3.5-turbo", Label: "GPT-3.5 Turbo"},
			},
		},
		{
			Name: "OpenRouter",
			Models: []ModelOption{
				{ID: "qwen/qwen3-235b-a22b:free", Label: "Qwen3 235B (free)"},
				{ID: "meta-llama/llama-3.2-3b-instruct:free", Label: "Llama 3.2 3B Instruct (free)"},
				{ID: "microsoft/phi-3-mini-128k-instruct:free", Label: "Phi-3 Mini 128K (free)"},
				{ID: "google/gemma-2-9b-it:free", Label: "Gemma 2 9B (free)"},
			},
		},
	}}
}

// LoadCatalogue reads a YAML catalogue from path. Provider names must be among
// allowed and every provider needs at least one model.
func LoadCatalogue(path string, allowed []string) (*Catalogue, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read catalogue file: %w", err)
	}

	var cat Catalogue
	if err := yaml.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("could not parse catalogue file: %w", err)
	}
	if len(cat.Providers) == 0 {
		return nil, fmt.Errorf("catalogue file %s lists no providers", path)
	}
	for _, p := range cat.Providers {
		if !slices.Contains(allowed, p.Name) {
			return nil, fmt.Errorf("catalogue file %s: unknown provider %q", path, p.Name)
		}
		if len(p.Models) == 0 {
			return nil, fmt.Errorf("catalogue file %s: provider %q has no models", path, p.Name)
		}
		for i, m := range p.Models {
			if m.ID == "" {
				return nil, fmt.Errorf("catalogue file %s: provider %q model #%d has no id", path, p.Name, i+1)
			}
			if m.Label == "" {
				p.Models[i].Label = m.ID
			}
		}
	}
	return &cat, nil
}

// Models returns the options for provider, or nil when it is not listed.
func (c *Catalogue) Models(provider string) []ModelOption {
	for _, p := range c.Providers {
		if p.Name == provider {
			return p.Models
		}
	}
	return nil
}
