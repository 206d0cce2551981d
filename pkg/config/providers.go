package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// providersFile is the on-disk shape of LLM_PROVIDERS_FILE
//
//	providers:
//	  - name: groq
//	    url: https://api.groq.com/openai/v1/chat/completions
//	    model: llama-3.3-70b-versatile
//	    api_key_env: GROQ_API_KEY
type providersFile struct {
	Providers []providerEntry `yaml:"providers"`
}

type providerEntry struct {
	Name      string `yaml:"name"`
	URL       string `yaml:"url"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// LoadProviders reads an ordered provider list from a YAML file.
// Credentials stay in the environment; the file only names the variable.
func LoadProviders(path string) ([]ProviderConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseProviders(data)
}

func parseProviders(data []byte) ([]ProviderConfig, error) {
	var file providersFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // typos fail loudly
	if err := dec.Decode(&file); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(file.Providers))
	providers := make([]ProviderConfig, 0, len(file.Providers))
	for i, p := range file.Providers {
		if p.Name == "" || p.URL == "" || p.Model == "" {
			return nil, fmt.Errorf("providers[%d]: name, url and model are required", i)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("providers[%d]: duplicate name %q", i, p.Name)
		}
		seen[p.Name] = true

		providers = append(providers, ProviderConfig{
			Name:   p.Name,
			URL:    p.URL,
			Model:  p.Model,
			APIKey: getEnv(p.APIKeyEnv, ""),
		})
	}

	return providers, nil
}
