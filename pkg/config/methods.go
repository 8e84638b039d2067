package config

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

// PaymentMethod is a canonical payment method name and the shorthands
// accepted for it on the command line
type PaymentMethod struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

// PaymentMethods is the catalog the add command resolves -method against
type PaymentMethods struct {
	Methods []PaymentMethod `yaml:"methods"`

	byKey map[string]string
}

// DefaultPaymentMethods returns the built-in catalog
func DefaultPaymentMethods() *PaymentMethods {
	pm := &PaymentMethods{Methods: []PaymentMethod{
		{Name: "Nakit", Aliases: []string{"cash"}},
		{Name: "Kredi Kartı", Aliases: []string{"card", "kart", "credit"}},
		{Name: "Banka Transferi", Aliases: []string{"transfer", "havale", "eft"}},
	}}
	if err := pm.index(); err != nil {
		panic(err)
	}
	return pm
}

// LoadPaymentMethods reads a catalog from a YAML file. An empty path
// returns the built-in catalog.
func LoadPaymentMethods(path string) (*PaymentMethods, error) {
	if path == "" {
		return DefaultPaymentMethods(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read payment methods file: %w", err)
	}

	var pm PaymentMethods
	if err := yaml.Unmarshal(data, &pm); err != nil {
		return nil, fmt.Errorf("failed to parse payment methods: %w", err)
	}

	if err := pm.index(); err != nil {
		return nil, err
	}
	return &pm, nil
}

func (p *PaymentMethods) index() error {
	if len(p.Methods) == 0 {
		return fmt.Errorf("at least one payment method must be configured")
	}

	fold := cases.Fold()
	p.byKey = make(map[string]string)
	for _, m := range p.Methods {
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("payment method name is required")
		}
		for _, key := range append([]string{m.Name}, m.Aliases...) {
			k := fold.String(strings.TrimSpace(key))
			if prev, dup := p.byKey[k]; dup && prev != m.Name {
				return fmt.Errorf("payment method alias %q is used by both %q and %q", key, prev, m.Name)
			}
			p.byKey[k] = m.Name
		}
	}
	return nil
}

// Resolve maps a name or alias to its canonical name. Unknown input is
// returned trimmed, so free-form methods still work.
func (p *PaymentMethods) Resolve(input string) string {
	input = strings.TrimSpace(input)
	if name, ok := p.byKey[cases.Fold().String(input)]; ok {
		return name
	}
	return input
}

// Names lists the canonical names in catalog order
func (p *PaymentMethods) Names() []string {
	out := make([]string, 0, len(p.Methods))
	for _, m := range p.Methods {
		out = append(out, m.Name)
	}
	return out
}
