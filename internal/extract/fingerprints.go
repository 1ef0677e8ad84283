package extract

import (
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed data/provider_fingerprints.yaml
var providerFingerprintsYAML []byte

//go:embed data/credit_fingerprints.yaml
var creditFingerprintsYAML []byte

// ProviderFingerprint identifies one website platform vendor.
type ProviderFingerprint struct {
	Name                string   `yaml:"name"`
	DisplayName         string   `yaml:"display_name"`
	FooterTextContains  []string `yaml:"footer_text_contains"`
	StructuredDataClues []string `yaml:"structured_data_clues"`
	DomainClues         []string `yaml:"domain_clues"`
	VerificationURL     string   `yaml:"verification_url"`
}

// CreditFingerprint identifies one embedded credit-application vendor by the
// domains its widgets load from.
type CreditFingerprint struct {
	Name        string   `yaml:"name"`
	DisplayName string   `yaml:"display_name"`
	Domains     []string `yaml:"domains"`
}

// FingerprintRegistry holds both fingerprint tables. The built-in tables ship
// embedded; Load* functions read replacements from disk so operators can
// extend them without a rebuild.
type FingerprintRegistry struct {
	Providers  []ProviderFingerprint
	CreditApps []CreditFingerprint
}

// DefaultFingerprints parses the embedded tables.
func DefaultFingerprints() (*FingerprintRegistry, error) {
	r := &FingerprintRegistry{}
	if err := yaml.Unmarshal(providerFingerprintsYAML, &r.Providers); err != nil {
		return nil, eris.Wrap(err, "extract: parse embedded provider fingerprints")
	}
	if err := yaml.Unmarshal(creditFingerprintsYAML, &r.CreditApps); err != nil {
		return nil, eris.Wrap(err, "extract: parse embedded credit fingerprints")
	}
	return r, nil
}

// LoadProviderFingerprints replaces the provider table from a YAML file.
func (r *FingerprintRegistry) LoadProviderFingerprints(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "extract: read provider fingerprints %s", path)
	}
	var providers []ProviderFingerprint
	if err := yaml.Unmarshal(data, &providers); err != nil {
		return eris.Wrapf(err, "extract: parse provider fingerprints %s", path)
	}
	r.Providers = providers
	return nil
}

// LoadCreditFingerprints replaces the credit-vendor table from a YAML file.
func (r *FingerprintRegistry) LoadCreditFingerprints(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "extract: read credit fingerprints %s", path)
	}
	var vendors []CreditFingerprint
	if err := yaml.Unmarshal(data, &vendors); err != nil {
		return eris.Wrapf(err, "extract: parse credit fingerprints %s", path)
	}
	r.CreditApps = vendors
	return nil
}
