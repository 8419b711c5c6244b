// Package catalog loads the read-only scheme catalog from YAML, validating it
// against an embedded JSON Schema before decoding.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"onegov/internal/scheme/models"
	"onegov/internal/vault/matcher"
	dErrors "onegov/pkg/domain-errors"
)

//go:embed schema.json
var schemaJSON string

//go:embed schemes.yaml
var defaultCatalog []byte

const schemaURL = "https://onegov.local/schemas/scheme-catalog.schema.json"

var compiledSchema = func() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, bytes.NewReader([]byte(schemaJSON))); err != nil {
		panic(fmt.Sprintf("scheme catalog schema load failed: %v", err))
	}
	return c.MustCompile(schemaURL)
}()

type document struct {
	CriteriaVersion int             `json:"criteria_version"`
	Schemes         []models.Scheme `json:"schemes"`
}

// Catalog is immutable after construction and safe for concurrent reads.
type Catalog struct {
	schemes []models.Scheme
	byID    map[string]int
}

// Load reads the catalog at path, or the built-in catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scheme catalog: %w", err)
	}
	return Parse(data)
}

// Parse validates shape only. Criterion types are checked per scheme by the
// eligibility engine, so one bad scheme does not take down the catalog.
//
// Errors: CodeConfiguration for malformed YAML, schema violations, an
// unsupported criteria version, duplicate scheme ids or a required-document
// tag outside the document vocabulary.
func Parse(data []byte) (*Catalog, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, "scheme catalog is not valid YAML")
	}
	// Round-trip through JSON so the validator and decoder see JSON types.
	asJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, "scheme catalog cannot be represented as JSON")
	}
	var instance any
	if err := json.Unmarshal(asJSON, &instance); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, "scheme catalog cannot be represented as JSON")
	}
	if err := compiledSchema.Validate(instance); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, "scheme catalog failed schema validation")
	}

	var doc document
	if err := json.Unmarshal(asJSON, &doc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, "scheme catalog decode failed")
	}
	if doc.CriteriaVersion != models.CriterionVocabularyVersion {
		return nil, dErrors.New(dErrors.CodeConfiguration,
			fmt.Sprintf("scheme catalog uses criteria version %d, want %d", doc.CriteriaVersion, models.CriterionVocabularyVersion))
	}
	return New(doc.Schemes)
}

// New builds a catalog from already-decoded schemes, preserving order.
func New(schemes []models.Scheme) (*Catalog, error) {
	c := &Catalog{
		schemes: make([]models.Scheme, 0, len(schemes)),
		byID:    make(map[string]int, len(schemes)),
	}
	for _, s := range schemes {
		if s.ID == "" {
			return nil, dErrors.New(dErrors.CodeConfiguration, "scheme id is required")
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, dErrors.New(dErrors.CodeConfiguration, "duplicate scheme id: "+s.ID)
		}
		if s.Criteria == nil {
			s.Criteria = []models.Criterion{}
		}
		for _, tag := range s.RequiredDocuments {
			if !matcher.Known(tag) {
				return nil, dErrors.New(dErrors.CodeConfiguration,
					fmt.Sprintf("scheme %s requires unknown document %q", s.ID, tag))
			}
		}
		if s.RequiredDocuments == nil {
			s.RequiredDocuments = []string{}
		}
		c.byID[s.ID] = len(c.schemes)
		c.schemes = append(c.schemes, s)
	}
	return c, nil
}

// List returns the schemes in catalog order. The slice is a copy; the
// schemes' inner slices are shared and must not be mutated.
func (c *Catalog) List() []models.Scheme {
	out := make([]models.Scheme, len(c.schemes))
	copy(out, c.schemes)
	return out
}

func (c *Catalog) Get(schemeID string) (models.Scheme, bool) {
	i, ok := c.byID[schemeID]
	if !ok {
		return models.Scheme{}, false
	}
	return c.schemes[i], true
}

func (c *Catalog) Len() int { return len(c.schemes) }
