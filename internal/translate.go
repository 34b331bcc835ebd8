package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/starford/graphol/internal/models"
	"github.com/starford/graphol/internal/ontoservice"
	"github.com/starford/graphol/internal/owl"
)

// Output formats for TranslateFile.
const (
	FormatFunctional = "functional"
	FormatJSON       = "json"
)

type translateOutput struct {
	OntologyIRI string         `json:"ontology_iri"`
	Prefix      string         `json:"prefix,omitempty"`
	Nodes       int            `json:"nodes"`
	Edges       int            `json:"edges"`
	Resolutions int            `json:"resolutions"`
	Counts      map[string]int `json:"counts"`
	Axioms      []models.Axiom `json:"axioms"`
}

// TranslateFile translates one diagram file and writes the ontology to w. It
// touches neither the workspace nor the index.
func TranslateFile(cfg *Config, file, format string, w io.Writer) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read diagram: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.App.LogLevel}))
	compiler := ontoservice.NewCompiler(cfg.Ontology.TranslatorOptions(logger)...)
	res, err := compiler.Translate(data, nil)
	if err != nil {
		return err
	}

	switch format {
	case "", FormatFunctional:
		return owl.WriteFunctional(w, res.Ontology)
	case FormatJSON:
		out := translateOutput{
			OntologyIRI: string(res.Ontology.IRI),
			Prefix:      res.Ontology.Prefix,
			Nodes:       res.Nodes,
			Edges:       res.Edges,
			Resolutions: res.Resolutions,
			Counts:      res.Ontology.Counts(),
			Axioms:      make([]models.Axiom, 0, res.Ontology.Len()),
		}
		for _, a := range res.Ontology.Axioms() {
			out.Axioms = append(out.Axioms, models.Axiom{Path: file, Kind: a.Kind().String(), Text: a.String()})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
