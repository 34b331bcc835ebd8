package ontoservice

import (
	"fmt"

	"github.com/starford/graphol/internal/apperr"
	"github.com/starford/graphol/internal/diagram"
	"github.com/starford/graphol/internal/translator"
)

// Compiler decodes diagram documents and translates them. Each call gets a
// fresh Translator, so a Compiler is safe for concurrent use.
type Compiler struct {
	opts []translator.Option
}

// NewCompiler returns a Compiler whose translators start from opts. A
// document's own iri and prefix override the configured ones.
func NewCompiler(opts ...translator.Option) *Compiler {
	return &Compiler{opts: opts}
}

// Translate decodes data and runs one translation. Decode failures and
// malformed diagrams are reported as apperr.ErrInvalidDiagram; the latter
// also unwrap to *translator.MalformedDiagramError.
func (c *Compiler) Translate(data []byte, obs translator.Observer) (*translator.Result, error) {
	doc, err := diagram.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrInvalidDiagram, err)
	}
	g, err := doc.Graph()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrInvalidDiagram, err)
	}

	opts := c.opts
	if doc.IRI != "" || doc.Prefix != "" {
		opts = append(opts[:len(opts):len(opts)], documentOptions(doc)...)
	}
	res, err := translator.New(opts...).Run(g, obs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrInvalidDiagram, err)
	}
	return res, nil
}

func documentOptions(doc *diagram.Document) []translator.Option {
	var opts []translator.Option
	if doc.IRI != "" {
		opts = append(opts, translator.WithOntologyIRI(doc.IRI))
	}
	if doc.Prefix != "" {
		opts = append(opts, translator.WithPrefix(doc.Prefix))
	}
	return opts
}
