// internal/enrich/pipeline.go

package enrich

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"verisignal/internal/domain/event"
	"verisignal/internal/domain/signal"
)

// Pipeline sequences normalization, content analysis and signal
// extraction for one event. It holds no per-event state and is safe for
// concurrent use; each event yields a fresh object graph.
type Pipeline struct {
	normalizer *Normalizer
	analyzer   *Analyzer
	extractor  *Extractor
	logger     *logrus.Logger
}

// NewPipeline wires the three stages with a shared lexicon and clock.
func NewPipeline(lexicon Lexicon, config ExtractorConfig, clock Clock, logger *logrus.Logger) *Pipeline {
	return &Pipeline{
		normalizer: NewNormalizer(logger, clock),
		analyzer:   NewAnalyzer(lexicon, logger),
		extractor:  NewExtractor(lexicon, config, clock),
		logger:     logger,
	}
}

// Process enriches a single event. Content analysis is skipped for
// records without text content; extraction then runs with neutral
// defaults. Any stage panic is converted into an error: the event is
// dropped from enrichment with no partial bundle emitted.
func (p *Pipeline) Process(ev event.RawEvent) (rec event.EnrichedRecord, bundle signal.Bundle, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec = event.EnrichedRecord{}
			bundle = signal.Bundle{}
			err = fmt.Errorf("enrichment stage failed for %s event: %v", ev.Platform, r)
		}
	}()

	rec = p.normalizer.Normalize(ev)

	var analysis *signal.ContentAnalysis
	if rec.Content != "" {
		result := p.analyzer.Analyze(rec.Content)
		analysis = &result
	}

	bundle = p.extractor.Extract(rec, analysis)
	return rec, bundle, nil
}
