// Package dedup decides whether a newly fetched posting describes the same
// real-world job as a record already stored from a different source.
//
// The detector is read-only: acting on a match (marking a record duplicate)
// is the caller's responsibility.
package dedup

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/errors"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/models"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/similarity"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/telemetry"

	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("talenthub/dedup")

const (
	// similarityThreshold must be strictly exceeded for a candidate to be
	// declared a duplicate.
	similarityThreshold = 0.85

	// candidateLimit bounds the pre-filtered candidate set per lookup.
	candidateLimit = 10

	// prefixLen is how much of the normalized title feeds the substring
	// pre-filter. The pre-filter is a cheap recall step, never the decision.
	prefixLen = 20
)

// CandidateStore retrieves other-source postings whose titles loosely overlap
// the given prefix. An empty result with a nil error means "no candidates";
// a non-nil error means the lookup itself failed and must not be read as
// "no duplicate".
type CandidateStore interface {
	FindTitleCandidates(ctx context.Context, titlePrefix, excludeSourceID string, limit int) ([]models.DuplicateCandidate, error)
}

// SourceResolver looks up a job source row by id. Implementations return a
// NOT_FOUND domain error when the row does not exist.
type SourceResolver interface {
	GetSource(ctx context.Context, id string) (*models.JobSource, error)
}

// Match describes the existing record judged to be the same job.
type Match struct {
	ExistingID             string
	ExistingSourceID       string
	ExistingSourcePriority int
	TitleSimilarity        float64
}

// FindDuplicateInput carries the fields of the posting under test. Title is
// required; the other fields are optional and treated as "don't care" when
// absent.
type FindDuplicateInput struct {
	Title           string
	CompanyName     string
	City            string
	State           string
	ExcludeSourceID string
}

type Detector struct {
	store   CandidateStore
	sources SourceResolver
	logger  *zap.Logger
}

func NewDetector(store CandidateStore, sources SourceResolver, logger *zap.Logger) *Detector {
	return &Detector{
		store:   store,
		sources: sources,
		logger:  logger,
	}
}

// FindDuplicate returns the first candidate clearing the similarity threshold
// with compatible company and location, or (nil, nil) when no stored posting
// from another source matches. Store failures are returned as errors —
// distinct from the no-duplicate result.
func (d *Detector) FindDuplicate(ctx context.Context, in FindDuplicateInput) (*Match, error) {
	ctx, span := tracer.Start(ctx, "Detector.FindDuplicate")
	defer span.End()

	title := similarity.Normalize(in.Title)
	if title == "" {
		return nil, errors.InvalidInput("title is required for duplicate detection", nil)
	}

	prefix := truncatePrefix(title)

	candidates, err := d.store.FindTitleCandidates(ctx, prefix, in.ExcludeSourceID, candidateLimit)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Unavailable("fetching duplicate candidates", err)
	}
	span.SetAttributes(telemetry.Int("candidates.count", len(candidates)))

	for _, c := range candidates {
		sim := similarity.TitleSimilarity(in.Title, c.Title)
		if sim <= similarityThreshold {
			continue
		}
		if !fieldsCompatible(in.CompanyName, c.CompanyName) {
			continue
		}
		if !fieldsCompatible(in.City, c.LocationCity) || !fieldsCompatible(in.State, c.LocationState) {
			continue
		}

		// First match wins; remaining candidates are not examined.
		match := &Match{
			ExistingID:             c.ID,
			ExistingSourceID:       c.SourceID,
			ExistingSourcePriority: d.priorityForSource(ctx, c.SourceID),
			TitleSimilarity:        sim,
		}
		span.SetAttributes(
			telemetry.String("match.existing_id", match.ExistingID),
			telemetry.Float64("match.similarity", sim),
		)
		d.logger.Debug("duplicate found",
			zap.String("existing_id", match.ExistingID),
			zap.String("existing_source_id", match.ExistingSourceID),
			zap.Float64("similarity", sim))
		return match, nil
	}

	return nil, nil
}

// ResolveKeepNew reports whether the new source outranks the existing one,
// so the freshly fetched record should be retained and the stored record
// superseded. Ties keep the existing record. Source lookups that fail fall
// back to the default priority — a ranking lookup is never fatal to the
// dedup flow.
func (d *Detector) ResolveKeepNew(ctx context.Context, newSourceID, existingSourceID string) bool {
	newPriority := d.priorityForSource(ctx, newSourceID)
	existingPriority := d.priorityForSource(ctx, existingSourceID)
	return newPriority > existingPriority
}

func (d *Detector) priorityForSource(ctx context.Context, sourceID string) int {
	src, err := d.sources.GetSource(ctx, sourceID)
	if err != nil {
		if !errors.IsNotFound(err) {
			d.logger.Warn("source lookup failed, using default priority",
				zap.String("source_id", sourceID),
				zap.Error(err))
		}
		return DefaultPriority
	}
	return PriorityForName(src.Name)
}

// truncatePrefix caps the normalized title at prefixLen bytes without
// splitting a multibyte rune, so the prefix stays valid UTF-8 for the store's
// pattern query.
func truncatePrefix(title string) string {
	if len(title) <= prefixLen {
		return title
	}
	cut := prefixLen
	for cut > 0 && !utf8.RuneStart(title[cut]) {
		cut--
	}
	return title[:cut]
}

// fieldsCompatible reports whether two optional fields agree: absence on
// either side matches anything, otherwise both must normalize equal.
func fieldsCompatible(a, b string) bool {
	na := strings.ToLower(strings.TrimSpace(a))
	nb := strings.ToLower(strings.TrimSpace(b))
	return na == "" || nb == "" || na == nb
}
