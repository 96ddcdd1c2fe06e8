package querybuild

import (
	"errors"
	"fmt"
	"strings"

	"github.com/phrazzld/suggest-api/internal/domain"
)

// Builder errors.
var (
	// ErrNonCatalogTopic is returned when a campaign or raw topic reaches
	// the standard build path. Those variants have their own call path;
	// hitting this error means the engine is mis-wired, not that user
	// input was bad.
	ErrNonCatalogTopic = errors.New("topic variant is not catalog-eligible")

	// ErrNoTaskTypes is returned when Build is called with nothing to
	// build queries for.
	ErrNoTaskTypes = errors.New("at least one task type is required")
)

// Builder synthesizes the full query set for a suggestion request.
type Builder struct {
	// rescoreProfile, when non-empty, is attached to every query whose
	// topic term participates in classifier-tag matching, so the backend
	// can rebalance tag relevance against page quality.
	rescoreProfile string
}

// NewBuilder creates a Builder with no rescore profile.
func NewBuilder() *Builder {
	return &Builder{}
}

// NewBuilderWithRescoreProfile creates a Builder that stamps the given
// rescore profile onto tag-matching queries.
func NewBuilderWithRescoreProfile(profile string) *Builder {
	return &Builder{rescoreProfile: profile}
}

// Build produces one query per (task type, topic) pair. An empty topics
// slice is treated as a single "no topic filter" placeholder so every task
// type still yields exactly one query.
//
// Only tag-based and similarity-based topics are accepted here; campaign
// and raw topics arrive through BuildCampaign and BuildRawTag.
func (b *Builder) Build(
	taskTypes []*domain.TaskType,
	topics []domain.Topic,
	excluded []domain.ItemRef,
) (*QueryMap, error) {
	if len(taskTypes) == 0 {
		return nil, ErrNoTaskTypes
	}
	for _, topic := range topics {
		if !domain.IsCatalogTopic(topic) {
			return nil, fmt.Errorf("%w: %q", ErrNonCatalogTopic, topic.ID())
		}
	}

	// The no-topic placeholder keeps the cross product non-empty.
	if len(topics) == 0 {
		topics = []domain.Topic{nil}
	}

	queries := make(map[string]*Query, len(taskTypes)*len(topics))
	for _, taskType := range taskTypes {
		for _, topic := range topics {
			q := b.build(taskType, topic, excluded)
			// taskType.ID x topic.ID uniqueness makes collisions
			// impossible; a colliding id would simply overwrite.
			queries[q.ID] = q
		}
	}
	return newQueryMap(queries), nil
}

// BuildCampaign produces one query per task type against a single campaign
// topic. Campaign expressions are operator-supplied and embedded verbatim.
func (b *Builder) BuildCampaign(
	taskTypes []*domain.TaskType,
	campaign *domain.CampaignTopic,
	excluded []domain.ItemRef,
) (*QueryMap, error) {
	if len(taskTypes) == 0 {
		return nil, ErrNoTaskTypes
	}
	queries := make(map[string]*Query, len(taskTypes))
	for _, taskType := range taskTypes {
		q := b.build(taskType, campaign, excluded)
		queries[q.ID] = q
	}
	return newQueryMap(queries), nil
}

// BuildRawTag produces one query per task type against a raw single-tag
// topic. This path exists for ad-hoc lookups and is never cached.
func (b *Builder) BuildRawTag(
	taskTypes []*domain.TaskType,
	raw *domain.RawTagTopic,
	excluded []domain.ItemRef,
) (*QueryMap, error) {
	if len(taskTypes) == 0 {
		return nil, ErrNoTaskTypes
	}
	queries := make(map[string]*Query, len(taskTypes))
	for _, taskType := range taskTypes {
		q := b.build(taskType, raw, excluded)
		queries[q.ID] = q
	}
	return newQueryMap(queries), nil
}

// build assembles a single query from its three terms.
func (b *Builder) build(taskType *domain.TaskType, topic domain.Topic, excluded []domain.ItemRef) *Query {
	terms := make([]string, 0, 3)
	terms = append(terms, templateTerm(taskType.Templates))
	if topicTerm := topicTerm(topic); topicTerm != "" {
		terms = append(terms, topicTerm)
	}
	if exclTerm := exclusionTerm(excluded); exclTerm != "" {
		terms = append(terms, exclTerm)
	}

	return &Query{
		ID:             QueryID(taskType, topic),
		QueryString:    strings.Join(terms, " "),
		TaskType:       taskType,
		Topic:          topic,
		Sort:           sortFor(topic),
		RescoreProfile: b.rescoreProfileFor(topic),
	}
}

// sortFor picks the sort directive for a topic. Similarity topics keep the
// backend's own relevance ordering: their similarity ranking is itself a
// sort, and random sort would destroy it. Everything else carries no
// intrinsic order, so randomization prevents bias toward whichever task
// type happens to sort first.
func sortFor(topic domain.Topic) string {
	if _, ok := topic.(*domain.SimilarityTopic); ok {
		return SortNone
	}
	return SortRandom
}

// rescoreProfileFor attaches the configured rescore profile to queries
// whose topic term matches classifier tags.
func (b *Builder) rescoreProfileFor(topic domain.Topic) string {
	switch topic.(type) {
	case *domain.TagTopic, *domain.RawTagTopic:
		return b.rescoreProfile
	default:
		return ""
	}
}

// templateTerm builds the type term: an OR of the task type's maintenance
// templates.
func templateTerm(templates []string) string {
	return `hastemplate:"` + escapedJoin(templates) + `"`
}

// topicTerm builds the topic term for each variant. A nil topic
// contributes nothing.
func topicTerm(topic domain.Topic) string {
	switch t := topic.(type) {
	case nil:
		return ""
	case *domain.TagTopic:
		return "articletopic:" + escapedJoin(t.Tags)
	case *domain.SimilarityTopic:
		return `morelikethis:"` + escapedJoin(t.Exemplars) + `"`
	case *domain.CampaignTopic:
		return t.Expression
	case *domain.RawTagTopic:
		return "articletopic:" + Escape(t.Tag)
	default:
		return ""
	}
}

// exclusionTerm builds a negated OR of excluded item titles, or nothing.
func exclusionTerm(excluded []domain.ItemRef) string {
	if len(excluded) == 0 {
		return ""
	}
	titles := make([]string, len(excluded))
	for i, ref := range excluded {
		titles[i] = ref.Title
	}
	return `-intitle:"` + escapedJoin(titles) + `"`
}

// escapeReplacer neutralizes the two characters with special meaning in
// the query grammar: the phrase quote and the wildcard.
var escapeReplacer = strings.NewReplacer(`"`, `\"`, `*`, `\*`)

// Escape neutralizes query-grammar metacharacters in free text before it
// is embedded in a term. Unescaped titles are a correctness bug: a quote
// in an article title would otherwise terminate the phrase early.
func Escape(s string) string {
	return escapeReplacer.Replace(s)
}

// escapedJoin escapes each value and joins them with the OR separator.
func escapedJoin(values []string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = Escape(v)
	}
	return strings.Join(escaped, "|")
}
