package domain

import "strings"

// Localizer resolves a message key into a human-readable name for the
// caller's language. Implementations live outside this package; topics
// never perform I/O themselves.
type Localizer interface {
	Message(key string) string
}

// Topic is a subject-matter filter over candidate content items.
//
// The variant set is closed: TagTopic, SimilarityTopic, CampaignTopic and
// RawTagTopic are the only implementations, and query-term construction
// dispatches on these concrete types. Adding a variant requires updating
// the query builder as well.
type Topic interface {
	// ID returns the topic's globally unique identifier within its
	// namespace.
	ID() string

	// Name resolves the topic's display name through the localizer.
	Name(l Localizer) string

	// isTopic restricts implementations to this package.
	isTopic()
}

// campaignPrefix namespaces campaign topic ids so they can never collide
// with catalog topic ids, which are forbidden from containing "/".
const campaignPrefix = "campaign/"

// TagTopic matches articles carrying one or more classifier tags.
// It carries a group label used by the UI to cluster related topics.
type TagTopic struct {
	id    string
	Group string
	Tags  []string
}

// NewTagTopic creates a tag-based topic. The id must be non-empty and must
// not contain the namespace separator "/".
func NewTagTopic(id, group string, tags []string) (*TagTopic, error) {
	if id == "" {
		return nil, ErrTopicIDEmpty
	}
	if strings.Contains(id, "/") {
		return nil, ErrTopicIDInvalid
	}
	if len(tags) == 0 {
		return nil, ErrTagEmpty
	}
	return &TagTopic{id: id, Group: group, Tags: tags}, nil
}

// ID returns the topic identifier.
func (t *TagTopic) ID() string { return t.id }

// Name resolves the topic's display name.
func (t *TagTopic) Name(l Localizer) string { return l.Message("topic-name-" + t.id) }

func (t *TagTopic) isTopic() {}

// SimilarityTopic matches articles textually similar to a fixed set of
// exemplar articles. Its search results arrive pre-ranked by similarity,
// which the query builder treats as an intrinsic sort order.
type SimilarityTopic struct {
	id        string
	Exemplars []string
}

// NewSimilarityTopic creates a similarity-based topic.
func NewSimilarityTopic(id string, exemplars []string) (*SimilarityTopic, error) {
	if id == "" {
		return nil, ErrTopicIDEmpty
	}
	if strings.Contains(id, "/") {
		return nil, ErrTopicIDInvalid
	}
	return &SimilarityTopic{id: id, Exemplars: exemplars}, nil
}

// ID returns the topic identifier.
func (t *SimilarityTopic) ID() string { return t.id }

// Name resolves the topic's display name.
func (t *SimilarityTopic) Name(l Localizer) string { return l.Message("topic-name-" + t.id) }

func (t *SimilarityTopic) isTopic() {}

// CampaignTopic matches via an operator-supplied raw search expression.
// Campaign topics live in their own id namespace ("campaign/...") and are
// supplied through a dedicated call path, never through the catalog
// validator.
type CampaignTopic struct {
	id         string
	Expression string
}

// NewCampaignTopic creates a campaign topic. The stored id is prefixed
// with the campaign namespace.
func NewCampaignTopic(id, expression string) (*CampaignTopic, error) {
	if id == "" {
		return nil, ErrTopicIDEmpty
	}
	return &CampaignTopic{id: campaignPrefix + id, Expression: expression}, nil
}

// ID returns the namespaced topic identifier.
func (t *CampaignTopic) ID() string { return t.id }

// Name resolves the topic's display name.
func (t *CampaignTopic) Name(l Localizer) string { return l.Message("campaign-topic-" + t.id) }

func (t *CampaignTopic) isTopic() {}

// RawTagTopic wraps exactly one classifier tag for ad-hoc lookups. It is
// internal-only: catalogs must never list it, and it is not cacheable.
type RawTagTopic struct {
	Tag string
}

// NewRawTagTopic creates a raw single-tag topic.
func NewRawTagTopic(tag string) (*RawTagTopic, error) {
	if tag == "" {
		return nil, ErrTopicIDEmpty
	}
	return &RawTagTopic{Tag: tag}, nil
}

// ID returns the wrapped tag, which doubles as the identifier.
func (t *RawTagTopic) ID() string { return t.Tag }

// Name returns the raw tag; raw topics are never shown to users so no
// localization key exists for them.
func (t *RawTagTopic) Name(_ Localizer) string { return t.Tag }

func (t *RawTagTopic) isTopic() {}

// IsCatalogTopic reports whether the topic is one of the two variants the
// catalog may expose and the query builder accepts on its standard path.
func IsCatalogTopic(t Topic) bool {
	switch t.(type) {
	case *TagTopic, *SimilarityTopic:
		return true
	default:
		return false
	}
}
