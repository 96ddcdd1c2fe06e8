package catalog

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/phrazzld/suggest-api/internal/domain"
)

// taskTypeEntry mirrors one task type in the catalog file.
type taskTypeEntry struct {
	ID         string   `mapstructure:"id"`
	Difficulty string   `mapstructure:"difficulty"`
	Templates  []string `mapstructure:"templates"`
}

// topicEntry mirrors one topic in the catalog file. Exactly one of Tags
// or Exemplars must be set, selecting the variant.
type topicEntry struct {
	ID        string   `mapstructure:"id"`
	Group     string   `mapstructure:"group"`
	Tags      []string `mapstructure:"tags"`
	Exemplars []string `mapstructure:"exemplars"`
}

// catalogFile is the top-level shape of the catalog YAML document.
type catalogFile struct {
	TaskTypes []taskTypeEntry `mapstructure:"task_types"`
	Topics    []topicEntry    `mapstructure:"topics"`
}

// LoadRegistry reads the catalog YAML file at the given path and builds a
// Registry from it.
func LoadRegistry(path string) (*Registry, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read catalog file %q: %w", path, err)
	}

	var file catalogFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog file %q: %w", path, err)
	}

	taskTypes := make([]*domain.TaskType, 0, len(file.TaskTypes))
	for _, entry := range file.TaskTypes {
		taskTypes = append(taskTypes, &domain.TaskType{
			ID:         entry.ID,
			Difficulty: domain.Difficulty(entry.Difficulty),
			Templates:  entry.Templates,
		})
	}

	topics := make([]domain.Topic, 0, len(file.Topics))
	for _, entry := range file.Topics {
		topic, err := buildTopic(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid catalog topic %q: %w", entry.ID, err)
		}
		topics = append(topics, topic)
	}

	return NewRegistry(taskTypes, topics)
}

// buildTopic selects the topic variant from the entry's populated fields.
func buildTopic(entry topicEntry) (domain.Topic, error) {
	switch {
	case len(entry.Tags) > 0 && len(entry.Exemplars) > 0:
		return nil, fmt.Errorf("topic cannot carry both tags and exemplars")
	case len(entry.Tags) > 0:
		return domain.NewTagTopic(entry.ID, entry.Group, entry.Tags)
	case len(entry.Exemplars) > 0:
		return domain.NewSimilarityTopic(entry.ID, entry.Exemplars)
	default:
		return nil, fmt.Errorf("topic must carry tags or exemplars")
	}
}
