package domain

// ItemRef identifies a content item (an article) in the wiki. The title is
// the canonical identity used for deduplication and for the recency cache.
type ItemRef struct {
	Title string `json:"title"`
}

// Validate checks that the reference names an item.
func (r ItemRef) Validate() error {
	if r.Title == "" {
		return ErrInvalidItemRef
	}
	return nil
}

// TopicScore associates a topic with an optional relevance weight
// reported by the search backend. A zero weight means the backend did not
// score the match.
type TopicScore struct {
	Topic  Topic   `json:"-"`
	Weight float64 `json:"weight,omitempty"`
}

// Task is one candidate work item: a content item, the task type it
// satisfies, and the topics that matched it.
type Task struct {
	Item   ItemRef      `json:"item"`
	Type   *TaskType    `json:"task_type"`
	Topics []TopicScore `json:"topics,omitempty"`
}

// NewTask creates a Task for the given item and task type.
func NewTask(item ItemRef, taskType *TaskType) (*Task, error) {
	if err := item.Validate(); err != nil {
		return nil, ErrTaskItemEmpty
	}
	if taskType == nil || taskType.ID == "" {
		return nil, ErrTaskTypeIDEmpty
	}
	return &Task{Item: item, Type: taskType}, nil
}

// AddTopic attaches a topic association to the task. A topic already
// present (by id) is left untouched; duplicates from overlapping query
// results merge into the existing association.
func (t *Task) AddTopic(topic Topic, weight float64) {
	if topic == nil {
		return
	}
	for _, ts := range t.Topics {
		if ts.Topic.ID() == topic.ID() {
			return
		}
	}
	t.Topics = append(t.Topics, TopicScore{Topic: topic, Weight: weight})
}

// HasTopic reports whether the task carries an association with the given
// topic id.
func (t *Task) HasTopic(topicID string) bool {
	for _, ts := range t.Topics {
		if ts.Topic.ID() == topicID {
			return true
		}
	}
	return false
}
