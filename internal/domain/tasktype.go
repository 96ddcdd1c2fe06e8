package domain

// Difficulty describes how hard a task type is for a newcomer.
type Difficulty string

// Supported difficulty tiers, ordered easiest first.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// TaskType is a category of suggested work, such as "copyedit" or
// "add a link". A candidate article qualifies for a task type when it
// carries at least one of the type's maintenance templates.
//
// TaskType values come from the external catalog; this package references
// them but never creates or mutates them outside of catalog loading.
type TaskType struct {
	ID         string     `json:"id"         mapstructure:"id"`
	Difficulty Difficulty `json:"difficulty" mapstructure:"difficulty"`

	// Templates are the structural markers an article must contain to
	// qualify for this task type.
	Templates []string `json:"templates" mapstructure:"templates"`
}

// Validate checks that the TaskType has valid data.
func (t *TaskType) Validate() error {
	if t.ID == "" {
		return ErrTaskTypeIDEmpty
	}
	return nil
}
