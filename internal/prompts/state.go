package prompts

import "slices"

// State is the in-progress prompt being authored. It is owned by the caller
// and mutated only through its setters.
type State struct {
	MainTask   string     `json:"mainTask" yaml:"mainTask"`
	Rules      []string   `json:"rules" yaml:"rules"`
	Story      Story      `json:"story" yaml:"story"`
	Moderation Moderation `json:"moderation" yaml:"moderation"`
	Limits     Limits     `json:"limits" yaml:"limits"`
}

// Story configures the narrative portion of a prompt.
type Story struct {
	Genre     string   `json:"genre" yaml:"genre"`
	Plot      string   `json:"plot" yaml:"plot"`
	Specifics []string `json:"specifics" yaml:"specifics"`
}

// Moderation holds the content flags for a prompt.
type Moderation struct {
	Vulgar  bool `json:"vulgar" yaml:"vulgar"`
	Cussing bool `json:"cussing" yaml:"cussing"`
}

// Limits bounds the size and shape of generated content.
type Limits struct {
	MinWords   int     `json:"minWords" yaml:"minWords"`
	MaxWords   int     `json:"maxWords" yaml:"maxWords"`
	Chapters   int     `json:"chapters" yaml:"chapters"`
	Uniqueness float64 `json:"uniqueness" yaml:"uniqueness"`
}

// DefaultState returns the initial editing state.
func DefaultState() State {
	return State{
		Rules: []string{},
		Story: Story{
			Specifics: []string{},
		},
		Limits: Limits{
			MinWords:   100,
			MaxWords:   1000,
			Chapters:   1,
			Uniqueness: 0.5,
		},
	}
}

func (s *State) SetMainTask(task string) {
	s.MainTask = task
}

func (s *State) SetRules(rules []string) {
	s.Rules = slices.Clone(rules)
}

// AddRule appends a rule to the end of the rule list.
func (s *State) AddRule(rule string) {
	s.Rules = append(s.Rules, rule)
}

// RemoveRule deletes the rule at index i. Out of range indexes are ignored.
func (s *State) RemoveRule(i int) {
	if i < 0 || i >= len(s.Rules) {
		return
	}
	s.Rules = slices.Delete(s.Rules, i, i+1)
}

func (s *State) SetStory(story Story) {
	story.Specifics = slices.Clone(story.Specifics)
	s.Story = story
}

func (s *State) SetModeration(m Moderation) {
	s.Moderation = m
}

func (s *State) SetLimits(l Limits) {
	s.Limits = l
}

// Reset restores the state to DefaultState.
func (s *State) Reset() {
	*s = DefaultState()
}
