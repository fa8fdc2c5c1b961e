package prompts

// Output is the externally consumed projection of a State. Its field names
// are a stable wire contract for generation requests, file exports, and
// clipboard copies.
type Output struct {
	Task        string           `json:"task" yaml:"task"`
	Rules       []string         `json:"rules" yaml:"rules"`
	StoryConfig StoryConfig      `json:"storyConfig" yaml:"storyConfig"`
	Moderation  OutputModeration `json:"moderation" yaml:"moderation"`
	Limits      OutputLimits     `json:"limits" yaml:"limits"`
}

type StoryConfig struct {
	Genre     string   `json:"genre" yaml:"genre"`
	Plot      string   `json:"plot" yaml:"plot"`
	Specifics []string `json:"specifics" yaml:"specifics"`
}

type OutputModeration struct {
	AllowVulgar  bool `json:"allowVulgar" yaml:"allowVulgar"`
	AllowCussing bool `json:"allowCussing" yaml:"allowCussing"`
}

type OutputLimits struct {
	MinWords    int     `json:"minWords" yaml:"minWords"`
	MaxWords    int     `json:"maxWords" yaml:"maxWords"`
	MaxChapters int     `json:"maxChapters" yaml:"maxChapters"`
	Uniqueness  float64 `json:"uniqueness" yaml:"uniqueness"`
}
