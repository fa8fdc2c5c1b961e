package prompts

// Build projects s into its Output form. Build never fails and performs no
// validation; call Validate first where state comes from an untrusted source.
// Sequences are copied in order, and nil sequences become empty arrays.
func Build(s State) Output {
	return Output{
		Task:  s.MainTask,
		Rules: cloneStrings(s.Rules),
		StoryConfig: StoryConfig{
			Genre:     s.Story.Genre,
			Plot:      s.Story.Plot,
			Specifics: cloneStrings(s.Story.Specifics),
		},
		Moderation: OutputModeration{
			AllowVulgar:  s.Moderation.Vulgar,
			AllowCussing: s.Moderation.Cussing,
		},
		Limits: OutputLimits{
			MinWords:    s.Limits.MinWords,
			MaxWords:    s.Limits.MaxWords,
			MaxChapters: s.Limits.Chapters,
			Uniqueness:  s.Limits.Uniqueness,
		},
	}
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
