package parse

// Stats summarizes a parsed export.
type Stats struct {
	TotalConversations int
	TotalMessages      int
	TotalProjects      int
	TotalWords         int
	SkippedCount       int
	ModelsUsed         map[string]int
}

// Stats computes dataset totals over the result.
func (r *Result) Stats() Stats {
	s := Stats{
		TotalConversations: len(r.Conversations),
		SkippedCount:       len(r.Skipped),
		ModelsUsed:         make(map[string]int),
	}
	projects := make(map[string]bool)
	for _, c := range r.Conversations {
		s.TotalMessages += len(c.Messages)
		s.TotalWords += c.WordCount()
		if c.ProjectID != "" {
			projects[c.ProjectID] = true
		}
		if c.Model != "" {
			s.ModelsUsed[c.Model]++
		}
	}
	s.TotalProjects = len(projects)
	return s
}
