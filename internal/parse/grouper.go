package parse

import "sort"

// Unassigned is the reserved bucket for conversations without project
// metadata. Always present in GroupByProject output.
const Unassigned = "_Unassigned_"

// GroupByProject partitions conversations into project buckets keyed by
// project name. Every conversation lands in exactly one bucket; within a
// bucket conversations are ordered by update time descending. That ordering
// is a display contract, not incidental.
func GroupByProject(convs []*Conversation) map[string][]*Conversation {
	groups := map[string][]*Conversation{
		Unassigned: nil,
	}
	for _, c := range convs {
		name := c.ProjectName
		if c.ProjectID == "" {
			name = Unassigned
		}
		groups[name] = append(groups[name], c)
	}
	for name := range groups {
		sortConversations(groups[name])
	}
	return groups
}

// Projects returns the project buckets as Project values, named projects
// sorted alphabetically with Unassigned last.
func Projects(convs []*Conversation) []*Project {
	groups := GroupByProject(convs)

	ids := make(map[string]string)
	for _, c := range convs {
		if c.ProjectID != "" {
			ids[c.ProjectName] = c.ProjectID
		}
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		if name != Unassigned {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	names = append(names, Unassigned)

	projects := make([]*Project, 0, len(names))
	for _, name := range names {
		projects = append(projects, &Project{
			ID:            ids[name],
			Name:          name,
			Conversations: groups[name],
		})
	}
	return projects
}
