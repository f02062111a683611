package domain

// ChangeStatus is the outcome for one workspace path.
type ChangeStatus string

const (
	ChangeCreated  ChangeStatus = "created"
	ChangeModified ChangeStatus = "modified"
	ChangePresent  ChangeStatus = "present"
	ChangeConflict ChangeStatus = "conflict"
)

// PathKind distinguishes directories from files in a report.
type PathKind string

const (
	PathDir  PathKind = "dir"
	PathFile PathKind = "file"
)

// PathChange is a single line of a MutationReport.
// Path is slash-separated and relative to the workspace root.
type PathChange struct {
	Path   string       `json:"path"`
	Kind   PathKind     `json:"kind"`
	Status ChangeStatus `json:"status"`
}

// MutationReport lists every path the mutator touched or inspected, in plan order.
type MutationReport struct {
	Strategy Strategy     `json:"strategy"`
	Scaffold bool         `json:"scaffold"`
	Changes  []PathChange `json:"changes"`
}

func (r MutationReport) count(status ChangeStatus) int {
	n := 0
	for _, c := range r.Changes {
		if c.Status == status {
			n++
		}
	}
	return n
}

// Created returns the number of created paths.
func (r MutationReport) Created() int { return r.count(ChangeCreated) }

// Modified returns the number of extended files.
func (r MutationReport) Modified() int { return r.count(ChangeModified) }

// Present returns the number of paths that already matched.
func (r MutationReport) Present() int { return r.count(ChangePresent) }

// Conflicts returns the number of skipped, learner-owned paths.
func (r MutationReport) Conflicts() int { return r.count(ChangeConflict) }

// Filter returns the changes with the given status.
func (r MutationReport) Filter(status ChangeStatus) []PathChange {
	var out []PathChange
	for _, c := range r.Changes {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out
}
