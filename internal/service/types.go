package service

// Record is one remote task record.
// Backends carry no category; categories are a client-side facet.
type Record struct {
	ID        string
	Title     string
	Completed bool
}

// Patch lists the fields an Update changes. Nil fields are left untouched.
type Patch struct {
	Completed *bool
}

// CompletedPatch returns a Patch that sets the completed flag.
func CompletedPatch(completed bool) Patch {
	return Patch{Completed: &completed}
}
