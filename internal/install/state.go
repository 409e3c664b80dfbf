package install

// ResourceKind classifies an OS resource held on behalf of the run.
type ResourceKind string

const (
	ResourceMount    ResourceKind = "mount"
	ResourceSwap     ResourceKind = "swap"
	ResourceTempFile ResourceKind = "tempfile"
)

// Resource is one entry in the undo ledger: a mounted filesystem, an
// activated swap device or a temporary file the run created.
type Resource struct {
	Kind ResourceKind
	Path string
}

// State tracks a run: the ordinal of the step currently executing or
// about to execute, the total step count, and the ordered ledger of
// held resources consulted by cleanup. The runner is the sole mutator;
// a State lives for exactly one run.
type State struct {
	Current int
	Total   int

	held []Resource
}

func NewState() *State {
	return &State{}
}

// Acquire records a resource as held, in acquisition order.
func (st *State) Acquire(kind ResourceKind, path string) {
	st.held = append(st.held, Resource{Kind: kind, Path: path})
}

// Release removes a resource from the ledger. Only cleanup and actions
// that legitimately hand a resource off call this.
func (st *State) Release(kind ResourceKind, path string) {
	for i, r := range st.held {
		if r.Kind == kind && r.Path == path {
			st.held = append(st.held[:i], st.held[i+1:]...)
			return
		}
	}
}

// Held returns a copy of the ledger in acquisition order.
func (st *State) Held() []Resource {
	out := make([]Resource, len(st.held))
	copy(out, st.held)
	return out
}
