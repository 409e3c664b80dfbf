package install

import (
	"os"

	"archup/internal/disk"

	"github.com/fatih/color"
)

// removeFile is a wrapper around os.Remove to allow mocking in tests.
var removeFile = os.Remove

// CleanupResult records the outcome of releasing one resource.
type CleanupResult struct {
	Resource Resource
	Err      error
}

// CleanupReport lists, per resource, whether release succeeded.
type CleanupReport struct {
	Results []CleanupResult
}

// Failed returns the number of resources that could not be released.
func (rep CleanupReport) Failed() int {
	n := 0
	for _, res := range rep.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Cleanup releases every resource recorded as held, best-effort:
// mounted filesystems first in reverse acquisition order (innermost
// mount released first), then swap devices, then temporary files. It
// never fails; a failed release is recorded in the report, not
// propagated, because the run is already aborting and a second fault
// must not mask the first.
func Cleanup(st *State) CleanupReport {
	var rep CleanupReport
	for _, kind := range []ResourceKind{ResourceMount, ResourceSwap, ResourceTempFile} {
		held := st.Held()
		for i := len(held) - 1; i >= 0; i-- {
			r := held[i]
			if r.Kind != kind {
				continue
			}
			err := release(r)
			rep.Results = append(rep.Results, CleanupResult{Resource: r, Err: err})
			if err != nil {
				color.Yellow("! Could not release %s %s: %v", r.Kind, r.Path, err)
				continue
			}
			st.Release(r.Kind, r.Path)
			color.Green("✔ Released %s %s", r.Kind, r.Path)
		}
	}
	return rep
}

func release(r Resource) error {
	switch r.Kind {
	case ResourceMount:
		return disk.Unmount(r.Path)
	case ResourceSwap:
		return disk.SwapOff(r.Path)
	default:
		return removeFile(r.Path)
	}
}
