package snapshot

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listOutput = `First run mode (config file not found)
Device : /dev/vda3
Num     Name                 Tags  Description
------------------------------------------------------------
0    >  2024-05-01_10-00-01  O     before desktop install
1    >  2024-05-02_08-30-12  O
`

func TestParseList(t *testing.T) {
	snaps := parseList(listOutput)

	require.Len(t, snaps, 2)
	assert.Equal(t, Snap{Name: "2024-05-01_10-00-01", Tags: "O", Comment: "before desktop install"}, snaps[0])
	assert.Equal(t, Snap{Name: "2024-05-02_08-30-12", Tags: "O"}, snaps[1])
}

func TestParseListEmpty(t *testing.T) {
	assert.Empty(t, parseList("No snapshots found\n"))
}

func TestRestoreArgs(t *testing.T) {
	original := execCommand
	t.Cleanup(func() { execCommand = original })

	var got []string
	execCommand = func(name string, args ...string) *exec.Cmd {
		got = append([]string{name}, args...)
		return exec.Command("true")
	}

	require.NoError(t, Restore("2024-05-01_10-00-01"))
	assert.Equal(t, []string{"timeshift", "--restore", "--snapshot", "2024-05-01_10-00-01", "--scripted"}, got)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "snap", Snap{Name: "snap"}.Describe())
	assert.Equal(t, "snap (why)", Snap{Name: "snap", Comment: "why"}.Describe())
}
