package p4

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSpec() ClientSpec {
	return ClientSpec{
		Client:    "dev-foo-alice-git",
		Update:    "2024/03/07 09:05:01",
		Access:    "2024/03/07 09:05:01",
		Owner:     "alice",
		Host:      "build-01",
		Root:      "/home/alice/ws/perforce/dev-foo-alice-git",
		DepotPath: "//depot-foo/dev-stream",
	}
}

func TestRender(t *testing.T) {
	rendered, err := Render(sampleSpec())
	require.NoError(t, err)

	expected := `
# A Perforce Client Specification.
#
# Use 'p4 help client' to see more about client views and options.

Client: dev-foo-alice-git
Update: 2024/03/07 09:05:01
Access: 2024/03/07 09:05:01
Owner:  alice
Host:   build-01

Description:
    Created by alice.

Root:   /home/alice/ws/perforce/dev-foo-alice-git
Options:    noallwrite noclobber compress unlocked nomodtime rmdir
SubmitOptions:  leaveunchanged
LineEnd:    local
Stream: //depot-foo/dev-stream
View:
  //depot-foo/dev-stream/... //dev-foo-alice-git/...
`
	require.Equal(t, expected, rendered)
}

func TestRender_ViewFollowsViewHeader(t *testing.T) {
	for _, depot := range []string{"//depot/main", "//streams/rel-1.0", "//a/b/c"} {
		spec := sampleSpec()
		spec.DepotPath = depot
		spec.Client = "x-git"

		rendered, err := Render(spec)
		require.NoError(t, err)

		lines := strings.Split(rendered, "\n")
		idx := -1
		for i, l := range lines {
			if l == "View:" {
				idx = i
			}
		}
		require.GreaterOrEqual(t, idx, 0, "View: header missing")
		require.Less(t, idx+1, len(lines))
		assert.Equal(t, ViewLine(depot, "x-git"), lines[idx+1])
		assert.Equal(t, "  "+depot+"/... //x-git/...", lines[idx+1])
		assert.Contains(t, lines, "Options:    "+ClientOptions)
		assert.Contains(t, lines, "SubmitOptions:  "+SubmitOptions)
		assert.Contains(t, lines, "LineEnd:    "+LineEnd)
	}
}

func TestRender_RejectsEmptyValues(t *testing.T) {
	spec := sampleSpec()
	spec.Root = ""
	spec.Host = " "

	_, err := Render(spec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "host, root")
}

func TestTemplatePlaceholdersAreMapped(t *testing.T) {
	data := sampleSpec().fields()
	for _, field := range []string{"client", "update", "access", "owner", "host", "root", "depot", "options", "submit_options", "line_end"} {
		assert.Contains(t, clientSpecTemplate, "{{ ."+field+" }}")
		assert.Contains(t, data, field)
	}
}
