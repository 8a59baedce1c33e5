package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vorburger/pom-manipulation-ext/align"
	"github.com/vorburger/pom-manipulation-ext/gav"
	"github.com/vorburger/pom-manipulation-ext/patch"
	"github.com/vorburger/pom-manipulation-ext/state"
)

func sampleReport(t *testing.T) *Report {
	t.Helper()

	session := state.NewSession(state.Properties{})
	session.MergePropertyUpdates(map[string]string{
		"version.org.goots": "1.3",
		"version.junit":     "4.1",
	})

	alignResult := &align.Result{
		Changes: []align.Change{
			{Group: "org.goots", Artifact: "testing", OldVersion: "1.2", NewVersion: "1.3"},
		},
		UnmatchedManaged: []gav.VersionRef{
			{Group: "io.vertx", Artifact: "vertx-core", Version: "4.5.0"},
		},
		Warnings: []string{"junit:junit excluded from alignment"},
	}

	patchResult := &patch.Result{
		Applied: 1,
		Changes: []patch.ChangeRecord{
			{Index: 0, Target: "registry.json", Path: "$.repository.url", Operation: "replace"},
		},
	}

	return Build(session, alignResult, patchResult)
}

func TestBuild(t *testing.T) {
	r := sampleReport(t)

	require.Len(t, r.PropertyUpdates, 2)
	assert.Equal(t, "version.junit", r.PropertyUpdates[0].Key, "updates sorted by key")
	assert.Equal(t, "version.org.goots", r.PropertyUpdates[1].Key)
	assert.Len(t, r.AlignChanges, 1)
	assert.Len(t, r.UnmatchedManaged, 1)
	assert.Len(t, r.PatchChanges, 1)
	assert.Len(t, r.Warnings, 1)
	assert.False(t, r.Empty())
}

func TestBuildNilPhases(t *testing.T) {
	r := Build(nil, nil, nil)
	assert.True(t, r.Empty())
}

func TestRenderText(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, sampleReport(t).Render(&sb, FormatText))
	out := sb.String()

	assert.Contains(t, out, "Aligned Dependencies:")
	assert.Contains(t, out, "org.goots:testing 1.2 -> 1.3")
	assert.Contains(t, out, "Pinned For Transitives:")
	assert.Contains(t, out, "io.vertx:vertx-core:4.5.0")
	assert.Contains(t, out, "Property Updates:")
	assert.Contains(t, out, "version.junit=4.1")
	assert.Contains(t, out, "Patched Documents:")
	assert.Contains(t, out, "[0] replace registry.json $.repository.url")
	assert.Contains(t, out, "Warnings:")
}

func TestRenderTextEmpty(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, Build(nil, nil, nil).Render(&sb, FormatText))
	assert.Equal(t, "No changes.\n", sb.String())
}

func TestRenderJSON(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, sampleReport(t).Render(&sb, FormatJSON))

	var decoded Report
	require.NoError(t, json.Unmarshal([]byte(sb.String()), &decoded))
	assert.Len(t, decoded.PropertyUpdates, 2)
	assert.Equal(t, "replace", decoded.PatchChanges[0].Operation)
}

func TestRenderYAML(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, sampleReport(t).Render(&sb, FormatYAML))
	assert.Contains(t, sb.String(), "propertyUpdates:")
	assert.Contains(t, sb.String(), "key: version.junit")
}

func TestValidateFormat(t *testing.T) {
	assert.NoError(t, ValidateFormat(FormatText))
	assert.NoError(t, ValidateFormat(FormatJSON))
	assert.NoError(t, ValidateFormat(FormatYAML))
	assert.Error(t, ValidateFormat("xml"))
	assert.Error(t, (&Report{}).Render(&strings.Builder{}, "xml"))
}
