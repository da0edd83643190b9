package toc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doctoc/internal/foundation/errors"
)

func TestApplyLineEdits(t *testing.T) {
	lines := []string{"a\n", "b\n", "c\n", "d\n"}

	tests := []struct {
		name  string
		edits []LineEdit
		want  []string
	}{
		{
			name: "no edits copies",
			want: []string{"a\n", "b\n", "c\n", "d\n"},
		},
		{
			name:  "replace interior",
			edits: []LineEdit{{Start: 1, End: 3, Replacement: []string{"x\n"}}},
			want:  []string{"a\n", "x\n", "d\n"},
		},
		{
			name:  "insert",
			edits: []LineEdit{{Start: 2, End: 2, Replacement: []string{"x\n", "y\n"}}},
			want:  []string{"a\n", "b\n", "x\n", "y\n", "c\n", "d\n"},
		},
		{
			name:  "delete",
			edits: []LineEdit{{Start: 0, End: 2}},
			want:  []string{"c\n", "d\n"},
		},
		{
			name: "unordered edits",
			edits: []LineEdit{
				{Start: 4, End: 4, Replacement: []string{"z\n"}},
				{Start: 1, End: 2, Replacement: []string{"x\n"}},
				{Start: 2, End: 2, Replacement: []string{"y\n"}},
			},
			want: []string{"a\n", "x\n", "y\n", "c\n", "d\n", "z\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyLineEdits(lines, tt.edits, "\n")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, []string{"a\n", "b\n", "c\n", "d\n"}, lines, "input must not change")
}

func TestApplyLineEdits_TerminatesLastLine(t *testing.T) {
	lines := []string{"a\r\n", "<!-- ts -->"}

	got, err := ApplyLineEdits(lines, []LineEdit{{Start: 2, End: 2, Replacement: []string{"x\r\n"}}}, "\r\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"a\r\n", "<!-- ts -->\r\n", "x\r\n"}, got)
	assert.Equal(t, "<!-- ts -->", lines[1])
}

func TestApplyLineEdits_Invalid(t *testing.T) {
	lines := []string{"a\n", "b\n", "c\n"}

	tests := []struct {
		name  string
		edits []LineEdit
		msg   string
	}{
		{name: "negative", edits: []LineEdit{{Start: -1, End: 0}}, msg: "invalid line edit range"},
		{name: "end before start", edits: []LineEdit{{Start: 2, End: 1}}, msg: "invalid line edit range"},
		{name: "out of bounds", edits: []LineEdit{{Start: 1, End: 4}}, msg: "invalid line edit range"},
		{name: "overlap", edits: []LineEdit{{Start: 0, End: 2}, {Start: 1, End: 3}}, msg: "overlapping line edits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ApplyLineEdits(lines, tt.edits, "\n")
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryInternal))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestRewrite_ReplacesExistingCaption(t *testing.T) {
	lines := []string{
		"<!-- fig_x: Flow -->\n",
		"<p align=\"center\"><i>Figure 7: Old title</i></p>\n",
		"text\n",
	}
	scan := mustSyntax(DefaultMarkers()).Scan(lines, nil)
	regions := LocateRegions(scan.Markers)
	content := Generate(scan, regions, GenerateOptions{})

	got, err := Rewrite(lines, scan, regions, content, "\n")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"<!-- fig_x: Flow -->\n",
		"<p align=\"center\"><i>Figure 1: Flow</i></p>\n",
		"text\n",
	}, got)
}
