package llm

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptContainsEveryField(t *testing.T) {
	s := sampleSummary()
	prompt := BuildPrompt(s)

	for _, want := range []string{
		s.Owner + "/" + s.Name,
		*s.Description,
		strconv.Itoa(s.Stars),
		strconv.Itoa(s.Forks),
		strconv.Itoa(s.OpenIssues),
		s.DefaultBranch,
		s.UpdatedAt,
		`{"CSS":200,"TypeScript":1000}`,
		s.FileStructure,
		s.ReadmeContent,
	} {
		assert.Contains(t, prompt, want)
	}

	assert.Equal(t, prompt, BuildPrompt(s), "prompt must be deterministic")
}

func TestBuildPromptFieldOrder(t *testing.T) {
	prompt := BuildPrompt(sampleSummary())
	order := []string{"Repository:", "Description:", "Stars:", "Last Updated:", "Languages:", "File Structure", "README Content"}
	last := -1
	for _, marker := range order {
		idx := strings.Index(prompt, marker)
		assert.Greater(t, idx, last, "%s out of order", marker)
		last = idx
	}
}

func TestBuildPromptPlaceholders(t *testing.T) {
	s := sampleSummary()
	s.Description = nil
	s.Languages = nil

	prompt := BuildPrompt(s)
	assert.Contains(t, prompt, "Description: N/A")
	assert.Contains(t, prompt, "Languages: {}")
	assert.Contains(t, prompt, "no test-related files are visible")
}

func TestHasTestFiles(t *testing.T) {
	cases := []struct {
		listing string
		want    bool
	}{
		{"/src (dir)\n/README.md (file)", false},
		{"/tests (dir)", true},
		{"/test (dir)", true},
		{"/main_test.go (file)", true},
		{"/app.test.js (file)", true},
		{"/spec (dir)", true},
		{"/__tests__ (dir)", true},
		{"/pytest.ini (file)", true},
		{"/jest.config.js (file)", true},
		{"/testdata (dir)\n/inspect.py (file)", false},
		{"/contest (dir)\n/respectable.md (file)", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HasTestFiles(tc.listing), tc.listing)
	}
}
