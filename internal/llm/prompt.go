package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kevinmichaelchen/repo-audit/internal/models"
)

const promptTemplate = `You are a Senior Technical Interviewer and Code Mentor.
Analyze the following GitHub Repository metadata to evaluate a developer's project.

Repository: %s/%s
Description: %s
Stars: %d, Forks: %d, Open Issues: %d
Default Branch: %s
Last Updated: %s

Languages: %s

File Structure (Top Level):
%s

README Content (Truncated):
%s

Your Task:
1. Evaluate Code Quality & Readability (Inferred from structure, naming in file list, language usage).
2. Evaluate Project Structure (Is it standard? Organized?).
3. Evaluate Documentation (Is the README helpful? Does it explain setup?).
4. Evaluate Real-world Relevance (Is this a toy app or a production-ready tool?).

Be honest but constructive. If the README is missing, penalize heavily. If there are no tests (e.g. no .test.js, no spec files, no pytest), penalize maintainability.
%s
Generate a JSON response strictly following the schema.`

// BuildPrompt interpolates every summary field as plain text, in a fixed order.
func BuildPrompt(s models.RepositorySummary) string {
	description := "N/A"
	if s.Description != nil && *s.Description != "" {
		description = *s.Description
	}

	// Map keys marshal in sorted order, which keeps the prompt deterministic.
	languages, err := json.Marshal(s.Languages)
	if err != nil || s.Languages == nil {
		languages = []byte("{}")
	}

	hint := "Test hint: no test-related files are visible in the top-level listing.\n"
	if HasTestFiles(s.FileStructure) {
		hint = "Test hint: test-related files are visible in the top-level listing.\n"
	}

	return fmt.Sprintf(promptTemplate,
		s.Owner, s.Name,
		description,
		s.Stars, s.Forks, s.OpenIssues,
		s.DefaultBranch,
		s.UpdatedAt,
		languages,
		s.FileStructure,
		s.ReadmeContent,
		hint,
	)
}

var testFilePattern = regexp.MustCompile(`(?i)(^|[^a-z])(tests?|specs?|pytest|conftest|jest|vitest|cypress)([^a-z]|$)`)

// HasTestFiles reports whether any line of a file structure listing
// follows a common test-file naming convention.
func HasTestFiles(fileStructure string) bool {
	for _, line := range strings.Split(fileStructure, "\n") {
		if testFilePattern.MatchString(line) {
			return true
		}
	}
	return false
}
