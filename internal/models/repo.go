package models

// RepositoryReference identifies a repository on the hosting service.
type RepositoryReference struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

func (r RepositoryReference) FullName() string {
	return r.Owner + "/" + r.Name
}

// RepositorySummary is the bounded snapshot handed to the audit stage.
// FileStructure and ReadmeContent are always set; absence is spelled out
// with a placeholder because the prompt interpolates both as text.
type RepositorySummary struct {
	Owner         string         `json:"owner" yaml:"owner"`
	Name          string         `json:"name" yaml:"name"`
	Description   *string        `json:"description" yaml:"description"`
	Stars         int            `json:"stars" yaml:"stars"`
	Forks         int            `json:"forks" yaml:"forks"`
	OpenIssues    int            `json:"openIssues" yaml:"openIssues"`
	DefaultBranch string         `json:"defaultBranch" yaml:"defaultBranch"`
	UpdatedAt     string         `json:"updatedAt" yaml:"updatedAt"`
	Languages     map[string]int `json:"languages" yaml:"languages"`
	FileStructure string         `json:"fileStructure" yaml:"fileStructure"`
	ReadmeContent string         `json:"readmeContent" yaml:"readmeContent"`
}

func (s RepositorySummary) FullName() string {
	return s.Owner + "/" + s.Name
}
