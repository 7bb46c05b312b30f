package repository

// Repository describes the VCS repository an analysis root lives in.
type Repository struct {
	Kind   string `json:"kind"`
	Root   string `json:"root"`
	Origin string `json:"origin,omitempty"`
	Info   *Project
}

// Project represents a detected project root
type Project struct {
	RootPath     string // Absolute path to the project root directory
	Type         string // Project type (python, javascript, matlab, go, git)
	Name         string // Name extracted from config files
	RelativePath string // Path from project root to the queried file
}
