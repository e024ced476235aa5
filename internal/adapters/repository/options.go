package repository

// Option applies a configuration option to the JSONStore.
type Option func(*JSONStore)

// WithFileNames overrides the skills and relationships file names.
// Empty names keep the defaults.
func WithFileNames(skills, relationships string) Option {
	return func(s *JSONStore) {
		if skills != "" {
			s.skillsFile = skills
		}
		if relationships != "" {
			s.relationshipsFile = relationships
		}
	}
}
