package loam

// LessonMetadata is the optional frontmatter of a lesson document.
// Without an id the file name (minus extension) names the topic.
type LessonMetadata struct {
	ID    string `json:"id" mapstructure:"id"`
	Title string `json:"title,omitempty" mapstructure:"title"`
}
