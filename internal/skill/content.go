package skill

// Content is a skill's primary document as rendered into agent skill
// directories.
type Content struct {
	Name string
	Text string
}
