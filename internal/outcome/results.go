package outcome

// Result payload shapes. Field names are camel-cased in JSON; the callback
// encoder hyphenates them.

// TextResult is returned by actions that only report a status message.
type TextResult struct {
	Message string `json:"message"`
}

// PathsResult lists vault-relative note paths.
type PathsResult struct {
	Paths []string `json:"paths"`
}

// FileResult describes a single note.
type FileResult struct {
	FilePath    string         `json:"filePath"`
	Content     string         `json:"content"`
	Body        string         `json:"body"`
	FrontMatter string         `json:"frontMatter"`
	Properties  map[string]any `json:"properties"`
	UID         string         `json:"uid,omitempty"`
}

// PropertiesResult carries a note's front-matter properties.
type PropertiesResult struct {
	Properties map[string]any `json:"properties"`
}

// HelloResult is returned by a group's discovery action.
type HelloResult struct {
	Message string   `json:"message"`
	Actions []string `json:"actions"`
}
