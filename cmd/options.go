package cmd

// Options holds the shared command-line options for the reporter CLI.
type Options struct {
	Verbosity int

	// Report options
	Days        int
	StartDate   string
	EndDate     string
	Repos       []string
	Narrative   bool
	GeminiModel string
	Source      string
}
