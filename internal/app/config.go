package app

import "time"

// Config holds runtime configuration for the application.
type Config struct {
	// InputPath is a Markdown file or a directory searched for *.md files.
	InputPath string

	// Regular expressions matched against the start of each discovered path.
	IncludeFiles []string
	ExcludeFiles []string

	// Extension names to include or exclude.
	IncludeExtensions []string
	ExcludeExtensions []string
	// CheckAnchors activates the AnchorCheck extension.
	CheckAnchors bool

	// Concurrency bounds parallel documents; zero means GOMAXPROCS.
	Concurrency int

	// Behavior
	DryRun           bool
	Verbose          bool
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool
}
