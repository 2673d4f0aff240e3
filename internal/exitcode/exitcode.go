package exitcode

const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2
	FetchError      = 3
	BuildError      = 4
	DBConnError     = 5
	CopyError       = 6
	ServeError      = 7
)
