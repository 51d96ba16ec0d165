package api

// Logger collects log lines.
//
//delegen:delegated
type Logger interface {
	//delegen:receiver mut
	Log(line string)

	//delegen:receiver mut
	Flush() []string
}
