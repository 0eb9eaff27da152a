package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	SourcesDir        string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	FetchTimeout      int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
