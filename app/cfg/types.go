package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	SubscriptionsDir string
	Port             string

	// Ingestion configuration
	DaysToFetch  int
	MaxEntries   int
	FetchTimeout int // seconds

	// External service credentials
	OpenAIAPIKey  string
	YouTubeAPIKey string
	TwitterAPIKey string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
