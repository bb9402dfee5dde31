package cfg

const (
	CommandIngest   = "ingest"
	CommandServe    = "serve"
	CommandSchedule = "schedule"
)

type Cfg struct {
	Command string

	// Storage
	Store         string
	DBPath        string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Sources
	SourcesDir string
	NewsAPIKey string
	NewsAPIURL string

	// Ingestion
	KeyScheme         string
	InsertWorkers     int
	WorkerCount       int
	SchedulerInterval int

	// Application configuration
	Port      string
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
