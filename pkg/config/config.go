package config

// this holds the resolved configuration values from CLI
var (
	DB                 string   // connection string for the database
	WaitForServices    string   // duration to wait for other services to be ready
	LogLevel           string   // sets the log level (zap log level values)
	SQLLogLevel        string   // sets the log level for sql subsystem
	LogFormat          string   // text vs json
	LogFilter          string   // zapfilter rules applied to the default logger
	MigrationSourceURL string   // location of migration files (empty: use embedded)
	ServerAddr         string   // listen addr for the HTTP API server
	CORSOrigins        []string // allowed origins for the browser frontend
	EnableTelemetry    bool     // enable telemetry
	TelemetryEndpoint  string   // endpoint for telemetry ("stdout" for local output)
	ProfilingPort      int      // port for profiling
	SurfaceSide        float64  // side length of the square drawing surface
	SurfacePadding     float64  // padding kept free on each edge of the surface
)
