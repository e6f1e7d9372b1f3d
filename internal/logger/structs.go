package logger

// Console configures log output to stdout/stderr.
type Console struct {
	Enabled bool `toml:"enabled" json:"enabled"`
	// UseConsoleWriter switches from JSON lines to zerolog's human readable console format.
	UseConsoleWriter bool `toml:"useConsoleWriter" json:"useConsoleWriter"`
}

// RollingFile describes one lumberjack managed log file.
type RollingFile struct {
	Name       string `toml:"name"       json:"name"`
	MaxSize    int    `toml:"maxSize"    json:"maxSize"` // megabytes
	MaxBackups int    `toml:"maxBackups" json:"maxBackups"`
	MaxAge     int    `toml:"maxAge"     json:"maxAge"` // days
}

// LogFile configures file based logging, one file per level group.
type LogFile struct {
	Enabled bool   `toml:"enabled" json:"enabled"`
	Path    string `toml:"path"    json:"path"`

	Access RollingFile `toml:"access" json:"access"`
	Error  RollingFile `toml:"error"  json:"error"`
	Info   RollingFile `toml:"info"   json:"info"`
	Trace  RollingFile `toml:"trace"  json:"trace"`
	Warn   RollingFile `toml:"warn"   json:"warn"`
}

// Log implements the logger config.
type Log struct {
	LogLevel string `toml:"logLevel" json:"logLevel"` // trace, debug, info, warn, error
	LogEnv   string `toml:"logEnv"   json:"logEnv"`

	// EnableAccessLogToConsole writes the HTTP access log to stdout.
	// Console.Enabled must be true as well.
	EnableAccessLogToConsole bool `toml:"enableAccessLogToConsole" json:"enableAccessLogToConsole"`
	ReportCaller             bool `toml:"reportCaller"             json:"reportCaller"`
	DisableCheckAlive        bool `toml:"disableCheckAlive"        json:"disableCheckAlive"` // do not log /checkalive calls

	AppName     string `toml:"appName"     json:"appName"`
	ServiceName string `toml:"serviceName" json:"serviceName"`

	Console Console `toml:"console" json:"console"`
	File    LogFile `toml:"file"    json:"file"`
}
