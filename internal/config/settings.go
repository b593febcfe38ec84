package config

// Setting describes one environment variable read by Load.
type Setting struct {
	Name        string
	Default     string
	Description string
}

var Settings = []Setting{
	{
		Name:        "LIFEGUARD_MONGODB_DATABASE",
		Default:     "lifeguard",
		Description: "MongoDB database name",
	},
	{
		Name:        "LIFEGUARD_MONGODB_URL",
		Default:     "mongodb://localhost:27017",
		Description: "MongoDB connection url",
	},
	{
		Name:        "LIFEGUARD_MONGODB_CONNECT_TIMEOUT_SEC",
		Default:     "10",
		Description: "Seconds to wait for the initial MongoDB connection and ping",
	},
	{
		Name:        "API_PORT",
		Default:     "8080",
		Description: "Port for the health, metrics and inspection HTTP server",
	},
	{
		Name:        "LOG_LEVEL",
		Default:     "info",
		Description: "Log level (debug, info, warn, error)",
	},
}

func Lookup(name string) (Setting, bool) {
	for _, s := range Settings {
		if s.Name == name {
			return s, true
		}
	}
	return Setting{}, false
}
