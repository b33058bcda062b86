package config

var defaults = map[string]any{
	"secret":    "",
	"token_ttl": 24, // hours
	"log_level": "info",

	"listen": ":5000",

	"allowed_networks": "",

	"scheduler.cadence":        "1m",
	"scheduler.command_ttl":    "5m",
	"scheduler.override_grace": "1m",
	"scheduler.autostart":      true,

	"storage.type":       "sqlite",
	"storage.local.path": "./data/storage.db",
}

func Defaults() map[string]any {
	values := make(map[string]any)
	for k, v := range defaults {
		values[k] = v
	}
	return values
}
