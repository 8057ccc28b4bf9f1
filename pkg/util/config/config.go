package config

import (
	"log"
	"sync"

	"github.com/Jeffail/gabs"
)

const configFile = "config.json"

var (
	config   *gabs.Container
	loadOnce sync.Once
)

// Get returns config data with the given path.
// Config data is only allowed in string type.
// The config file is loaded on the first call, so packages can import
// the typed config structs without requiring config.json to exist.
func Get(path string) string {
	loadOnce.Do(load)
	return config.Path(path).Data().(string)
}

func load() {
	json, err := gabs.ParseJSONFile(configFile)
	if err != nil {
		log.Panic(err)
	}

	config = json
}
