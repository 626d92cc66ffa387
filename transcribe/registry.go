package transcribe

import (
	"github.com/skillsenselab/batchscribe/config"
	"github.com/skillsenselab/batchscribe/logger"
	"github.com/skillsenselab/batchscribe/provider"
)

// Factory creates a transcription back-end from validated settings.
type Factory = provider.Factory[Provider, *config.Settings]

var registry = provider.NewRegistry[Provider, *config.Settings]()

// RegisterFactory registers a transcription back-end factory under the
// given provider name. Implementation packages call this in an init
// function; blank-import them to make their back-ends selectable:
//
//	import _ "github.com/skillsenselab/batchscribe/transcribe/azure"
func RegisterFactory(name string, f Factory) {
	registry.RegisterFactory(name, f)
}

// New constructs the back-end selected by cfg.Provider. Each factory
// validates its own settings, so a missing credential surfaces here as a
// configuration error before any remote call is made.
func New(cfg *config.Settings, log *logger.Logger) (Provider, error) {
	log.WithComponent("transcribe").Info("initializing provider", map[string]interface{}{
		"provider": cfg.Provider,
		"language": cfg.Language,
	})
	return registry.Create(cfg.Provider, cfg)
}

// Registered returns the sorted names of all registered back-ends.
func Registered() []string {
	return registry.List()
}
