package state

import (
	"go.uber.org/zap"

	"github.com/indieinfra/photobin/config"
	"github.com/indieinfra/photobin/media"
)

// AppState bundles the configuration, domain service, and base logger that
// every handler closes over.
type AppState struct {
	Cfg *config.Config
	Svc *media.Service
	Log *zap.SugaredLogger
}
