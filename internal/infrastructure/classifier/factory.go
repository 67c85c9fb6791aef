package classifier

import (
	"context"
	"fmt"

	"github.com/turtacn/loanrisk/internal/config"
	"github.com/turtacn/loanrisk/internal/domain/service"
	"github.com/turtacn/loanrisk/pkg/constants"
	"github.com/turtacn/loanrisk/pkg/logger"
)

// stubDefaultProbability is what the stub backend answers when selected by configuration.
const stubDefaultProbability = 0.1

// New builds the classifier selected by cfg.Backend. The returned close
// function is never nil.
func New(ctx context.Context, cfg config.ModelConfig, log logger.Logger) (service.Classifier, func() error, error) {
	noop := func() error { return nil }

	switch constants.ClassifierBackend(cfg.Backend) {
	case constants.BackendArtifact:
		c, err := NewArtifactClassifier(cfg.ArtifactPath)
		if err != nil {
			return nil, noop, err
		}
		info := c.Info()
		log.Info(ctx, "model artifact loaded",
			logger.Fields{
				"path":       cfg.ArtifactPath,
				"name":       info.Name,
				"version":    info.Version,
				"estimators": info.Estimators,
			},
		)
		return c, noop, nil

	case constants.BackendRemote:
		c, err := NewRemoteClassifier(cfg.RemoteTarget, cfg.RemoteTimeout, log)
		if err != nil {
			return nil, noop, err
		}
		log.Info(ctx, "using remote classifier", logger.String("target", cfg.RemoteTarget))
		return c, c.Close, nil

	case constants.BackendStub:
		log.Warn(ctx, "using stub classifier, predictions are fixed")
		return NewStubClassifierForDefault(stubDefaultProbability), noop, nil
	}
	return nil, noop, fmt.Errorf("unknown classifier backend %q", cfg.Backend)
}
