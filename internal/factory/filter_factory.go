package factory

import (
	"fmt"
	"time"

	"github.com/mikey/smishing-guard/internal/adapters/filter"
	"github.com/mikey/smishing-guard/internal/config"
	"github.com/mikey/smishing-guard/internal/core"
	"github.com/mikey/smishing-guard/internal/ports"
	"go.uber.org/zap"
)

// FilterFactory creates message filters based on configuration
type FilterFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *core.AnalyzerService
}

// NewFilterFactory creates a new filter factory
func NewFilterFactory(cfg *config.Config, logger *zap.Logger, service *core.AnalyzerService) *FilterFactory {
	return &FilterFactory{
		cfg:     cfg,
		logger:  logger,
		service: service,
	}
}

// CreateMessageFilter creates a message filter based on the configuration
func (f *FilterFactory) CreateMessageFilter() (ports.MessageFilter, error) {
	filterType := f.cfg.GetString("server.filter_type")

	switch filterType {
	case "http":
		readTimeout, err := f.cfg.GetDuration("server.read_timeout")
		if err != nil {
			readTimeout = 15 * time.Second
		}
		shutdownTimeout, err := f.cfg.GetDuration("server.shutdown_timeout")
		if err != nil {
			shutdownTimeout = 10 * time.Second
		}
		return filter.NewHTTPFilter(
			f.service,
			f.logger,
			f.cfg.GetString("server.listen_address"),
			readTimeout,
			shutdownTimeout,
		), nil
	case "cli":
		return filter.NewCliFilter(
			f.service,
			f.logger,
			f.cfg.GetBool("cli.verbose"),
		)
	default:
		return nil, fmt.Errorf("unsupported filter type: %s", filterType)
	}
}
