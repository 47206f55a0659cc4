package controllers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/outagedesk/outage-server/docgen"
	"github.com/outagedesk/outage-server/metrics"
	"github.com/outagedesk/outage-server/utils"
)

// DocumentGenerator produces the outage notice for one job.
type DocumentGenerator interface {
	Generate(ctx context.Context, p docgen.Payload, job docgen.JobRef) ([]byte, error)
}

// Deps are the collaborators the handlers share.
type Deps struct {
	Generator DocumentGenerator
	Store     utils.DocumentStore
	Metrics   *metrics.Collector
	Log       *zap.Logger
	// Now is the wall clock; its location decides what "today" is.
	Now func() time.Time
}

var deps = Deps{Log: zap.NewNop(), Now: time.Now}

// Setup installs the handler dependencies. Call before serving.
func Setup(d Deps) {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	deps = d
}

func recordTransition(action string) {
	if deps.Metrics != nil {
		deps.Metrics.RecordTransition(action)
	}
}
