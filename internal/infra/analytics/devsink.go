package analytics

import (
	"context"
	"log"

	"github.com/bonpiedlaroute/leaseboost/internal/domain/tracking"
)

// DevSink diverts every event to the local log. It is wired instead of GA
// when the configured environment is local, so development traffic never
// pollutes production analytics.
type DevSink struct{}

func (DevSink) Send(_ context.Context, client, event string, params tracking.Params) error {
	log.Printf("Dev event: %s client=%s %v", event, client, params)
	return nil
}
