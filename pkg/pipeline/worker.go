// Package pipeline consumes response events from NATS and dispatches them
// to registered handlers. Workers form a queue group, so events are
// processed once across all server instances.
package pipeline

import (
	"encoding/json"
	"fmt"

	nats "github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/IDM-desaive/formbricks/pkg/telemetry"
)

const (
	subjectWildcard = "formbricks.pipeline.v1.>"
	queueGroup      = "formbricks.pipeline.v1.workers"
)

// HandlerFunc processes a single pipeline event. Returning an error only
// logs it; pipeline processing is best-effort.
type HandlerFunc func(event telemetry.PipelineEvent) error

// Worker subscribes to the pipeline subjects and fans events out to the
// handlers registered for their event name.
type Worker struct {
	nc       *nats.Conn
	handlers map[string][]HandlerFunc
}

// NewWorker creates a worker. Register handlers before calling Subscribe.
func NewWorker(nc *nats.Conn) *Worker {
	return &Worker{
		nc:       nc,
		handlers: make(map[string][]HandlerFunc),
	}
}

// Handle registers fn for the given pipeline event name, e.g.
// telemetry.EventResponseCreated.
func (w *Worker) Handle(event string, fn HandlerFunc) {
	w.handlers[event] = append(w.handlers[event], fn)
}

// Subscribe joins the worker queue group.
func (w *Worker) Subscribe() error {
	if w.nc == nil {
		return fmt.Errorf("pipeline: connection to nats is missing")
	}

	if _, err := w.nc.QueueSubscribe(subjectWildcard, queueGroup, func(msg *nats.Msg) {
		w.handleMessage(msg)
	}); err != nil {
		return err
	}

	return nil
}

func (w *Worker) handleMessage(msg *nats.Msg) {
	event := telemetry.PipelineEvent{}
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Errorf("pipeline: failed to decode event on %s: %v", msg.Subject, err)
		return
	}

	for _, fn := range w.handlers[event.Event] {
		if err := fn(event); err != nil {
			log.WithFields(log.Fields{
				"event":         event.Event,
				"environmentId": event.EnvironmentID,
				"surveyId":      event.SurveyID,
			}).Errorf("pipeline: handler failed: %v", err)
		}
	}
}
