// Package telemetry publishes best-effort events to NATS: product telemetry
// signals, the response pipeline and product analytics. Publishing is
// fire-and-forget; a failure is logged and never fails the caller.
package telemetry

import (
	"encoding/json"
	"fmt"
	"time"

	nats "github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/IDM-desaive/formbricks/pkg/model"
)

// Pipeline event names
const (
	EventResponseCreated  = "responseCreated"
	EventResponseFinished = "responseFinished"
)

type telemetryMessage struct {
	Event      string                 `json:"event"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

// PipelineEvent is the payload delivered to the response pipeline
type PipelineEvent struct {
	Event         string          `json:"event"`
	EnvironmentID string          `json:"environmentId"`
	SurveyID      string          `json:"surveyId"`
	Response      *model.Response `json:"response"`
}

// Service publishes events to NATS. A nil connection disables publishing,
// which the tests and the in-memory dev server rely on.
type Service struct {
	nc *nats.Conn
}

// NewService creates a new telemetry service
func NewService(nc *nats.Conn) *Service {
	return &Service{
		nc: nc,
	}
}

// Capture publishes a product telemetry signal
func (s *Service) Capture(event string, properties map[string]interface{}) {
	msg := telemetryMessage{
		Event:      event,
		Properties: properties,
		Timestamp:  time.Now().Round(time.Second).UTC(),
	}

	s.publish("formbricks.telemetry.v1.events", msg)
}

// SendToPipeline delivers a response event to the processing pipeline
func (s *Service) SendToPipeline(event PipelineEvent) {
	subj := fmt.Sprintf("formbricks.pipeline.v1.%s.events.%s", event.EnvironmentID, event.Event)
	s.publish(subj, event)
}

// CaptureAnalytics publishes a product analytics event for a team
func (s *Service) CaptureAnalytics(teamOwnerID, event, teamID string, properties map[string]interface{}) {
	if properties == nil {
		properties = make(map[string]interface{})
	}
	properties["teamOwnerId"] = teamOwnerID
	properties["teamId"] = teamID

	msg := telemetryMessage{
		Event:      event,
		Properties: properties,
		Timestamp:  time.Now().Round(time.Second).UTC(),
	}

	s.publish("formbricks.analytics.v1.events", msg)
}

func (s *Service) publish(subj string, payload interface{}) {
	if s.nc == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("telemetry failed to marshal event for %s: %v", subj, err)
		return
	}

	if err := s.nc.Publish(subj, data); err != nil {
		log.Errorf("telemetry failed to publish event to %s: %v", subj, err)
	}
}
