package grouping

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Huddle/internal/hermes"
)

// SetupSubscriptions registers the NATS handler for generation requests.
func (s *Service) SetupSubscriptions() error {
	if s.hermes == nil {
		return nil
	}
	return s.hermes.Subscribe(hermes.SubjectGenerateRequest, s.handleGenerateRequest)
}

func (s *Service) handleGenerateRequest(subject string, data []byte) {
	raw, ok := hermes.SectionIDFromSubject(subject)
	if !ok {
		s.logger.Warn("generate request on unexpected subject", "subject", subject)
		return
	}
	sectionID, err := uuid.Parse(raw)
	if err != nil {
		s.logger.Warn("invalid section id in generate request", "subject", subject, "error", err)
		return
	}

	var evt hermes.GenerateRequestEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		s.logger.Warn("invalid generate request event", "error", err)
		return
	}

	req := GenerateRequest{
		TeacherID:  evt.TeacherID,
		SectionID:  sectionID,
		GroupCount: evt.GroupCount,
		Force:      evt.Force,
	}
	if evt.Weights != nil {
		req.Weights = &WeightOverrides{
			Coding:     evt.Weights.Coding,
			Design:     evt.Weights.Design,
			Writing:    evt.Weights.Writing,
			Presenting: evt.Weights.Presenting,
		}
	}

	if _, err := s.Generate(context.Background(), req); err != nil {
		s.logger.Warn("generate request failed", "section_id", sectionID, "error", err)
	}
}
