package engine

import (
	"context"
	"errors"
	"fmt"

	"licenseguard/internal/license/models"
)

// finish records the check-in and runs abuse monitoring. Neither step can change
// the result already decided for the caller.
func (s *Service) finish(ctx context.Context, c *checkIn, result *models.Result) {
	event, err := models.NewCheckEvent(c.key, c.domain, c.req.Client.IPAddress, c.req.Client.UserAgent, result.Code, c.now)
	if err != nil {
		s.monitoringFailed(ctx, c, err)
		return
	}
	if _, err := s.usage.RecordCheck(ctx, event); err != nil {
		s.monitoringFailed(ctx, c, fmt.Errorf("record check: %w", err))
		// pipeline incidents are still worth recording
		s.handleIncidents(ctx, c, c.incidents)
		return
	}

	incidents := c.incidents
	// a restricted license is already under a countermeasure; re-evaluating rules
	// for its rejected check-ins would only keep pushing the restriction out
	if s.detector != nil && result.Code != models.CodeLicenseRestricted {
		detected, err := s.detector.Evaluate(ctx, event)
		if err != nil {
			s.monitoringFailed(ctx, c, fmt.Errorf("evaluate abuse rules: %w", err))
		}
		incidents = append(incidents, detected...)
	}
	s.handleIncidents(ctx, c, incidents)
}

func (s *Service) handleIncidents(ctx context.Context, c *checkIn, incidents []*models.Incident) {
	var errs []error
	for _, inc := range incidents {
		if s.recorder != nil {
			if err := s.recorder.Record(ctx, inc); err != nil {
				errs = append(errs, fmt.Errorf("record %s: %w", inc.Type, err))
			}
		}
		if s.dispatcher != nil {
			if _, err := s.dispatcher.Dispatch(ctx, inc); err != nil {
				errs = append(errs, fmt.Errorf("dispatch %s: %w", inc.Type, err))
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		s.monitoringFailed(ctx, c, err)
	}
}

func (s *Service) monitoringFailed(ctx context.Context, c *checkIn, err error) {
	s.metrics.IncrementMonitoringFailures()
	s.logger.WarnContext(ctx, "license monitoring failed",
		"operation", string(c.op),
		"license_key", maskKey(c.key),
		"domain", c.domain,
		"error", err,
	)
}
