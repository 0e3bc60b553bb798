package alert

import (
	"context"
	"errors"
	"time"
)

// CrisisAlert describe una deteccion de alta severidad a notificar.
type CrisisAlert struct {
	Severity   string
	Confidence float64
	Excerpt    string
	DetectedAt time.Time
}

// Sender define la interfaz para envio de alertas de crisis.
type Sender interface {
	SendCrisisAlert(ctx context.Context, a CrisisAlert) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendCrisisAlert(_ context.Context, _ CrisisAlert) error {
	if s.reason == "" {
		return errors.New("alert sender disabled")
	}
	return errors.New(s.reason)
}
