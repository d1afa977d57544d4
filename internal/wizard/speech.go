package wizard

import (
	"context"
	"errors"
)

// VoiceUnsupportedNotice is shown when speech capture cannot be used.
const VoiceUnsupportedNotice = "Voice input not supported. Please type your cover letter manually."

// ErrSpeechUnavailable is returned by Unavailable.
var ErrSpeechUnavailable = errors.New("speech capture unavailable")

// Speech is a single-shot, non-continuous speech capture capability.
type Speech interface {
	Capture(ctx context.Context) (string, error)
}

// Transcript is available speech that recognized one utterance.
type Transcript string

// Capture implements Speech.
func (t Transcript) Capture(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return string(t), nil
}

// Unavailable is an environment without speech capture.
type Unavailable struct{}

// Capture implements Speech.
func (Unavailable) Capture(context.Context) (string, error) {
	return "", ErrSpeechUnavailable
}

// Failed is available speech whose capture session errored.
type Failed struct {
	Err error
}

// Capture implements Speech.
func (f Failed) Capture(context.Context) (string, error) {
	if f.Err == nil {
		return "", ErrSpeechUnavailable
	}
	return "", f.Err
}
