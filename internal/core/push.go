package core

import "context"

//go:generate mockgen -destination=mocks/mock_push.go -package=mocks github.com/dkeye/Pulse/internal/core PushGateway

type PushPriority string

const (
	PushHigh   PushPriority = "high"
	PushNormal PushPriority = "normal"
)

// PushPayload is a notification already formatted for the gateway.
type PushPayload struct {
	Title    string
	Body     string
	Data     map[string]string
	Priority PushPriority
	Tag      string
}

type PushResult struct {
	Token string
	Err   error
}

// PushGateway delivers a payload to opaque device tokens. A transport-level
// failure is returned as error; per-token failures are reported in the results.
type PushGateway interface {
	Send(ctx context.Context, tokens []string, payload PushPayload) ([]PushResult, error)
}
