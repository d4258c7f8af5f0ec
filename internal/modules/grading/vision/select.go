package vision

import (
	"strings"

	"github.com/nala-edu/ai-grader/internal/modules/grading/gateway"
	"github.com/nala-edu/ai-grader/internal/platform/gcp"
	"github.com/nala-edu/ai-grader/internal/platform/logger"
)

const (
	ModeAuto    = "auto"
	ModeGateway = "gateway"
	ModeGCP     = "gcp"
	ModeMock    = "mock"
)

// SelectProvider picks the provider once at startup. In auto mode the
// gateway wins when it has credentials, then Cloud Vision, then the mock.
// An explicit mode whose backend is missing degrades to the mock.
func SelectProvider(log *logger.Logger, mode string, gw *gateway.Gateway, gv gcp.Vision, mock *MockProvider) Provider {
	if mock == nil {
		mock = &MockProvider{}
	}
	mode = strings.ToLower(strings.TrimSpace(mode))
	switch mode {
	case ModeGateway:
		if gw.Available() {
			return NewGatewayProvider(log, gw, mock)
		}
	case ModeGCP:
		if gv != nil {
			return NewGCPProvider(gv)
		}
	case ModeMock:
		return mock
	default:
		if gw.Available() {
			return NewGatewayProvider(log, gw, mock)
		}
		if gv != nil {
			return NewGCPProvider(gv)
		}
		return mock
	}
	log.Warn("vision provider unavailable, using mock", "mode", mode)
	return mock
}
