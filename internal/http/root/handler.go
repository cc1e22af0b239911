package root

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/janisto/hello-metrics/internal/platform/logging"
)

const (
	// Message is the fixed greeting returned by GET /.
	Message = "Hello World!"

	// LogCode identifies the greeting log record.
	LogCode = "DET00001I"
)

// Register wires the greeting route into the API.
func Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-greeting",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Return the static greeting",
		Tags:        []string{"Greeting"},
	}, getHandler)
}

func getHandler(ctx context.Context, _ *struct{}) (*GetOutput, error) {
	applog.LogInfo(ctx, Message, zap.String("errCode", LogCode))
	return &GetOutput{Body: Data{Message: Message}}, nil
}
