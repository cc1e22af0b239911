package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/hello-metrics/internal/http/root"
)

// Register wires all huma operations into the provided API.
func Register(api huma.API) {
	root.Register(api)
}
