package root

// Data is the greeting payload.
type Data struct {
	Message string `json:"message" doc:"Greeting message" example:"Hello World!"`
}

// GetOutput is the response wrapper for GET /.
type GetOutput struct {
	Body Data
}
