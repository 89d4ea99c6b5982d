//go:build swagger

// Package docs registers the OpenAPI spec served by /swagger. Regenerate
// with `swag init -g cmd/sessiond/docs.go` after changing handler
// annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": ["http"],
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "basePath": "{{.BasePath}}",
    "paths": {
        "/initialize": {"post": {"summary": "Initialize the inference session"}},
        "/generate": {"post": {"summary": "Run one completion against the live session"}},
        "/reset": {"post": {"summary": "Reset the engine's conversation state (best effort)"}},
        "/status": {"get": {"summary": "Full manager snapshot"}},
        "/probe": {"get": {"summary": "Host capability snapshot"}},
        "/events": {"get": {"summary": "Server-sent state snapshots"}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "sessiond API",
	Description:      "HTTP API for local LLM session lifecycle management and generation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
