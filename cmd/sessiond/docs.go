package main

// General API documentation for swaggo. Run `swag init -g cmd/sessiond/docs.go`
// to regenerate docs, then build with -tags=swagger to serve them.
//
// @title           sessiond API
// @version         1.0
// @description     HTTP API for local LLM session lifecycle management and generation.
//
// @contact.name   sessiond maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
