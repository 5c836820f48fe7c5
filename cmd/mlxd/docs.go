package main

// General API documentation for swaggo. Run `swag init -g cmd/mlxd/docs.go`
// to regenerate docs.
//
// @title           mlxd API
// @version         1.0
// @description     OpenAI-compatible HTTP API for local model management and chat completions.
//
// @contact.name   mlxd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
