package main

// General API documentation for swaggo. Regenerate docs/ with
// `swag init -g cmd/llmsvc/docs.go -d ./,./internal/httpapi`.
//
// @title           llmsvc API
// @version         1.0
// @description     HTTP front-end for a single local GGUF language model.
//
// @contact.name   llmsvc maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
