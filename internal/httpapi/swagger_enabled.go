//go:build swagger

package httpapi

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "mlxd/docs" // registers the generated OpenAPI spec
)

// MountSwagger serves the swagger UI at /swagger/. Regenerate the spec with
// `swag init -g cmd/mlxd/docs.go` before building with -tags=swagger.
func MountSwagger(r chi.Router) {
	r.Get("/swagger/*", httpSwagger.WrapHandler)
}
