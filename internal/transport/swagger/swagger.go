package swagger

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

func Handler() http.Handler {
	// The document itself is served at /openapi.yml by the api package.
	return httpSwagger.Handler(
		httpSwagger.URL("/openapi.yml"), // document served at root
	)
}
