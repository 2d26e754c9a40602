package swagger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	apicontract "github.com/tuanvumaihuynh/sales-analytics/api-contract"
)

const (
	// swaggerURL is the URL path where the Swagger UI will be served
	swaggerURL = "/docs"

	// redocURL is the URL path where the ReDoc UI will be served
	redocURL = "/redoc"

	// swaggerSpecURL is the URL path where the OpenAPI specification will be served
	swaggerSpecURL = "/docs/openapi.yml"

	// swaggerJSONSpecURL serves the same specification as JSON
	swaggerJSONSpecURL = "/docs/openapi.json"
)

// Register validates the embedded specification and registers the
// documentation handlers on the given router.
func Register(ctx context.Context, r chi.Router) error {
	doc, err := apicontract.Load(ctx)
	if err != nil {
		return err
	}
	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal openapi spec: %w", err)
	}

	r.Get(swaggerURL, serveBytes("text/html; charset=utf-8", []byte(getSwaggerTemplate(swaggerSpecURL))))
	r.Get(redocURL, serveBytes("text/html; charset=utf-8", []byte(getRedocTemplate(swaggerJSONSpecURL))))
	r.Get(swaggerSpecURL, serveBytes("application/yaml", apicontract.GetSpecBytes()))
	r.Get(swaggerJSONSpecURL, serveBytes("application/json", jsonBytes))

	return nil
}

func serveBytes(contentType string, body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck
		w.Write(body)
	}
}

// getSwaggerTemplate returns the HTML template for Swagger UI
func getSwaggerTemplate(specPath string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <meta name="description" content="SwaggerUI" />
  <title>Sales Analytics API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.29.3/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.29.3/swagger-ui-bundle.js" crossorigin></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: '%s',
      dom_id: '#swagger-ui',
      deepLinking: true,
      persistAuthorization: true,
    });
  };
</script>
</body>
</html>
`, specPath)
}

func getRedocTemplate(specPath string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Sales Analytics API</title>
</head>
<body>
<redoc spec-url="%s"></redoc>
<script src="https://cdn.redoc.ly/redoc/v2.5.0/bundles/redoc.standalone.js"></script>
</body>
</html>
`, specPath)
}
