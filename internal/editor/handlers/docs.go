package handlers

import (
	_ "embed"

	"github.com/gofiber/fiber/v3"
)

//go:embed openapi.yaml
var openapiSpec []byte

// ============================================================
// API Docs Handlers
// ============================================================

// OpenAPISpec serves the API description.
func OpenAPISpec(c fiber.Ctx) error {
	c.Type("yaml")
	return c.Send(openapiSpec)
}

// SwaggerUI serves a Swagger UI page reading /docs/openapi.yaml.
func SwaggerUI(c fiber.Ctx) error {
	page := `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>Focus-Point Editor API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: '/docs/openapi.yaml',
      dom_id: '#swagger-ui',
    });
  };
</script>
</body>
</html>`

	c.Type("html")
	return c.SendString(page)
}

func RegisterDocs(r fiber.Router) {
	r.Get("/docs", SwaggerUI)
	r.Get("/docs/openapi.yaml", OpenAPISpec)
}
