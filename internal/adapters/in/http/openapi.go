package http

import (
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

//go:embed openapi.yml
var openAPISpec []byte

// GetSwagger parses and validates the embedded OpenAPI document.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openAPISpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
}

// registerSwaggerDoc makes the document available to the Swagger UI under the default
// swag instance name.
func registerSwaggerDoc(doc *openapi3.T) error {
	raw, err := doc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode openapi document: %w", err)
	}

	if swag.GetSwagger(swag.Name) != nil {
		return nil
	}
	swag.Register(swag.Name, &swag.Spec{
		Version:          doc.Info.Version,
		Title:            doc.Info.Title,
		Description:      doc.Info.Description,
		InfoInstanceName: swag.Name,
		SwaggerTemplate:  string(raw),
	})
	return nil
}
