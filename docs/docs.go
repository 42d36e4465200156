// Package docs holds the OpenAPI description served at /swagger.
// Regenerate it with `go generate ./cmd/server` after changing handler annotations.
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "DripNest Engineering",
            "url": "https://github.com/dripnest/storefront"
        },
        "license": {
            "name": "MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "description": "Report API status and database connectivity",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.DatabaseHealth": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "connected"}
            }
        },
        "handler.HealthResponse": {
            "description": "Health check result",
            "type": "object",
            "properties": {
                "database": {"$ref": "#/definitions/handler.DatabaseHealth"},
                "message": {"type": "string", "example": "DripNest API is running"},
                "status": {"type": "string", "example": "OK"},
                "timestamp": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Bearer token authentication. Format: \"Bearer {token}\"",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5000",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "DripNest Storefront API",
	Description:      "REST API of the DripNest clothing store: catalog, orders, payments, accounts and the admin dashboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
