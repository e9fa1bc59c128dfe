// Package docs registers the OpenAPI document served at /docs.
// Regenerate with: swag init -g cmd/worker/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {"tags": ["health"], "summary": "Worker information", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.WorkerInfoResponse"}}}}
        },
        "/health": {
            "get": {"tags": ["health"], "summary": "Health check", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}}}}
        },
        "/zones/classify": {
            "post": {"tags": ["zones"], "summary": "Classify a zone batch", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "batch", "required": true, "schema": {"$ref": "#/definitions/models.ZoneBatch"}}],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}}}
        },
        "/zones/classify/single": {
            "post": {"tags": ["zones"], "summary": "Classify one zone", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "zone", "required": true, "schema": {"$ref": "#/definitions/models.ZoneMetrics"}}],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"type": "object"}}}}
        },
        "/zones/latest": {
            "get": {"tags": ["zones"], "summary": "Latest tick", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}}}
        },
        "/zones/critical": {
            "get": {"tags": ["zones"], "summary": "Critical zones", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}}}}
        },
        "/classification/rules": {
            "get": {"tags": ["zones"], "summary": "Classification rules", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}}
        },
        "/alerts/active": {
            "get": {"tags": ["alerts"], "summary": "Active alerts", "produces": ["application/json"],
                "parameters": [{"type": "number", "description": "Maximum alert age in seconds", "name": "max_age", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}}}}
        },
        "/alerts/priority": {
            "get": {"tags": ["alerts"], "summary": "Alerts in priority order", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}}}}
        },
        "/alerts/history": {
            "get": {"tags": ["alerts"], "summary": "Alert history", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}}}}
        },
        "/alerts/summary": {
            "get": {"tags": ["alerts"], "summary": "Alert summary", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}}
        },
        "/alerts/stats": {
            "get": {"tags": ["alerts"], "summary": "Alert counters", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}}
        },
        "/alerts/banner": {
            "get": {"tags": ["alerts"], "summary": "Alert banner", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}}
        },
        "/alerts/{id}/visual": {
            "get": {"tags": ["alerts"], "summary": "Render alert visual", "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Alert ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}}}
        },
        "/alerts/{id}/audio": {
            "get": {"tags": ["alerts"], "summary": "Alert audio", "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Alert ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}, "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}}}
        },
        "/alerts/evict": {
            "post": {"tags": ["alerts"], "summary": "Evict old alerts", "produces": ["application/json"],
                "parameters": [{"type": "number", "description": "Maximum alert age in seconds", "name": "max_age", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}}
        },
        "/alerts/reset": {
            "post": {"tags": ["alerts"], "summary": "Reset alerts", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SuccessResponse"}}}}
        },
        "/instructions": {
            "get": {"tags": ["instructions"], "summary": "Instructions", "produces": ["application/json"],
                "parameters": [{"type": "boolean", "description": "Render display lines", "name": "display", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}}}}
        },
        "/instructions/priority": {
            "get": {"tags": ["instructions"], "summary": "Priority instructions", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}}}}
        },
        "/instructions/summary": {
            "get": {"tags": ["instructions"], "summary": "Instruction summary", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}}
        },
        "/instructions/export": {
            "get": {"tags": ["instructions"], "summary": "Download instructions", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}}}},
            "post": {"tags": ["instructions"], "summary": "Export instructions to disk", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}}}
        },
        "/worker/info": {
            "get": {"tags": ["worker"], "summary": "Get worker information", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}}
        },
        "/worker/shutdown": {
            "post": {"tags": ["worker"], "summary": "Shutdown worker", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}}
        },
        "/system/stats": {
            "get": {"tags": ["system"], "summary": "Get system stats", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}}
        }
    },
    "definitions": {
        "handlers.ErrorResponse": {"type": "object", "properties": {"error": {"type": "string", "example": "invalid request body"}}},
        "handlers.SuccessResponse": {"type": "object", "properties": {"message": {"type": "string", "example": "Alerts reset"}}},
        "handlers.HealthResponse": {"type": "object", "properties": {
            "status": {"type": "string", "example": "healthy"},
            "worker_id": {"type": "string", "example": "worker-1"},
            "messaging": {"type": "string", "example": "connected"}}},
        "handlers.WorkerInfoResponse": {"type": "object", "properties": {
            "worker_id": {"type": "string", "example": "worker-1"},
            "status": {"type": "string", "example": "running"},
            "version": {"type": "string", "example": "1.0.0"},
            "capabilities": {"type": "array", "items": {"type": "string"}}}},
        "models.ZoneMetrics": {"type": "object", "required": ["zone_id", "density"], "properties": {
            "zone_id": {"type": "string", "example": "Z_4_4"},
            "row": {"type": "integer", "example": 4},
            "col": {"type": "integer", "example": 4},
            "density": {"type": "number", "example": 3.8},
            "people_count": {"type": "integer", "example": 38},
            "speed": {"type": "number", "example": 0.4},
            "direction_variance": {"type": "number", "example": 135}}},
        "models.ZoneBatch": {"type": "object", "required": ["zones"], "properties": {
            "tick": {"type": "integer", "example": 1},
            "zones": {"type": "array", "items": {"$ref": "#/definitions/models.ZoneMetrics"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8000",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "CrowdWatch Worker API",
	Description:      "Zone density classification, rate-limited crowd alerts and exit-routing instructions",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
