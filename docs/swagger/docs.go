// Package swagger registers the OpenAPI document served at /swagger/doc.json.
// Regenerate with: swag init -g cmd/api/main.go -o docs/swagger --parseDependency
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/items": {
            "get": {
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "List items",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ListResponse"}}
                }
            }
        },
        "/items/input": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Update input",
                "parameters": [
                    {"description": "Input text", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/InputRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/InputResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/items/submit": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Submit input",
                "parameters": [
                    {"description": "Text to submit; empty submits the input buffer", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SubmitResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/items/suggestions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Suggest names",
                "parameters": [
                    {"type": "string", "description": "Prefix", "name": "q", "in": "query"},
                    {"type": "integer", "description": "Maximum suggestions (1-50)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SuggestionsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/items/suggestions/select": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Select suggestion",
                "parameters": [
                    {"description": "Suggested name", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelectSuggestionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SubmitResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/items/dedupe": {
            "post": {
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Remove duplicates",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/DedupeResponse"}}
                }
            }
        },
        "/items/stream": {
            "get": {
                "description": "Websocket; each message is a ChangeMessage",
                "tags": ["items"],
                "summary": "Item change stream",
                "responses": {
                    "101": {"description": "Switching Protocols", "schema": {"$ref": "#/definitions/ChangeMessage"}}
                }
            }
        },
        "/items/{id}/increment": {
            "post": {
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Increment quantity",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ItemResult"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/items/{id}/decrement": {
            "post": {
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Decrement quantity",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ItemResult"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/items/{id}/bought": {
            "post": {
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Mark bought",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ItemResult"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/items/{id}/reactivate": {
            "post": {
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Reactivate",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ItemResult"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/settings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Get settings",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SettingsResponse"}}
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Update settings",
                "parameters": [
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PatchSettingsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SettingsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/settings/appearance": {
            "get": {
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Resolve appearance",
                "parameters": [
                    {"enum": ["light", "dark"], "type": "string", "description": "Current system appearance", "name": "system", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AppearanceResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/settings/background-image": {
            "get": {
                "produces": ["image/png", "image/jpeg", "image/gif", "image/webp"],
                "tags": ["settings"],
                "summary": "Get background image",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "put": {
                "consumes": ["application/octet-stream"],
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Set background image",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SettingsResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Remove background image",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SettingsResponse"}}
                }
            }
        }
    },
    "definitions": {
        "AppearanceResponse": {
            "type": "object",
            "properties": {
                "background": {"$ref": "#/definitions/ColorResponse"},
                "element": {"$ref": "#/definitions/ColorResponse"},
                "foreground": {"$ref": "#/definitions/ColorResponse"},
                "has_background_image": {"type": "boolean"}
            }
        },
        "ChangeMessage": {
            "type": "object",
            "properties": {
                "item": {"$ref": "#/definitions/ItemResponse"},
                "kind": {"type": "string", "example": "updated"}
            }
        },
        "ColorResponse": {
            "type": "object",
            "properties": {
                "a": {"type": "number", "example": 0.7},
                "b": {"type": "integer", "example": 255},
                "css": {"type": "string", "example": "rgba(255, 255, 255, 0.7)"},
                "g": {"type": "integer", "example": 255},
                "r": {"type": "integer", "example": 255}
            }
        },
        "DedupeResponse": {
            "type": "object",
            "properties": {
                "removed": {"type": "integer", "example": 2},
                "warning": {"type": "string"}
            }
        },
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "item not found"}
            }
        },
        "InputRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string", "maxLength": 1024, "example": "mi"}
            }
        },
        "InputResponse": {
            "type": "object",
            "properties": {
                "suggestions": {"type": "array", "items": {"type": "string"}, "example": ["Milk", "Mint"]},
                "text": {"type": "string", "example": "Mi"}
            }
        },
        "ItemResponse": {
            "type": "object",
            "properties": {
                "bought": {"type": "boolean", "example": false},
                "bought_at": {"type": "string", "example": "2024-01-15T10:30:00Z"},
                "created_at": {"type": "string", "example": "2024-01-15T10:30:00Z"},
                "id": {"type": "string", "example": "123e4567-e89b-12d3-a456-426614174000"},
                "name": {"type": "string", "example": "Milk"},
                "quantity": {"type": "integer", "example": 2}
            }
        },
        "ItemResult": {
            "type": "object",
            "properties": {
                "item": {"$ref": "#/definitions/ItemResponse"},
                "warning": {"type": "string"}
            }
        },
        "ListResponse": {
            "type": "object",
            "properties": {
                "active": {"type": "array", "items": {"$ref": "#/definitions/ItemResponse"}},
                "bought": {"type": "array", "items": {"$ref": "#/definitions/ItemResponse"}}
            }
        },
        "PatchSettingsRequest": {
            "type": "object",
            "properties": {
                "background_color": {"type": "string", "example": "#F5E4B5"},
                "element_opacity": {"type": "number", "maximum": 1, "minimum": 0, "example": 0.7},
                "theme_mode": {"type": "string", "enum": ["system", "light", "dark"], "example": "dark"}
            }
        },
        "SelectSuggestionRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string", "maxLength": 255, "example": "Milk"}
            }
        },
        "SettingsResponse": {
            "type": "object",
            "properties": {
                "background_color": {"type": "string", "example": "#F5E4B5"},
                "element_opacity": {"type": "number", "example": 0.7},
                "has_background_image": {"type": "boolean", "example": false},
                "theme_mode": {"type": "string", "enum": ["system", "light", "dark"], "example": "system"},
                "updated_at": {"type": "string", "example": "2024-01-15T10:30:00Z"},
                "warning": {"type": "string"}
            }
        },
        "SubmitRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string", "maxLength": 1024, "example": "milk"}
            }
        },
        "SubmitResponse": {
            "type": "object",
            "properties": {
                "item": {"$ref": "#/definitions/ItemResponse"},
                "outcome": {"type": "string", "enum": ["ignored", "created", "reactivated", "already_active"], "example": "created"},
                "warning": {"type": "string"}
            }
        },
        "SuggestionsResponse": {
            "type": "object",
            "properties": {
                "suggestions": {"type": "array", "items": {"type": "string"}, "example": ["Milk", "Mint"]}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Shopping List API",
	Description:      "Single-user shopping list: items, suggestions, bought history and appearance settings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
