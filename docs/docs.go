// Package docs registers the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Login", "consumes": ["application/json"], "produces": ["application/json"],
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/loginRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/session"}}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}},
        "/auth/logout": {"post": {"tags": ["auth"], "summary": "Logout", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}}}},
        "/auth/session": {"get": {"tags": ["auth"], "summary": "Current session", "security": [{"BearerAuth": []}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/session"}}, "401": {"description": "Unauthorized"}}}},
        "/auth/permissions/{capability}": {"get": {"tags": ["auth"], "summary": "Check a capability", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "path", "name": "capability", "type": "string", "required": true}],
            "responses": {"200": {"description": "OK"}}}},
        "/navigation": {"get": {"tags": ["navigation"], "summary": "Navigation", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/users": {
            "get": {"tags": ["admin"], "summary": "List users", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "post": {"tags": ["admin"], "summary": "Create user", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/admin/users/{id}/status": {"patch": {"tags": ["admin"], "summary": "Toggle user status", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/admin/users/import": {"post": {"tags": ["admin"], "summary": "Import users from CSV", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "413": {"description": "Request Entity Too Large"}}}},
        "/admin/audit": {"get": {"tags": ["admin"], "summary": "Audit log", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "query", "name": "limit", "type": "integer"}], "responses": {"200": {"description": "OK"}}}},
        "/admin/audit/export": {"get": {"tags": ["admin"], "summary": "Export audit log", "security": [{"BearerAuth": []}], "produces": ["text/csv"], "responses": {"200": {"description": "OK"}}}},
        "/health": {"get": {"tags": ["health"], "summary": "Liveness", "responses": {"200": {"description": "OK"}}}},
        "/health/ready": {"get": {"tags": ["health"], "summary": "Readiness", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}}
    },
    "definitions": {
        "loginRequest": {"type": "object", "properties": {
            "identifier": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}},
        "menuItem": {"type": "object", "properties": {
            "key": {"type": "string"}, "label": {"type": "string"}, "icon": {"type": "string"}}},
        "user": {"type": "object", "properties": {
            "id": {"type": "string"}, "username": {"type": "string"}, "email": {"type": "string"},
            "role": {"type": "string", "enum": ["admin", "stakeholder", "subClusterFocalPerson"]},
            "status": {"type": "string", "enum": ["active", "inactive"]}}},
        "session": {"type": "object", "properties": {
            "token": {"type": "string"}, "user": {"$ref": "#/definitions/user"},
            "portal": {"type": "string", "enum": ["admin", "focal", "dashboard"]},
            "role_label": {"type": "string"},
            "menu": {"type": "array", "items": {"$ref": "#/definitions/menuItem"}},
            "portal_menu": {"type": "array", "items": {"$ref": "#/definitions/menuItem"}},
            "permissions": {"type": "array", "items": {"type": "string"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Stakeholder Mapping Tool API",
	Description:      "Session, role-based access and navigation for the MIGEPROF Stakeholder Mapping Tool.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
