// Package docs registers the console's OpenAPI description with swag so
// echo-swagger can serve it under /swagger/.
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["pages"],
                "summary": "Dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.dashboardEnvelope"}},
                    "302": {"description": "Redirect to /login or /401"}
                }
            }
        },
        "/login": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login page",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.loginPage"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.loginEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.envelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.loginEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.loginEnvelope"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.loginEnvelope"}}
                }
            }
        },
        "/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.envelope"}}
                }
            }
        },
        "/401": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pages"],
                "summary": "Unauthorized page",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messagePage"}}
                }
            }
        },
        "/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List users",
                "parameters": [
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size (default 20)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Query-string filter, e.g. name=john&role=admin", "name": "filter", "in": "query"},
                    {"type": "string", "description": "Name contains", "name": "name", "in": "query"},
                    {"type": "string", "description": "Email contains", "name": "email", "in": "query"},
                    {"type": "string", "description": "Role", "name": "role", "in": "query"},
                    {"type": "string", "description": "Status", "name": "status", "in": "query"},
                    {"type": "string", "description": "Sort field (default name)", "name": "sortBy", "in": "query"},
                    {"type": "string", "description": "asc or desc", "name": "sortOrder", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.usersEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.usersEnvelope"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.usersEnvelope"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Create user",
                "parameters": [
                    {"description": "New user", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.newUserEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.envelope"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.newUserEnvelope"}}
                }
            }
        },
        "/users/create": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "New user form",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.rolesEnvelope"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get user",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.userEnvelope"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.userEnvelope"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update user",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.userEnvelope"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.userEnvelope"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Delete user",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.envelope"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.envelope"}}
                }
            }
        },
        "/roles": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List roles",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.rolesEnvelope"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.readinessResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.readinessResponse"}}
                }
            }
        },
        "/debug/fail-next": {
            "post": {
                "produces": ["application/json"],
                "tags": ["debug"],
                "summary": "Schedule simulated failures",
                "parameters": [
                    {"type": "integer", "description": "Number of calls to fail (default 1)", "name": "n", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "integer"}}}
                }
            }
        }
    },
    "definitions": {
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "manager", "viewer"]},
                "status": {"type": "string", "enum": ["active", "inactive", "pending"]},
                "dateJoined": {"type": "string"}
            }
        },
        "handler.envelope": {
            "type": "object",
            "properties": {
                "isSuccess": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6}
            }
        },
        "handler.loginEnvelope": {
            "type": "object",
            "properties": {
                "isSuccess": {"type": "boolean"},
                "message": {"type": "string"},
                "user": {"$ref": "#/definitions/domain.User"},
                "permissions": {"type": "array", "items": {"type": "string"}},
                "token": {"type": "string"}
            }
        },
        "handler.loginPage": {
            "type": "object",
            "properties": {
                "notices": {"type": "array", "items": {"type": "string"}},
                "error": {"type": "string"}
            }
        },
        "handler.messagePage": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "handler.userCounts": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "active": {"type": "integer"},
                "inactive": {"type": "integer"},
                "pending": {"type": "integer"}
            }
        },
        "handler.dashboardEnvelope": {
            "type": "object",
            "properties": {
                "isSuccess": {"type": "boolean"},
                "message": {"type": "string"},
                "counts": {"$ref": "#/definitions/handler.userCounts"}
            }
        },
        "handler.usersEnvelope": {
            "type": "object",
            "properties": {
                "isSuccess": {"type": "boolean"},
                "message": {"type": "string"},
                "users": {"type": "array", "items": {"$ref": "#/definitions/domain.User"}},
                "total": {"type": "integer"}
            }
        },
        "handler.userEnvelope": {
            "type": "object",
            "properties": {
                "isSuccess": {"type": "boolean"},
                "message": {"type": "string"},
                "user": {"$ref": "#/definitions/domain.User"}
            }
        },
        "handler.newUserEnvelope": {
            "type": "object",
            "properties": {
                "isSuccess": {"type": "boolean"},
                "message": {"type": "string"},
                "newUser": {"$ref": "#/definitions/domain.User"}
            }
        },
        "handler.rolesEnvelope": {
            "type": "object",
            "properties": {
                "isSuccess": {"type": "boolean"},
                "message": {"type": "string"},
                "roles": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handler.createUserRequest": {
            "type": "object",
            "required": ["email", "name", "role"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "manager", "viewer"]},
                "password": {"type": "string", "minLength": 6}
            }
        },
        "handler.updateUserRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "manager", "viewer"]},
                "status": {"type": "string", "enum": ["active", "inactive", "pending"]}
            }
        },
        "handler.dependencyStatus": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "handler.readinessResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "dependencies": {"type": "object", "additionalProperties": {"$ref": "#/definitions/handler.dependencyStatus"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Admin Console API",
	Description:      "Session, permission and user management surface of the admin console.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
