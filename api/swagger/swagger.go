package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Open Calls API",
        "description": "Bilingual open-calls board: public listing plus admin management",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Calls", "description": "Public call listing"},
        {"name": "Admin Calls", "description": "Privileged call management"},
        {"name": "Authentication", "description": "Admin session handling"}
    ],
    "paths": {
        "/calls": {
            "get": {
                "tags": ["Calls"],
                "summary": "List open calls",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "type", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"},
                    {"name": "location", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"},
                    {"name": "institution", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"},
                    {"name": "createdAfter", "in": "query", "type": "string"},
                    {"name": "createdBefore", "in": "query", "type": "string"},
                    {"name": "deadlineAfter", "in": "query", "type": "string"},
                    {"name": "deadlineBefore", "in": "query", "type": "string"},
                    {"name": "sortBy", "in": "query", "type": "string", "enum": ["createdAt", "deadline"]},
                    {"name": "sortOrder", "in": "query", "type": "string", "enum": ["asc", "desc"]},
                    {"name": "offset", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Active calls, archival timestamp omitted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calls/options": {
            "get": {
                "tags": ["Calls"],
                "summary": "List filter options",
                "responses": {
                    "200": {"description": "Distinct type, location and institution values", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/calls": {
            "get": {
                "tags": ["Admin Calls"],
                "summary": "List calls for administration",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "archived", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "Calls in full shape", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Missing or invalid session"},
                    "403": {"description": "Not an admin"}
                }
            },
            "post": {
                "tags": ["Admin Calls"],
                "summary": "Create a call",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCallRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created call", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing title or malformed payload"}
                }
            }
        },
        "/admin/calls/{id}": {
            "patch": {
                "tags": ["Admin Calls"],
                "summary": "Partially update a call",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateCallRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated call", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Empty or malformed payload"},
                    "404": {"description": "No call with that id"}
                }
            }
        },
        "/admin/calls/{id}/archive": {
            "post": {
                "tags": ["Admin Calls"],
                "summary": "Archive or unarchive a call",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ArchiveCallRequest"}}
                ],
                "responses": {
                    "200": {"description": "Toggled call", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No call with that id"}
                }
            }
        },
        "/admin/calls/export": {
            "get": {
                "tags": ["Admin Calls"],
                "summary": "Export the filtered call listing",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Rendered export"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Issued tokens", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "Rotated tokens", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Expired or revoked refresh token"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Logout current session",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Session revoked"}
                }
            }
        }
    },
    "definitions": {
        "CreateCallRequest": {
            "type": "object",
            "required": ["title"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "type": {"type": "string"},
                "location": {"type": "string"},
                "institution": {"type": "string"},
                "requirements": {"type": "array", "items": {"type": "string"}},
                "deadline": {"type": "string", "format": "date-time"},
                "link": {"type": "string"}
            }
        },
        "UpdateCallRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "type": {"type": "string"},
                "location": {"type": "string"},
                "institution": {"type": "string"},
                "requirements": {"type": "array", "items": {"type": "string"}},
                "deadline": {"type": "string", "format": "date-time"},
                "link": {"type": "string"},
                "archivedAt": {"type": "string", "format": "date-time"}
            }
        },
        "ArchiveCallRequest": {
            "type": "object",
            "properties": {
                "unarchive": {"type": "boolean"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "offset": {"type": "integer"},
                "limit": {"type": "integer"},
                "count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
