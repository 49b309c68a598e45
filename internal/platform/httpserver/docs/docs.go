// Package docs registers the OpenAPI document served under /swagger/.
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
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/v1/documents": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["votes"],
                "summary": "Create a document with an empty votes set",
                "parameters": [
                    {"description": "document id, generated when empty", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/http.CreateDocumentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.CreateDocumentResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/v1/documents/{document_id}/votes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["votes"],
                "summary": "List the voters of a document in vote order",
                "parameters": [
                    {"type": "string", "description": "document id", "name": "document_id", "in": "path", "required": true},
                    {"type": "string", "description": "+<path> to include an unselected votes path, -<path> to leave it out", "name": "select", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.VotersResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["votes"],
                "summary": "Record a vote on a document",
                "parameters": [
                    {"type": "string", "description": "document id", "name": "document_id", "in": "path", "required": true},
                    {"description": "voter", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.CastVoteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.VoteResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/v1/documents/{document_id}/votes/{voter}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["votes"],
                "summary": "Check whether a voter is in the votes set",
                "parameters": [
                    {"type": "string", "description": "document id", "name": "document_id", "in": "path", "required": true},
                    {"type": "string", "description": "voter", "name": "voter", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.HasVotedResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["votes"],
                "summary": "Remove a vote from a document",
                "parameters": [
                    {"type": "string", "description": "document id", "name": "document_id", "in": "path", "required": true},
                    {"type": "string", "description": "voter", "name": "voter", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.VoteResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "http.ErrorResponse": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
        },
        "http.CreateDocumentRequest": {
            "type": "object",
            "properties": {"document_id": {"type": "string"}}
        },
        "http.CreateDocumentResponse": {
            "type": "object",
            "properties": {"document_id": {"type": "string"}}
        },
        "http.CastVoteRequest": {
            "type": "object",
            "properties": {"voter": {"type": "string"}}
        },
        "http.VoteResponse": {
            "type": "object",
            "properties": {
                "document_id": {"type": "string"},
                "voter": {"type": "string"},
                "changed": {"type": "boolean"},
                "vote_count": {"type": "integer"}
            }
        },
        "http.VoterItem": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "ref": {"type": "string"}}
        },
        "http.VotersResponse": {
            "type": "object",
            "properties": {
                "document_id": {"type": "string"},
                "path": {"type": "string"},
                "voters": {"type": "array", "items": {"$ref": "#/definitions/http.VoterItem"}},
                "vote_count": {"type": "integer"},
                "hidden": {"type": "boolean"}
            }
        },
        "http.HasVotedResponse": {
            "type": "object",
            "properties": {
                "document_id": {"type": "string"},
                "voter": {"type": "string"},
                "voted": {"type": "boolean"}
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
	Title:            "votekit API",
	Description:      "Vote and unvote operations over documents carrying a votes set.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
