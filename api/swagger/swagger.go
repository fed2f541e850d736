package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "UniPlan API",
        "description": "Course matching and timetable generation service",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and account management"},
        {"name": "Imports", "description": "CSV uploads of course listings and the canonical catalog"},
        {"name": "Matching", "description": "Cascade matching and the review queue"},
        {"name": "Courses", "description": "Offerings and the canonical catalog"},
        {"name": "Resources", "description": "Sessions, time slots, rooms and lecturers"},
        {"name": "Constraints", "description": "Session constraints, blocked times and locks"},
        {"name": "Scheduling", "description": "Event expansion and allocation runs"},
        {"name": "Exports", "description": "Timetable views, CSV and PDF downloads"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
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
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/matching/run": {
            "post": {
                "tags": ["Matching"],
                "summary": "Run the matching cascade",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RunMatchingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/matching/review": {
            "get": {
                "tags": ["Matching"],
                "summary": "List offerings awaiting review",
                "parameters": [
                    {"name": "session_id", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/matching/approve": {
            "post": {
                "tags": ["Matching"],
                "summary": "Approve a match from the review queue",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ApproveMatchRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/expand": {
            "post": {
                "tags": ["Scheduling"],
                "summary": "Expand matched offerings into events",
                "parameters": [
                    {"name": "session_id", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/runs": {
            "get": {
                "tags": ["Scheduling"],
                "summary": "List a session's runs",
                "parameters": [
                    {"name": "session_id", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Scheduling"],
                "summary": "Generate a timetable",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateRunRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/runs/{id}/timetable": {
            "get": {
                "tags": ["Exports"],
                "summary": "Fetch a run's timetable view",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Run not completed"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "RunMatchingRequest": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"}
            }
        },
        "ApproveMatchRequest": {
            "type": "object",
            "properties": {
                "offering_id": {"type": "string"},
                "canonical_course_id": {"type": "string"},
                "method": {"type": "string"},
                "score": {"type": "number"}
            }
        },
        "GenerateRunRequest": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "seed": {"type": "integer"},
                "candidate_limit": {"type": "integer"}
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
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "total": {"type": "integer"}
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
