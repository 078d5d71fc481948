package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Coursesched API",
        "description": "Incremental phase-based course scheduler",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {
                        "description": "Ready"
                    }
                }
            }
        },
        "/api/v1/schedules/generate": {
            "post": {
                "summary": "Solve the phase pipeline for a term's course input bundle",
                "tags": ["Scheduler"],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.GenerateScheduleRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/schedules/search": {
            "get": {
                "summary": "Search a term's solved schedule for a course and its conflicts",
                "tags": ["Scheduler"],
                "parameters": [
                    {"name": "termId", "in": "query", "required": true, "type": "string"},
                    {"name": "q", "in": "query", "required": true, "type": "string"},
                    {"name": "ignoreInstructorBusySlots", "in": "query", "required": false, "type": "boolean"},
                    {"name": "ignoreInstructorTeachingClashes", "in": "query", "required": false, "type": "boolean"}
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/schedules/summary": {
            "get": {
                "summary": "List every scheduled course's clash footprint for a term",
                "tags": ["Scheduler"],
                "parameters": [
                    {"name": "termId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
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
