// Package docs holds the Swagger description served at /swagger/*.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "paths": {
        "/tasks": {
            "get": {
                "tags": ["tasks"],
                "summary": "List tasks",
                "produces": ["application/json"],
                "responses": {"200": {"description": "All tasks"}}
            },
            "post": {
                "tags": ["tasks"],
                "summary": "Create a task",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/TaskRequest"}}
                ],
                "responses": {
                    "201": {"description": "All tasks, including the new one"},
                    "400": {"description": "Validation failed"}
                }
            }
        },
        "/tasks/{id}": {
            "get": {
                "tags": ["tasks"],
                "summary": "Get task by ID",
                "parameters": [{"in": "path", "name": "id", "type": "integer", "required": true}],
                "responses": {"200": {"description": "The task"}, "404": {"description": "Task not found"}}
            },
            "put": {
                "tags": ["tasks"],
                "summary": "Update a task",
                "description": "Changing due_date or notification_minutes re-arms the reminder",
                "parameters": [
                    {"in": "path", "name": "id", "type": "integer", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/TaskRequest"}}
                ],
                "responses": {"200": {"description": "All tasks"}, "404": {"description": "Task not found"}}
            },
            "delete": {
                "tags": ["tasks"],
                "summary": "Delete a task",
                "parameters": [{"in": "path", "name": "id", "type": "integer", "required": true}],
                "responses": {"200": {"description": "Remaining tasks"}}
            }
        },
        "/tasks/{id}/complete": {
            "post": {
                "tags": ["tasks"],
                "summary": "Toggle the completed flag of a task",
                "parameters": [{"in": "path", "name": "id", "type": "integer", "required": true}],
                "responses": {"200": {"description": "All tasks"}, "404": {"description": "Task not found"}}
            }
        },
        "/tasks/{id}/subtasks": {
            "post": {
                "tags": ["subtasks"],
                "summary": "Add a subtask",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "integer", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/SubtaskRequest"}}
                ],
                "responses": {
                    "201": {"description": "All tasks"},
                    "400": {"description": "Validation failed"},
                    "404": {"description": "Task not found"}
                }
            }
        },
        "/tasks/{id}/subtasks/{subtaskId}": {
            "put": {
                "tags": ["subtasks"],
                "summary": "Update a subtask",
                "parameters": [
                    {"in": "path", "name": "id", "type": "integer", "required": true},
                    {"in": "path", "name": "subtaskId", "type": "integer", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/SubtaskRequest"}}
                ],
                "responses": {"200": {"description": "All tasks"}, "404": {"description": "Task or subtask not found"}}
            },
            "delete": {
                "tags": ["subtasks"],
                "summary": "Delete a subtask",
                "parameters": [
                    {"in": "path", "name": "id", "type": "integer", "required": true},
                    {"in": "path", "name": "subtaskId", "type": "integer", "required": true}
                ],
                "responses": {"200": {"description": "All tasks"}, "404": {"description": "Task or subtask not found"}}
            }
        },
        "/tasks/{id}/subtasks/{subtaskId}/toggle": {
            "post": {
                "tags": ["subtasks"],
                "summary": "Toggle the completed flag of a subtask",
                "parameters": [
                    {"in": "path", "name": "id", "type": "integer", "required": true},
                    {"in": "path", "name": "subtaskId", "type": "integer", "required": true}
                ],
                "responses": {"200": {"description": "All tasks"}, "404": {"description": "Task or subtask not found"}}
            }
        },
        "/groups": {
            "get": {"tags": ["groups"], "summary": "List task groups", "responses": {"200": {"description": "Group names"}}},
            "post": {
                "tags": ["groups"],
                "summary": "Create a task group",
                "description": "Duplicate names are ignored",
                "consumes": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/GroupRequest"}}],
                "responses": {"201": {"description": "Group names"}, "400": {"description": "Blank or invalid name"}}
            }
        },
        "/groups/{name}": {
            "delete": {
                "tags": ["groups"],
                "summary": "Delete a task group",
                "description": "Clears the group from every task using it",
                "parameters": [{"in": "path", "name": "name", "type": "string", "required": true}],
                "responses": {"200": {"description": "Remaining group names"}}
            }
        },
        "/memos/search": {
            "get": {
                "tags": ["memos"],
                "summary": "Search memos",
                "description": "Case-insensitive substring match on title, content and tags",
                "parameters": [{"in": "query", "name": "q", "type": "string"}],
                "responses": {"200": {"description": "Matching memos"}}
            }
        },
        "/folders/{id}": {
            "delete": {
                "tags": ["folders"],
                "summary": "Delete a folder",
                "description": "Memos in the folder are kept and lose their folder reference",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "Remaining folders"}}
            }
        },
        "/books/{id}": {
            "put": {
                "tags": ["reading"],
                "summary": "Update a reading book",
                "description": "Progress is recomputed from current_page and total_pages",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "All books"},
                    "400": {"description": "Invalid status"},
                    "404": {"description": "Book not found"}
                }
            }
        },
        "/settings/mail": {
            "get": {"tags": ["settings"], "summary": "Get mail settings", "responses": {"200": {"description": "Mail settings"}}},
            "put": {
                "tags": ["settings"],
                "summary": "Save mail settings",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/MailSettings"}}],
                "responses": {"200": {"description": "Saved settings"}, "400": {"description": "Validation failed"}}
            }
        },
        "/notifications/test-email": {
            "post": {
                "tags": ["notifications"],
                "summary": "Send a test email to the configured address",
                "responses": {
                    "200": {"description": "Email sent successfully"},
                    "412": {"description": "Email settings not configured"},
                    "502": {"description": "SMTP failure"}
                }
            }
        },
        "/notifications/check": {
            "post": {
                "tags": ["notifications"],
                "summary": "Run a reminder pass now",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "Diagnostic report"},
                    "412": {"description": "Email settings not configured"}
                }
            }
        }
    },
    "definitions": {
        "TaskRequest": {
            "type": "object",
            "required": ["description"],
            "properties": {
                "description": {"type": "string"},
                "start_date": {"type": "string"},
                "due_date": {"type": "string", "example": "2025-01-15 10:00"},
                "group": {"type": "string"},
                "details": {"type": "string"},
                "notification_minutes": {"type": "integer"},
                "dependencies": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "SubtaskRequest": {
            "type": "object",
            "required": ["description"],
            "properties": {
                "description": {"type": "string"},
                "completed": {"type": "boolean"}
            }
        },
        "GroupRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"}
            }
        },
        "MailSettings": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "app_password": {"type": "string"},
                "notification_minutes": {"type": "integer", "example": 1440}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Only required when security.api_token_secret is set"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8765",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "Noruno API",
	Description:      "Local API for tasks, memos, reading log, calendar and mail reminders",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
