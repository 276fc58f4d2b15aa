// Package docs registers the Spently API document with swag so that
// echo-swagger and the OpenAPI 3 endpoint can serve it.
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
        "/auth/callback": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Provision or fetch the user for the bearer token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AuthCallbackResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "422": {"description": "Email claim missing", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AuthCallbackResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["profile"],
                "summary": "Get profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/UserResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["profile"],
                "summary": "Rename the current user",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/UserResponse"}},
                    "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/profile/avatar": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "tags": ["profile"],
                "summary": "Upload avatar (JPEG, PNG or WebP, max 5MB, min 50x50)",
                "parameters": [
                    {"type": "file", "description": "Avatar image", "name": "avatar", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/UserResponse"}},
                    "422": {"description": "Invalid image", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "503": {"description": "Storage not configured", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["profile"],
                "summary": "Remove avatar",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/UserResponse"}}
                }
            }
        },
        "/categories": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["categories"],
                "summary": "List categories with expense count and sum",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/CategoryResponse"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["categories"],
                "summary": "Create category",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CategoryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/CategoryResponse"}},
                    "409": {"description": "Duplicate name", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/categories/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["categories"],
                "summary": "Get category",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CategoryResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["categories"],
                "summary": "Update category",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CategoryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CategoryResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "409": {"description": "Duplicate name", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["categories"],
                "summary": "Delete category and its expenses",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/expenses": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["expenses"],
                "summary": "List expenses, newest first",
                "parameters": [
                    {"type": "integer", "name": "month", "in": "query"},
                    {"type": "integer", "name": "year", "in": "query"},
                    {"type": "string", "format": "date", "name": "start_date", "in": "query"},
                    {"type": "string", "format": "date", "name": "end_date", "in": "query"},
                    {"type": "integer", "name": "category_id", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query", "default": 1},
                    {"type": "integer", "name": "per_page", "in": "query", "default": 10, "maximum": 100}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ExpenseListResponse"}},
                    "422": {"description": "Invalid filter", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["expenses"],
                "summary": "Create expense",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ExpenseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ExpenseResponse"}},
                    "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/expenses/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["summary"],
                "summary": "Monthly total, category breakdown and top categories",
                "parameters": [
                    {"type": "integer", "name": "month", "in": "query", "required": true, "minimum": 1, "maximum": 12},
                    {"type": "integer", "name": "year", "in": "query", "required": true, "minimum": 2000, "maximum": 9999}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MonthlySummaryResponse"}},
                    "422": {"description": "Invalid period", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "500": {"description": "Data integrity error", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/expenses/yearly-summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["summary"],
                "summary": "Twelve monthly totals for a year",
                "parameters": [
                    {"type": "integer", "name": "year", "in": "query", "required": true, "minimum": 2000, "maximum": 9999}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/YearlySummaryResponse"}},
                    "422": {"description": "Invalid year", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/expenses/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["expenses"],
                "summary": "Download expenses as an xlsx workbook",
                "parameters": [
                    {"type": "integer", "name": "month", "in": "query"},
                    {"type": "integer", "name": "year", "in": "query"},
                    {"type": "string", "format": "date", "name": "start_date", "in": "query"},
                    {"type": "string", "format": "date", "name": "end_date", "in": "query"},
                    {"type": "integer", "name": "category_id", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Workbook", "schema": {"type": "file"}}
                }
            }
        },
        "/expenses/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["expenses"],
                "summary": "Get expense",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ExpenseResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["expenses"],
                "summary": "Update expense",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ExpenseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ExpenseResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["expenses"],
                "summary": "Delete expense",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        }
    },
    "definitions": {
        "ProblemDetails": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "title": {"type": "string"},
                "status": {"type": "integer"},
                "detail": {"type": "string"},
                "instance": {"type": "string"},
                "errors": {"type": "array", "items": {"$ref": "#/definitions/ValidationError"}}
            }
        },
        "ValidationError": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "UserResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "pictureUrl": {"type": "string"},
                "avatarUrl": {"type": "string"}
            }
        },
        "AuthCallbackResponse": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/UserResponse"},
                "isNewUser": {"type": "boolean"}
            }
        },
        "UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "maxLength": 255}
            }
        },
        "CategoryRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "maxLength": 255},
                "color": {"type": "string", "example": "#4F46E5"}
            }
        },
        "CategoryResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "color": {"type": "string"},
                "expensesCount": {"type": "integer"},
                "expensesSum": {"type": "number"},
                "createdAt": {"type": "string", "format": "date-time"},
                "updatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "ExpenseRequest": {
            "type": "object",
            "properties": {
                "categoryId": {"type": "integer"},
                "date": {"type": "string", "format": "date"},
                "description": {"type": "string", "maxLength": 255},
                "amount": {"type": "number", "minimum": 0}
            }
        },
        "ExpenseResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "categoryId": {"type": "integer"},
                "category": {
                    "type": "object",
                    "properties": {
                        "id": {"type": "integer"},
                        "name": {"type": "string"},
                        "color": {"type": "string"}
                    }
                },
                "date": {"type": "string", "format": "date"},
                "description": {"type": "string"},
                "amount": {"type": "number"},
                "createdAt": {"type": "string", "format": "date-time"},
                "updatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "ExpenseListResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/ExpenseResponse"}},
                "page": {"type": "integer"},
                "perPage": {"type": "integer"},
                "total": {"type": "integer"},
                "lastPage": {"type": "integer"},
                "totalSum": {"type": "number"}
            }
        },
        "BreakdownEntryResponse": {
            "type": "object",
            "properties": {
                "categoryId": {"type": "integer"},
                "name": {"type": "string"},
                "color": {"type": "string"},
                "total": {"type": "number"},
                "count": {"type": "integer"},
                "percentage": {"type": "number"}
            }
        },
        "MonthlySummaryResponse": {
            "type": "object",
            "properties": {
                "month": {"type": "integer"},
                "year": {"type": "integer"},
                "grandTotal": {"type": "number"},
                "breakdown": {"type": "array", "items": {"$ref": "#/definitions/BreakdownEntryResponse"}},
                "topN": {"type": "array", "items": {"$ref": "#/definitions/BreakdownEntryResponse"}},
                "topCategory": {"$ref": "#/definitions/BreakdownEntryResponse"}
            }
        },
        "MonthlyBucketResponse": {
            "type": "object",
            "properties": {
                "month": {"type": "integer"},
                "monthName": {"type": "string"},
                "total": {"type": "number"}
            }
        },
        "YearlySummaryResponse": {
            "type": "object",
            "properties": {
                "year": {"type": "integer"},
                "total": {"type": "number"},
                "months": {"type": "array", "items": {"$ref": "#/definitions/MonthlyBucketResponse"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Auth0 access token, prefixed with \"Bearer \"",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Spently API",
	Description:      "Personal expense tracking: categories, expenses, monthly and yearly summaries, xlsx export.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
