package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "VY Service Ops API",
        "description": "Repair shop operations backend: attendance, repair tickets, staff accounts",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Login and identity"},
        {"name": "Attendance", "description": "Geofenced daily attendance"},
        {"name": "Repairs", "description": "Repair ticket lifecycle"},
        {"name": "Employees", "description": "Staff account management"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Employee login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "Invalid credentials"},
                    "403": {"description": "Account awaiting approval"}
                }
            }
        },
        "/auth/admin/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Admin login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Authenticated identity",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/attendance/mark": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Mark today's attendance",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MarkAttendanceRequest"}}
                ],
                "responses": {
                    "201": {"description": "Marked"},
                    "200": {"description": "Already marked"},
                    "400": {"description": "employeeId and currentIp are required"},
                    "403": {"description": "Geofence rejected"}
                }
            }
        },
        "/attendance/check": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Evaluate the geofence without marking",
                "parameters": [
                    {"name": "ip", "in": "query", "required": true, "type": "string"},
                    {"name": "lat", "in": "query", "type": "number"},
                    {"name": "lng", "in": "query", "type": "number"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/attendance/today-count": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Distinct employees present today",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/attendance/export": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Export a month of attendance as CSV",
                "parameters": [
                    {"name": "month", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "CSV payload"}
                }
            }
        },
        "/attendance/admin/set": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Set or unset attendance for any date",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AdminSetRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/attendance/by-employee/{employeeId}": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Days an employee was present in a month",
                "parameters": [
                    {"name": "employeeId", "in": "path", "required": true, "type": "string"},
                    {"name": "month", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/repairs": {
            "get": {
                "tags": ["Repairs"],
                "summary": "List repair tickets",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Repairs"],
                "summary": "Register a repair ticket",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateRepairRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Repair"}}
                }
            }
        },
        "/repairs/search/{uniqueId}": {
            "get": {
                "tags": ["Repairs"],
                "summary": "Find repairs by customer identifier",
                "parameters": [
                    {"name": "uniqueId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Latest visit plus history"},
                    "404": {"description": "No repair with this identifier"}
                }
            }
        },
        "/repairs/{id}": {
            "put": {
                "tags": ["Repairs"],
                "summary": "Partially update a repair ticket",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateRepairRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Repair"}},
                    "409": {"description": "Illegal status transition"}
                }
            },
            "delete": {
                "tags": ["Repairs"],
                "summary": "Delete a pending repair ticket",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Deleted"},
                    "403": {"description": "Removal not permitted"},
                    "409": {"description": "Only pending repairs can be deleted"}
                }
            }
        },
        "/repairs/{id}/receipt": {
            "get": {
                "tags": ["Repairs"],
                "summary": "Render a printable PDF receipt",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF payload"}
                }
            }
        },
        "/employees": {
            "get": {
                "tags": ["Employees"],
                "summary": "List employee accounts",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/employees/signup": {
            "post": {
                "tags": ["Employees"],
                "summary": "Create an account awaiting approval",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SignupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Username already exists"}
                }
            }
        },
        "/employees/{id}": {
            "get": {
                "tags": ["Employees"],
                "summary": "Fetch one account",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "tags": ["Employees"],
                "summary": "Delete an account",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Deleted"}
                }
            }
        },
        "/employees/{id}/delete": {
            "post": {
                "tags": ["Employees"],
                "summary": "Delete an account (POST fallback)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Deleted"}
                }
            }
        },
        "/employees/{id}/approve": {
            "post": {
                "tags": ["Employees"],
                "summary": "Approve a pending account",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/employees/{id}/credentials": {
            "patch": {
                "tags": ["Employees"],
                "summary": "Change username and/or password",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateCredentialsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/employees/{id}/permissions": {
            "patch": {
                "tags": ["Employees"],
                "summary": "Replace feature cards and removal flag",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PermissionsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "password"]
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "role": {"type": "string"},
                "expiresIn": {"type": "integer"},
                "user": {"type": "object"}
            }
        },
        "MarkAttendanceRequest": {
            "type": "object",
            "properties": {
                "employeeId": {"type": "string"},
                "employeeName": {"type": "string"},
                "currentIp": {"type": "string"},
                "lat": {"type": "number"},
                "lng": {"type": "number"},
                "accuracy": {"type": "number"}
            },
            "required": ["employeeId"]
        },
        "AdminSetRequest": {
            "type": "object",
            "properties": {
                "employeeId": {"type": "string"},
                "employeeName": {"type": "string"},
                "date": {"type": "string"},
                "present": {"type": "boolean"}
            },
            "required": ["employeeId", "date", "present"]
        },
        "Repair": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "uniqueId": {"type": "string"},
                "customerName": {"type": "string"},
                "phoneNumber": {"type": "string"},
                "type": {"type": "string"},
                "brand": {"type": "string"},
                "adapterGiven": {"type": "boolean"},
                "problem": {"type": "string"},
                "status": {"type": "string"},
                "remark": {"type": "string"},
                "expectedAmount": {"type": "number"},
                "amount": {"type": "number"},
                "createdBy": {"type": "string"},
                "createdAt": {"type": "string"},
                "deliveredAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "CreateRepairRequest": {
            "type": "object",
            "properties": {
                "uniqueId": {"type": "string"},
                "customerName": {"type": "string"},
                "phoneNumber": {"type": "string"},
                "type": {"type": "string"},
                "brand": {"type": "string"},
                "adapterGiven": {"type": "boolean"},
                "problem": {"type": "string"},
                "remark": {"type": "string"},
                "expectedAmount": {"type": "number"},
                "createdAt": {"type": "string"}
            },
            "required": ["uniqueId", "customerName", "phoneNumber", "type", "brand", "adapterGiven", "problem"]
        },
        "UpdateRepairRequest": {
            "type": "object",
            "properties": {
                "uniqueId": {"type": "string"},
                "customerName": {"type": "string"},
                "phoneNumber": {"type": "string"},
                "type": {"type": "string"},
                "brand": {"type": "string"},
                "adapterGiven": {"type": "boolean"},
                "problem": {"type": "string"},
                "status": {"type": "string"},
                "remark": {"type": "string"},
                "expectedAmount": {"type": "number"},
                "amount": {"type": "number"},
                "delivered": {"type": "boolean"}
            }
        },
        "SignupRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "password"]
        },
        "UpdateCredentialsRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "PermissionsRequest": {
            "type": "object",
            "properties": {
                "allowedCards": {"type": "array", "items": {"type": "string"}},
                "canRemoveRepairs": {"type": "boolean"}
            },
            "required": ["allowedCards", "canRemoveRepairs"]
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
