// Package docs holds the OpenAPI document served under /swagger. It is
// maintained by hand alongside the handler annotations.
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
        "/api/prompts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["prompts"],
                "summary": "List active prompts",
                "parameters": [
                    {"type": "string", "description": "search in title and description", "name": "q", "in": "query"},
                    {"type": "string", "description": "category filter", "name": "category", "in": "query"},
                    {"type": "integer", "default": 20, "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/prompt.ListResponse"}}
                }
            }
        },
        "/api/prompts/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["prompts"],
                "summary": "Get a prompt; prompt_text only for buyers",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/prompt.Prompt"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/cart": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Get the caller's cart",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/cart.View"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Add a prompt to the cart",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.cartItemRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["cart"],
                "summary": "Remove a prompt from the cart",
                "parameters": [
                    {"name": "promptId", "in": "query", "type": "string"},
                    {"name": "body", "in": "body", "schema": {"$ref": "#/definitions/main.cartItemRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/cart.View"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/cart/all": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Empty the caller's cart",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/cart.View"}}
                }
            }
        },
        "/api/cart/merge": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Merge a browser cart into the server cart",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/cart.MergeResult"}}
                }
            }
        },
        "/api/checkout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["checkout"],
                "summary": "Create a pending order and widget session",
                "parameters": [
                    {"name": "body", "in": "body", "schema": {"$ref": "#/definitions/order.CheckoutRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/order.CheckoutResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/orders": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["checkout"],
                "summary": "Order history of the caller, newest first",
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer", "default": 20},
                    {"name": "offset", "in": "query", "type": "integer", "default": 0}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/payment/confirm": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["payment"],
                "summary": "Confirm a payment with the gateway",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/payment.ConfirmRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/payment/fail": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["payment"],
                "summary": "Mark a pending order failed",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/payment.FailRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/payment/save-purchase": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["payment"],
                "summary": "Record purchases for a confirmed order",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/purchase.SaveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/purchase.SaveResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httpx.ErrorBody"}}
                }
            }
        },
        "/api/purchases": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["purchases"],
                "summary": "Purchase history",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Get the caller's profile",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["profile"],
                "summary": "Update nickname or avatar",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/profile.UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/admin/prompts": {
            "get": {
                "security": [{"AdminKey": []}],
                "tags": ["admin"],
                "summary": "List all prompts",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"AdminKey": []}],
                "consumes": ["application/json"],
                "tags": ["admin"],
                "summary": "Create a prompt",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/prompt.CreatePromptRequest"}}
                ],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/api/admin/prompts/{id}": {
            "get": {
                "security": [{"AdminKey": []}],
                "tags": ["admin"],
                "summary": "Get a prompt",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "security": [{"AdminKey": []}],
                "tags": ["admin"],
                "summary": "Partially update a prompt",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/prompt.UpdatePromptRequest"}}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "security": [{"AdminKey": []}],
                "tags": ["admin"],
                "summary": "Deactivate a prompt",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/webhooks/clerk": {
            "post": {
                "tags": ["webhooks"],
                "summary": "Identity provider user lifecycle events",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        }
    },
    "definitions": {
        "httpx.ErrorBody": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string", "example": "NOT_FOUND"},
                        "message": {"type": "string"},
                        "details": {}
                    }
                }
            }
        },
        "prompt.Prompt": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "price": {"type": "integer"},
                "prompt_text": {"type": "string"},
                "category": {"type": "string"},
                "thumbnail_url": {"type": "string"},
                "image_urls": {"type": "array", "items": {"type": "string"}},
                "is_active": {"type": "boolean"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "prompt.ListResponse": {
            "type": "object",
            "properties": {
                "q": {"type": "string"},
                "category": {"type": "string"},
                "limit": {"type": "integer"},
                "offset": {"type": "integer"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/prompt.Prompt"}}
            }
        },
        "prompt.CreatePromptRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string", "example": "Cinematic portrait pack"},
                "description": {"type": "string"},
                "price": {"type": "integer", "example": 4900},
                "prompt_text": {"type": "string"},
                "category": {"type": "string", "example": "image"},
                "thumbnail_url": {"type": "string"},
                "image_urls": {"type": "array", "items": {"type": "string"}}
            }
        },
        "prompt.UpdatePromptRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "price": {"type": "integer"},
                "prompt_text": {"type": "string"},
                "category": {"type": "string"},
                "thumbnail_url": {"type": "string"},
                "image_urls": {"type": "array", "items": {"type": "string"}},
                "is_active": {"type": "boolean"}
            }
        },
        "main.cartItemRequest": {
            "type": "object",
            "properties": {
                "promptId": {"type": "string"}
            }
        },
        "cart.View": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"type": "object"}},
                "count": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "cart.MergeResult": {
            "type": "object",
            "properties": {
                "added": {"type": "array", "items": {"type": "string"}},
                "skipped": {"type": "array", "items": {"type": "string"}}
            }
        },
        "order.CheckoutRequest": {
            "type": "object",
            "properties": {
                "promptIds": {"type": "array", "items": {"type": "string"}}
            }
        },
        "order.CheckoutResponse": {
            "type": "object",
            "properties": {
                "orderId": {"type": "string"},
                "orderName": {"type": "string"},
                "amount": {"type": "integer", "example": 3000},
                "clientKey": {"type": "string"},
                "customerKey": {"type": "string"},
                "successUrl": {"type": "string"},
                "failUrl": {"type": "string"}
            }
        },
        "payment.ConfirmRequest": {
            "type": "object",
            "properties": {
                "paymentKey": {"type": "string"},
                "orderId": {"type": "string"},
                "amount": {"type": "integer", "example": 3000}
            }
        },
        "payment.FailRequest": {
            "type": "object",
            "properties": {
                "orderId": {"type": "string"},
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "purchase.SaveRequest": {
            "type": "object",
            "properties": {
                "promptIds": {"type": "array", "items": {"type": "string"}},
                "orderId": {"type": "string"},
                "totalAmount": {"type": "integer", "example": 3000}
            }
        },
        "purchase.SaveResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "saved": {"type": "integer", "example": 2},
                "message": {"type": "string", "example": "2 purchases saved"}
            }
        },
        "profile.UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "nickname": {"type": "string"},
                "avatar_url": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "AdminKey": {"type": "apiKey", "name": "X-Admin-Key", "in": "header"},
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Prompt Store API",
	Description:      "Catalog, cart, checkout and purchase API of the prompt store.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
