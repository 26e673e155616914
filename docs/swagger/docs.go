// Package swagger registers the OpenAPI document served under /swagger.
// Keep it in sync with the @ annotations on the handlers (swag init -g cmd/api/main.go -o docs/swagger).
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "license": {
            "name": "MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/flow/order-created": {
            "post": {
                "description": "Resolves the order and customer, looks up the customer's Seal subscriptions and adds seal_sub_id_<id> and seal_min_cycles_<n> tags to the order and the customer. In search-only mode it returns the raw subscriptions instead.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Flow"],
                "summary": "Tag a new order with its customer's subscriptions",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Shared secret of the shop's region",
                        "name": "X-Flow-Secret",
                        "in": "header"
                    },
                    {
                        "description": "Order created event",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.OrderCreatedRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.Result"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/health": {
            "get": {
                "description": "Reports the configured shops and which tokens are present. The service stays healthy when the cache is down.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.HealthResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "domain.Result": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "mode": {"type": "string"},
                "shopDomain": {"type": "string"},
                "orderId": {"type": "string"},
                "orderName": {"type": "string"},
                "customerId": {"type": "string"},
                "email": {"type": "string"},
                "subscriptions": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/domain.Summary"}
                },
                "tags": {
                    "type": "array",
                    "items": {"type": "string"}
                },
                "orderTagResult": {"$ref": "#/definitions/domain.TagWriteResult"},
                "customerTagResult": {"$ref": "#/definitions/domain.TagWriteResult"}
            }
        },
        "domain.Summary": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "billing_min_cycles": {"type": "integer"}
            }
        },
        "domain.TagWriteResult": {
            "type": "object",
            "properties": {
                "skipped": {"type": "boolean"},
                "nodeId": {"type": "string"},
                "tags": {
                    "type": "array",
                    "items": {"type": "string"}
                },
                "userErrors": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/domain.UserError"}
                },
                "error": {"type": "string"}
            }
        },
        "domain.UserError": {
            "type": "object",
            "properties": {
                "field": {
                    "type": "array",
                    "items": {"type": "string"}
                },
                "message": {"type": "string"}
            }
        },
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "ray_id": {"type": "string"},
                "detail": {"type": "string"}
            }
        },
        "handler.HealthResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "mode": {"type": "string"},
                "shops": {
                    "type": "array",
                    "items": {"type": "string"}
                },
                "sealConfigured": {
                    "type": "object",
                    "additionalProperties": {"type": "boolean"}
                },
                "shopifyConfigured": {
                    "type": "object",
                    "additionalProperties": {"type": "boolean"}
                },
                "cache": {"type": "string"}
            }
        },
        "handler.OrderCreatedRequest": {
            "type": "object",
            "required": ["shopDomain"],
            "properties": {
                "shopDomain": {"type": "string", "maxLength": 255},
                "orderId": {"type": "string", "maxLength": 255},
                "orderName": {"type": "string", "maxLength": 64},
                "customerId": {"type": "string", "maxLength": 255},
                "email": {"type": "string", "maxLength": 320}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Flow Seal Proxy API",
	Description:      "Tags Shopify orders and customers with their Seal subscriptions when Shopify Flow reports a new order.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
