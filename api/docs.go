package api

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check endpoint",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/frame": {
            "get": {
                "description": "Beat, tempo, values, faders and LEDs published by the last engine step",
                "produces": ["application/json"],
                "tags": ["frame"],
                "summary": "Latest frame",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/engine.Frame"}}
                }
            }
        },
        "/values": {
            "get": {
                "produces": ["application/json"],
                "tags": ["values"],
                "summary": "All binding values",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ValuesResponse"}}
                }
            }
        },
        "/values/{key}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["values"],
                "summary": "One binding value",
                "parameters": [
                    {"type": "string", "description": "Binding key", "name": "key", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ValueResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/faders": {
            "get": {
                "produces": ["application/json"],
                "tags": ["faders"],
                "summary": "Fader outputs and gates",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.FadersResponse"}}
                }
            }
        },
        "/leds": {
            "get": {
                "produces": ["application/json"],
                "tags": ["leds"],
                "summary": "Controller LED snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.LEDsResponse"}}
                }
            }
        },
        "/tap": {
            "post": {
                "description": "Queues a tempo tap; the new tempo shows up in the next frame",
                "produces": ["application/json"],
                "tags": ["clock"],
                "summary": "Tap tempo",
                "responses": {
                    "202": {"description": "Accepted", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/resync": {
            "post": {
                "produces": ["application/json"],
                "tags": ["clock"],
                "summary": "Jump to the next whole beat",
                "responses": {
                    "202": {"description": "Accepted", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "api.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "api.FadersResponse": {
            "type": "object",
            "properties": {
                "faders": {"type": "array", "items": {"type": "number"}},
                "gates": {"type": "array", "items": {"type": "boolean"}},
                "mode": {"type": "string"}
            }
        },
        "api.ValueResponse": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "type": {"type": "string"},
                "value": {}
            }
        },
        "api.ValuesResponse": {
            "type": "object",
            "properties": {
                "beat": {"type": "number"},
                "seq": {"type": "integer"},
                "values": {"type": "object", "additionalProperties": {}}
            }
        },
        "engine.Frame": {
            "type": "object",
            "properties": {
                "beat": {"type": "number"},
                "bpm": {"type": "number"},
                "controller": {"type": "string"},
                "dropped": {"type": "integer"},
                "faderMode": {"type": "string"},
                "faders": {"type": "array", "items": {"type": "number"}},
                "gates": {"type": "array", "items": {"type": "boolean"}},
                "keys": {"type": "array", "items": {"type": "string"}},
                "leds": {"$ref": "#/definitions/surface.Snapshot"},
                "page": {"type": "integer"},
                "seq": {"type": "integer"},
                "time": {"type": "string"},
                "values": {"type": "object", "additionalProperties": {}}
            }
        },
        "api.LEDsResponse": {
            "type": "object",
            "properties": {
                "cells": {"type": "array", "items": {"$ref": "#/definitions/surface.LED"}},
                "faderButtons": {"type": "array", "items": {"type": "integer"}},
                "page": {"type": "integer"},
                "pageSelect": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "surface.Cell": {
            "type": "object",
            "properties": {
                "col": {"type": "integer"},
                "page": {"type": "integer"},
                "row": {"type": "integer"}
            }
        },
        "surface.LED": {
            "type": "object",
            "properties": {
                "cell": {"$ref": "#/definitions/surface.Cell"},
                "color": {"type": "integer"}
            }
        },
        "surface.Snapshot": {
            "type": "object",
            "properties": {
                "faderButtons": {"type": "array", "items": {"type": "integer"}},
                "grid": {"type": "array", "items": {"type": "array", "items": {"type": "integer"}}},
                "page": {"type": "integer"},
                "pageSelect": {"type": "array", "items": {"type": "integer"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "go-vj API",
	Description:      "Control surface values and rhythm clock for renderers",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
