// Package swagger registers the API description served under /swagger.
package swagger

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
        "/ping": {
            "get": {"tags": ["test"], "summary": "Endpoint just pings the server", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/tileset": {
            "get": {"tags": ["assets"], "summary": "Tile set document", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/overrides": {
            "get": {"tags": ["assets"], "summary": "Visual override document", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "500": {"description": "Internal Server Error"}}},
            "post": {"tags": ["assets"], "summary": "Replaces the visual override document", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "500": {"description": "Internal Server Error"}}}
        },
        "/api/session/join": {
            "post": {"tags": ["session"], "summary": "Joins the lobby", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/session/heartbeat": {
            "post": {"tags": ["session"], "summary": "Keeps a session alive", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/session/leave": {
            "post": {"tags": ["session"], "summary": "Leaves the lobby", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/lobby": {
            "get": {"tags": ["lobby"], "summary": "Lobby snapshot", "produces": ["application/json"], "parameters": [{"type": "string", "name": "token", "in": "query"}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/chat": {
            "post": {"tags": ["lobby"], "summary": "Posts a chat message", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/invite": {
            "post": {"tags": ["invite"], "summary": "Invites another user to a match", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}}
        },
        "/api/invite/respond": {
            "post": {"tags": ["invite"], "summary": "Accepts or declines an invite", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}}
        },
        "/api/match": {
            "get": {"tags": ["match"], "summary": "Match snapshot", "produces": ["application/json"], "parameters": [{"type": "string", "name": "token", "in": "query"}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/match/intent": {
            "post": {"tags": ["match"], "summary": "Publishes or clears the turn preview", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "409": {"description": "Conflict"}}}
        },
        "/api/match/submit_turn": {
            "post": {"tags": ["match"], "summary": "Submits the active player's turn", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "409": {"description": "Conflict"}}}
        },
        "/api/match/resign": {
            "post": {"tags": ["match"], "summary": "Resigns the current match", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "409": {"description": "Conflict"}}}
        },
        "/api/history": {
            "get": {"tags": ["history"], "summary": "Archived matches of the caller", "produces": ["application/json"], "parameters": [{"type": "string", "name": "token", "in": "query"}, {"type": "integer", "name": "limit", "in": "query"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/history/{id}": {
            "get": {"tags": ["history"], "summary": "Archived match", "produces": ["application/json"], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "string", "name": "token", "in": "query"}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "404": {"description": "Not Found"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Meeple API",
	Description:      "Gin-Gonic server for two-player tile-placement matches",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
