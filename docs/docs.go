// Package docs provides the swagger spec registered at startup.
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
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "Credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.registerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.tokenResponse"}},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in and obtain a session token",
                "parameters": [
                    {"description": "Credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.registerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.tokenResponse"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/accounts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "List broker accounts for the current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.BrokerAccount"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Create a broker account",
                "parameters": [
                    {"description": "Account", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.createAccountRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.BrokerAccount"}},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/accounts/{account_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Get one broker account",
                "parameters": [
                    {"type": "integer", "description": "Account ID", "name": "account_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.BrokerAccount"}},
                    "404": {"description": "Not Found"}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Delete a broker account and all derived data",
                "parameters": [
                    {"type": "integer", "description": "Account ID", "name": "account_id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/accounts/{account_id}/connect/mt5": {
            "post": {
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Issue an MT5 ingest key for the account",
                "parameters": [
                    {"type": "integer", "description": "Account ID", "name": "account_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/usecase.MT5ConnectInfo"}},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/accounts/{account_id}/connect/ctrader": {
            "post": {
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Start the cTrader OAuth flow for the account",
                "parameters": [
                    {"type": "integer", "description": "Account ID", "name": "account_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/usecase.CTraderConnectInfo"}},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/accounts/{account_id}/trades": {
            "get": {
                "produces": ["application/json"],
                "tags": ["data"],
                "summary": "List trades for an account",
                "parameters": [
                    {"type": "integer", "description": "Account ID", "name": "account_id", "in": "path", "required": true},
                    {"type": "string", "description": "Close time lower bound (RFC 3339 or YYYY-MM-DD)", "name": "from", "in": "query"},
                    {"type": "string", "description": "Close time upper bound (RFC 3339 or YYYY-MM-DD)", "name": "to", "in": "query"},
                    {"type": "string", "description": "Symbol, case-insensitive", "name": "symbol", "in": "query"},
                    {"type": "string", "description": "positive or negative", "name": "pnl", "in": "query"},
                    {"type": "string", "description": "deal or order", "name": "type", "in": "query"},
                    {"type": "integer", "description": "Page size, default 100, max 1000", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Page offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.tradeListResponse"}},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/accounts/{account_id}/daily-metrics": {
            "get": {
                "produces": ["application/json"],
                "tags": ["data"],
                "summary": "List derived daily metric rows for an account",
                "parameters": [
                    {"type": "integer", "description": "Account ID", "name": "account_id", "in": "path", "required": true},
                    {"type": "string", "description": "Date lower bound (RFC 3339 or YYYY-MM-DD)", "name": "from", "in": "query"},
                    {"type": "string", "description": "Date upper bound (RFC 3339 or YYYY-MM-DD)", "name": "to", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.dailyMetricsResponse"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/accounts/{account_id}/equity-curve": {
            "get": {
                "produces": ["application/json"],
                "tags": ["data"],
                "summary": "Build the balance equity curve from closed trades",
                "parameters": [
                    {"type": "integer", "description": "Account ID", "name": "account_id", "in": "path", "required": true},
                    {"type": "string", "description": "Close time lower bound (RFC 3339 or YYYY-MM-DD)", "name": "from", "in": "query"},
                    {"type": "string", "description": "Close time upper bound (RFC 3339 or YYYY-MM-DD)", "name": "to", "in": "query"},
                    {"type": "string", "description": "hour or day, default day", "name": "granularity", "in": "query"},
                    {"type": "number", "description": "Replay starting balance, default 0", "name": "start_balance", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.EquityCurve"}},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/accounts/{account_id}/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["data"],
                "summary": "Compute windowed performance statistics",
                "parameters": [
                    {"type": "integer", "description": "Account ID", "name": "account_id", "in": "path", "required": true},
                    {"type": "string", "description": "7d, 30d, 90d or all, default 30d", "name": "range", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Stats"}},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/ingest/mt5/snapshot": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ingest"],
                "summary": "Ingest a signed MT5 snapshot batch",
                "description": "Verifies the HMAC-SHA256 signature over timestamp.nonce.body before parsing anything else, then upserts deals and rebuilds daily metrics in one transaction.",
                "parameters": [
                    {"type": "string", "description": "Hex HMAC-SHA256 signature", "name": "X-Signature", "in": "header", "required": true},
                    {"type": "string", "description": "RFC 3339 timestamp", "name": "X-Timestamp", "in": "header", "required": true},
                    {"type": "string", "description": "Caller nonce", "name": "X-Nonce", "in": "header", "required": true},
                    {"description": "Snapshot", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.snapshotRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/http.snapshotResponse"}},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"},
                    "404": {"description": "Not Found"}
                }
            }
        }
    },
    "definitions": {
        "http.registerRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "http.tokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "token_type": {"type": "string"},
                "user": {"$ref": "#/definitions/domain.User"}
            }
        },
        "http.createAccountRequest": {
            "type": "object",
            "properties": {
                "provider": {"type": "string"},
                "name": {"type": "string"},
                "currency": {"type": "string"}
            }
        },
        "http.tradeListResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/domain.Trade"}},
                "total": {"type": "integer"}
            }
        },
        "http.dailyMetricsResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/domain.DailyMetric"}}
            }
        },
        "http.snapshotRequest": {
            "type": "object",
            "properties": {
                "account_id": {"type": "integer"},
                "account_state": {"type": "object"},
                "deals": {"type": "array", "items": {"type": "object"}},
                "positions": {"type": "array", "items": {"type": "object"}}
            }
        },
        "http.snapshotResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "account_id": {"type": "integer"},
                "deals_upserted": {"type": "integer"}
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "email": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "domain.BrokerAccount": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "user_id": {"type": "integer"},
                "provider": {"type": "string"},
                "name": {"type": "string"},
                "currency": {"type": "string"},
                "status": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "domain.Trade": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "account_id": {"type": "integer"},
                "provider_trade_id": {"type": "string"},
                "symbol": {"type": "string"},
                "side": {"type": "string"},
                "volume": {"type": "number"},
                "open_time": {"type": "string"},
                "close_time": {"type": "string"},
                "open_price": {"type": "number"},
                "close_price": {"type": "number"},
                "commission": {"type": "number"},
                "swap": {"type": "number"},
                "fees": {"type": "number"},
                "pnl": {"type": "number"},
                "status": {"type": "string"},
                "record_type": {"type": "string"},
                "magic": {"type": "integer"},
                "comment": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "domain.DailyMetric": {
            "type": "object",
            "properties": {
                "account_id": {"type": "integer"},
                "date": {"type": "string"},
                "realized_pnl": {"type": "number"},
                "commissions": {"type": "number"},
                "swaps": {"type": "number"},
                "fees": {"type": "number"},
                "net_pnl": {"type": "number"},
                "end_balance": {"type": "number"},
                "end_equity": {"type": "number"}
            }
        },
        "domain.EquityCurve": {
            "type": "object",
            "properties": {
                "points": {"type": "array", "items": {"$ref": "#/definitions/domain.EquityPoint"}},
                "method": {"type": "string"}
            }
        },
        "domain.EquityPoint": {
            "type": "object",
            "properties": {
                "ts": {"type": "string"},
                "balance": {"type": "number"}
            }
        },
        "domain.Stats": {
            "type": "object",
            "properties": {
                "win_rate": {"type": "number"},
                "profit_factor": {"type": "number"},
                "avg_win": {"type": "number"},
                "avg_loss": {"type": "number"},
                "expectancy": {"type": "number"},
                "best_day": {"type": "number"},
                "worst_day": {"type": "number"},
                "max_drawdown": {"type": "number"},
                "total_trades": {"type": "integer"},
                "wins": {"type": "integer"},
                "losses": {"type": "integer"},
                "streak_wins": {"type": "integer"},
                "streak_losses": {"type": "integer"}
            }
        },
        "usecase.MT5ConnectInfo": {
            "type": "object",
            "properties": {
                "account_id": {"type": "integer"},
                "ingest_key": {"type": "string"},
                "api_url": {"type": "string"},
                "instructions": {"type": "array", "items": {"type": "string"}}
            }
        },
        "usecase.CTraderConnectInfo": {
            "type": "object",
            "properties": {
                "account_id": {"type": "integer"},
                "oauth_url": {"type": "string"},
                "state": {"type": "string"},
                "note": {"type": "string"}
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
	Title:            "Trade Monitor API",
	Description:      "Signed MT5 deal ingestion, trade ledger, daily metrics and performance analytics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
