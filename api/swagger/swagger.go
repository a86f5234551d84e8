package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Tashih al-Masa'il API",
        "description": "Verification workflow for bahtsul masail issue documents and collections",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and token lifecycle"},
        {"name": "TaqrirJamai", "description": "Collection aggregates"},
        {"name": "TaqrirKhass", "description": "Issue documents"},
        {"name": "Verification", "description": "Mushoheh verification records"},
        {"name": "Annotation", "description": "Reference annotation ledger"},
        {"name": "Dashboard", "description": "Mushoheh review queue and statistics"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Expired or revoked token"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Revoke refresh token",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/taqrir-jamai": {
            "get": {
                "tags": ["TaqrirJamai"],
                "summary": "List collections",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["TaqrirJamai"],
                "summary": "Create collection",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCollectionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/taqrir-jamai/{id}": {
            "get": {
                "tags": ["TaqrirJamai"],
                "summary": "Get collection",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["TaqrirJamai"],
                "summary": "Update draft collection metadata",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateCollectionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Collection no longer editable"}
                }
            },
            "delete": {
                "tags": ["TaqrirJamai"],
                "summary": "Delete draft collection",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Only drafts can be deleted"}
                }
            }
        },
        "/taqrir-jamai/{id}/submit_for_review": {
            "post": {
                "tags": ["TaqrirJamai"],
                "summary": "Submit draft collection for review",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/taqrir-jamai/{id}/approve": {
            "post": {
                "tags": ["TaqrirJamai"],
                "summary": "Approve collection under review",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Child documents not all approved"}
                }
            }
        },
        "/taqrir-jamai/{id}/publish": {
            "post": {
                "tags": ["TaqrirJamai"],
                "summary": "Publish approved collection",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/taqrir-jamai/{id}/export": {
            "get": {
                "tags": ["TaqrirJamai"],
                "summary": "Export published collection as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF document"},
                    "409": {"description": "Collection not published"}
                }
            }
        },
        "/taqrir-khass": {
            "get": {
                "tags": ["TaqrirKhass"],
                "summary": "List documents",
                "parameters": [
                    {"name": "taqrir_jamai_id", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["TaqrirKhass"],
                "summary": "Create document inside a collection",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateDocumentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/taqrir-khass/{id}": {
            "get": {
                "tags": ["TaqrirKhass"],
                "summary": "Get document with verification progress",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["TaqrirKhass"],
                "summary": "Update document sections",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateDocumentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Document not editable"}
                }
            }
        },
        "/taqrir-khass/{id}/submit_for_review": {
            "post": {
                "tags": ["TaqrirKhass"],
                "summary": "Submit document for verification",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Mandatory sections missing"}
                }
            }
        },
        "/taqrir-khass/{id}/request_revision": {
            "post": {
                "tags": ["TaqrirKhass"],
                "summary": "Send document back to its author",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RequestRevisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mushoheh-verification": {
            "post": {
                "tags": ["Verification"],
                "summary": "Create or update the verification record",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertVerificationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Version conflict"}
                }
            }
        },
        "/mushoheh-verification/{id}": {
            "get": {
                "tags": ["Verification"],
                "summary": "Get verification record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mushoheh-verification/{id}/complete": {
            "post": {
                "tags": ["Verification"],
                "summary": "Finalize verification and approve the document",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "State changed"},
                    "412": {"description": "Sections not fully verified"}
                }
            }
        },
        "/reference-annotation": {
            "get": {
                "tags": ["Annotation"],
                "summary": "List annotations",
                "parameters": [
                    {"name": "taqrir_khass_id", "in": "query", "type": "string"},
                    {"name": "section", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Annotation"],
                "summary": "Record a cited passage",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAnnotationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reference-annotation/export": {
            "get": {
                "tags": ["Annotation"],
                "summary": "Export the annotation ledger as CSV",
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "taqrir_khass_id", "in": "query", "type": "string"},
                    {"name": "section", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "CSV document"}
                }
            }
        },
        "/reference-annotation/{id}": {
            "get": {
                "tags": ["Annotation"],
                "summary": "Get annotation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Annotation"],
                "summary": "Edit unverified annotation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateAnnotationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Annotation already classified"}
                }
            }
        },
        "/reference-annotation/{id}/verify": {
            "post": {
                "tags": ["Annotation"],
                "summary": "Classify annotation as verified or incorrect",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/VerifyAnnotationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Annotation already classified"}
                }
            }
        },
        "/tashih/pending-verification": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Documents awaiting verification, highest priority first",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tashih/completed-verification": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Approved documents",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tashih/statistics": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Workflow counters",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
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
            },
            "required": ["email", "password"]
        },
        "RefreshTokenRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            },
            "required": ["refresh_token"]
        },
        "CreateCollectionRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "date": {"type": "string", "description": "YYYY-MM-DD"},
                "location": {"type": "string"},
                "organizer": {"type": "string"},
                "participants": {"type": "string"}
            },
            "required": ["title"]
        },
        "UpdateCollectionRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "date": {"type": "string"},
                "location": {"type": "string"},
                "organizer": {"type": "string"},
                "participants": {"type": "string"}
            }
        },
        "CreateDocumentRequest": {
            "type": "object",
            "properties": {
                "taqrir_jamai_id": {"type": "string"},
                "title": {"type": "string"},
                "nash_masalah": {"type": "string"},
                "khalfiyyah": {"type": "string"},
                "munaqashah": {"type": "string"},
                "jawaban": {"type": "string"},
                "talil_jawab": {"type": "string"},
                "referensi": {"type": "string"},
                "display_order": {"type": "integer"}
            },
            "required": ["taqrir_jamai_id", "title"]
        },
        "UpdateDocumentRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "nash_masalah": {"type": "string"},
                "khalfiyyah": {"type": "string"},
                "munaqashah": {"type": "string"},
                "jawaban": {"type": "string"},
                "talil_jawab": {"type": "string"},
                "referensi": {"type": "string"},
                "display_order": {"type": "integer"}
            }
        },
        "RequestRevisionRequest": {
            "type": "object",
            "properties": {
                "verification_notes": {"type": "string"}
            },
            "required": ["verification_notes"]
        },
        "UpsertVerificationRequest": {
            "type": "object",
            "properties": {
                "taqrir_khass_id": {"type": "string"},
                "version": {"type": "integer"},
                "nash_masalah_verified": {"type": "boolean"},
                "nash_masalah_notes": {"type": "string"},
                "khalfiyyah_verified": {"type": "boolean"},
                "khalfiyyah_notes": {"type": "string"},
                "munaqashah_verified": {"type": "boolean"},
                "munaqashah_notes": {"type": "string"},
                "jawaban_verified": {"type": "boolean"},
                "jawaban_notes": {"type": "string"},
                "talil_jawab_verified": {"type": "boolean"},
                "talil_jawab_notes": {"type": "string"},
                "referensi_verified": {"type": "boolean"},
                "referensi_notes": {"type": "string"},
                "overall_notes": {"type": "string"}
            },
            "required": ["taqrir_khass_id"]
        },
        "CreateAnnotationRequest": {
            "type": "object",
            "properties": {
                "taqrir_khass_id": {"type": "string"},
                "section": {"type": "string"},
                "text": {"type": "string"},
                "reference_type": {"type": "string", "enum": ["quran", "hadith", "book", "article", "other"]},
                "source": {"type": "string"},
                "start_position": {"type": "integer"},
                "end_position": {"type": "integer"}
            },
            "required": ["taqrir_khass_id", "section", "text", "reference_type", "source"]
        },
        "UpdateAnnotationRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "reference_type": {"type": "string"},
                "source": {"type": "string"},
                "start_position": {"type": "integer"},
                "end_position": {"type": "integer"}
            }
        },
        "VerifyAnnotationRequest": {
            "type": "object",
            "properties": {
                "verification_status": {"type": "string", "enum": ["verified", "incorrect"]},
                "verification_notes": {"type": "string"}
            },
            "required": ["verification_status"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
