package pipeline

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	stderrors "marklet-proxy/internal/common/errors"
)

const generateSchema = `{
	"type": "object",
	"required": ["prompt"],
	"properties": {
		"prompt": {"type": "string", "minLength": 1, "maxLength": 8192}
	},
	"additionalProperties": false
}`

const chatSchema = `{
	"type": "object",
	"required": ["messages"],
	"properties": {
		"messages": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["role", "content"],
				"properties": {
					"role": {"type": "string", "enum": ["user", "assistant"]},
					"content": {"type": "string"}
				}
			}
		},
		"wantTitle": {"type": "boolean"},
		"existingBookmarklets": {"type": "array", "items": {"$ref": "#/definitions/resource"}},
		"existingWebsites": {"type": "array", "items": {"$ref": "#/definitions/resource"}}
	},
	"definitions": {
		"resource": {
			"type": "object",
			"required": ["name"],
			"properties": {
				"name": {"type": "string", "minLength": 1},
				"description": {"type": "string"},
				"url": {"type": "string"}
			}
		}
	}
}`

var (
	generateSchemaLoader = gojsonschema.NewStringLoader(generateSchema)
	chatSchemaLoader     = gojsonschema.NewStringLoader(chatSchema)
)

// ValidateGenerateBody checks a raw single-shot request body before it
// is decoded. Runs before any network call.
func ValidateGenerateBody(body []byte) error {
	return validateBody(body, generateSchemaLoader)
}

// ValidateChatBody checks a raw conversational request body before it
// is decoded. Runs before any network call.
func ValidateChatBody(body []byte) error {
	return validateBody(body, chatSchemaLoader)
}

func validateBody(body []byte, schema gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return stderrors.NewInvalidRequestError(fmt.Sprintf("malformed request body: %v", err))
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return stderrors.NewInvalidRequestError(strings.Join(errs, "; "))
	}

	return nil
}
