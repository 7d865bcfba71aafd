package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"luis-provisioner/internal/common/config"
	apperrors "luis-provisioner/internal/common/errors"
)

// manifestSchema checks the shape of the provisioning data only. It does not
// check that utterance intents or label entities are declared.
const manifestSchema = `{
  "type": "object",
  "required": ["application", "intents", "entities", "utterances"],
  "properties": {
    "application": {
      "type": "object",
      "required": ["name", "version", "culture"],
      "properties": {
        "name":        {"type": "string", "minLength": 1, "maxLength": 100},
        "description": {"type": "string"},
        "version":     {"type": "string", "minLength": 1, "maxLength": 10},
        "culture":     {"type": "string", "pattern": "^[a-zA-Z]{2}-[a-zA-Z]{2}$"}
      }
    },
    "intents": {
      "type": "array",
      "uniqueItems": true,
      "items": {"type": "string", "minLength": 1}
    },
    "entities": {
      "type": "array",
      "uniqueItems": true,
      "items": {"type": "string", "minLength": 1}
    },
    "utterances": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["intent", "text"],
        "properties": {
          "intent": {"type": "string", "minLength": 1},
          "text":   {"type": "string", "minLength": 1, "maxLength": 500},
          "labels": {
            "type": "object",
            "additionalProperties": {"type": "string"}
          }
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(manifestSchema)

// ValidateManifest checks the application, intents, entities and utterances sections of cfg.
func ValidateManifest(cfg *config.Config) error {
	utterances := make([]interface{}, 0, len(cfg.Utterances))
	for _, u := range cfg.Utterances {
		labels := make(map[string]interface{}, len(u.Labels))
		for k, v := range u.Labels {
			labels[k] = v
		}
		utterances = append(utterances, map[string]interface{}{
			"intent": u.Intent,
			"text":   u.Text,
			"labels": labels,
		})
	}

	doc := map[string]interface{}{
		"application": map[string]interface{}{
			"name":        cfg.Application.Name,
			"description": cfg.Application.Description,
			"version":     cfg.Application.Version,
			"culture":     cfg.Application.Culture,
		},
		"intents":    toInterfaces(cfg.Intents),
		"entities":   toInterfaces(cfg.Entities),
		"utterances": utterances,
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return apperrors.NewConfigInvalidError(strings.Join(errs, "; "))
	}

	return nil
}

func toInterfaces(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
