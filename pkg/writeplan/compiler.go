package writeplan

import (
	"errors"
	"strings"

	"ai-sitebuilder-be/pkg/schema"
)

// ErrNoOp is returned when a guarded update compiles to zero
// instructions. Callers surface this explicitly instead of silently
// acknowledging a write that changed nothing.
var ErrNoOp = errors.New("update contains no writable fields")

// Compile turns an ordered canonical-path update into storage write
// instructions, one per field, preserving field order:
//
//   - dotless path with an object value  -> MergeDocument
//   - path with exactly one dot          -> SetDocumentKey
//   - anything else                      -> SetScalar
func Compile(fields []schema.Field) ([]Instruction, error) {
	if len(fields) == 0 {
		return nil, ErrNoOp
	}

	instructions := make([]Instruction, 0, len(fields))
	for _, f := range fields {
		column, key, nested := strings.Cut(f.Path, ".")

		if !nested {
			if patch, ok := asDocument(f.Value); ok {
				instructions = append(instructions, Instruction{
					Kind:   MergeDocument,
					Column: column,
					Patch:  patch,
				})
				continue
			}
			instructions = append(instructions, Instruction{
				Kind:   SetScalar,
				Column: column,
				Value:  f.Value,
			})
			continue
		}

		if strings.Contains(key, ".") {
			// Deeper nesting than one level is not part of either
			// schema; treat the whole path as a scalar column name so
			// the store rejects it rather than mangling the document.
			instructions = append(instructions, Instruction{
				Kind:   SetScalar,
				Column: f.Path,
				Value:  f.Value,
			})
			continue
		}

		instructions = append(instructions, Instruction{
			Kind:   SetDocumentKey,
			Column: column,
			Key:    key,
			Value:  f.Value,
		})
	}
	return instructions, nil
}

func asDocument(value interface{}) (map[string]interface{}, bool) {
	patch, ok := value.(map[string]interface{})
	return patch, ok
}
