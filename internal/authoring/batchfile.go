package authoring

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema/batch.json
var batchSchemaJSON []byte

const batchSchemaURL = "schema://question-batch.json"

var (
	batchSchemaOnce sync.Once
	batchSchema     *jsonschema.Schema
	batchSchemaErr  error
)

func compiledBatchSchema() (*jsonschema.Schema, error) {
	batchSchemaOnce.Do(func() {
		var doc any
		if err := json.Unmarshal(batchSchemaJSON, &doc); err != nil {
			batchSchemaErr = fmt.Errorf("parse batch schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(batchSchemaURL, doc); err != nil {
			batchSchemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		batchSchema, batchSchemaErr = c.Compile(batchSchemaURL)
	})
	return batchSchema, batchSchemaErr
}

// LoadBatchFile reads a JSON array of drafts from path.
func LoadBatchFile(path string) ([]Draft, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseBatch(f)
}

// ParseBatch decodes a JSON batch, checking its shape against the batch
// schema first. Missing difficulties default to DefaultDifficulty.
func ParseBatch(r io.Reader) ([]Draft, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	schema, err := compiledBatchSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("batch does not match schema: %w", err)
	}

	var drafts []Draft
	if err := json.Unmarshal(raw, &drafts); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}
	for i := range drafts {
		if drafts[i].Difficulty == 0 {
			drafts[i].Difficulty = DefaultDifficulty
		}
	}
	return drafts, nil
}
