// Package parser decodes drag-and-drop transfer payloads at the drop boundary.
package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/starford/kanboard/internal/models"
)

// MIMEType is the data transfer format under which payloads are attached at drag start.
const MIMEType = "application/json"

// Payload keys.
const (
	keyCardID = "itemId"
	keyFrom   = "fromCol"
)

const transferSchemaJSON = `{
	"type": "object",
	"required": ["itemId", "fromCol"],
	"properties": {
		"itemId": {"type": "string", "minLength": 1},
		"fromCol": {"enum": ["todo", "inprogress", "done"]}
	}
}`

var transferSchema = jsonschema.MustCompileString("kanboard://transfer.json", transferSchemaJSON)

// ErrMalformed is returned for payloads that are not a valid transfer record.
var ErrMalformed = errors.New("parser: malformed transfer payload")

// Transfer is the record carried by a drag gesture: the dragged card and the
// column it was picked up from.
type Transfer struct {
	CardID string        `json:"itemId"`
	From   models.Column `json:"fromCol"`
}

// Encode returns the payload to attach at drag start.
func (t Transfer) Encode() ([]byte, error) {
	return json.Marshal(t)
}

// ParseTransfer validates data against the transfer schema and decodes it.
// Every shape mismatch yields an error wrapping ErrMalformed.
func ParseTransfer(data []byte) (Transfer, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Transfer{}, fmt.Errorf("%w: empty payload", ErrMalformed)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Transfer{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := transferSchema.Validate(raw); err != nil {
		return Transfer{}, fmt.Errorf("%w: %s", ErrMalformed, schemaMessage(err))
	}

	// Read the record from the validated object. Keys that only case-fold to
	// a checked key (e.g. "ITEMID") were never validated and are rejected.
	obj := raw.(map[string]any)
	for key := range obj {
		if key == keyCardID || key == keyFrom {
			continue
		}
		if strings.EqualFold(key, keyCardID) || strings.EqualFold(key, keyFrom) {
			return Transfer{}, fmt.Errorf("%w: ambiguous key %q", ErrMalformed, key)
		}
	}

	id, _ := obj[keyCardID].(string)
	from, _ := obj[keyFrom].(string)
	return Transfer{CardID: id, From: models.Column(from)}, nil
}

// schemaMessage flattens a validation error to its first leaf cause.
func schemaMessage(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	if ve.InstanceLocation == "" {
		return ve.Message
	}
	return ve.InstanceLocation + ": " + ve.Message
}
