package assistant

import (
	"fmt"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
)

// SchemaRegistry holds the payload schemas of action types this client is
// willing to execute. Schemas are reflected once at registration and shared
// with the backend so it only proposes actions the client understands.
type SchemaRegistry struct {
	mu      sync.RWMutex
	schemas map[string]*jsonschema.Schema
}

func NewSchemaRegistry() *SchemaRegistry {
	return &SchemaRegistry{schemas: map[string]*jsonschema.Schema{}}
}

// Register reflects a schema from the payload prototype and stores it under
// the action type. Re-registering a type replaces its schema.
func (r *SchemaRegistry) Register(actionType string, payloadPrototype any) {
	if r == nil || actionType == "" {
		return
	}

	reflector := jsonschema.Reflector{DoNotReference: true}
	schema := reflector.Reflect(payloadPrototype)
	schema.Version = ""

	r.mu.Lock()
	r.schemas[actionType] = schema
	r.mu.Unlock()
}

func (r *SchemaRegistry) Known(actionType string) bool {
	if r == nil {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.schemas[actionType]
	return ok
}

// Types returns the registered action types in unspecified order.
func (r *SchemaRegistry) Types() []string {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.schemas))
	for actionType := range r.schemas {
		types = append(types, actionType)
	}
	return types
}

// Schemas returns a copy of the type to schema mapping for transport to the
// backend.
func (r *SchemaRegistry) Schemas() map[string]*jsonschema.Schema {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	schemas := make(map[string]*jsonschema.Schema, len(r.schemas))
	for actionType, schema := range r.schemas {
		schemas[actionType] = schema
	}
	return schemas
}

// Validate checks a proposed action against the registered schema for its
// type: the type must be known and every required payload property present.
// An empty registry accepts everything, matching clients that never declare
// schemas.
func (r *SchemaRegistry) Validate(action ProposedAction) error {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.schemas) == 0 {
		return nil
	}

	schema, ok := r.schemas[action.Type]
	if !ok {
		return fmt.Errorf("unknown action type %q", action.Type)
	}

	var missing []string
	for _, required := range schema.Required {
		if _, ok := action.Payload[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("action %q payload is missing required properties: %s", action.Type, strings.Join(missing, ", "))
	}

	return nil
}
