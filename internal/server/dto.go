package server

import "github.com/ZxMYS/ml-metadata/internal/mlmd"

// PropertyDTO is the wire shape of one typed value; exactly one of the
// int/double/string fields is set, matching mlmd.Value's tagged union
// (spec.md §6).
type PropertyDTO struct {
	IntValue    *int64   `json:"int_value,omitempty"`
	DoubleValue *float64 `json:"double_value,omitempty"`
	StringValue *string  `json:"string_value,omitempty"`
}

func propertyToDTO(v mlmd.Value) PropertyDTO {
	switch v.Type {
	case mlmd.PropertyInt:
		return PropertyDTO{IntValue: &v.IntValue}
	case mlmd.PropertyDouble:
		return PropertyDTO{DoubleValue: &v.DoubleValue}
	default:
		return PropertyDTO{StringValue: &v.StringValue}
	}
}

func propertyFromDTO(d PropertyDTO) mlmd.Value {
	switch {
	case d.IntValue != nil:
		return mlmd.IntValue(*d.IntValue)
	case d.DoubleValue != nil:
		return mlmd.DoubleValue(*d.DoubleValue)
	case d.StringValue != nil:
		return mlmd.StringValue(*d.StringValue)
	default:
		return mlmd.Value{}
	}
}

func propertyMapToDTO(vs mlmd.ValueMap) map[string]PropertyDTO {
	out := make(map[string]PropertyDTO, len(vs))
	for k, v := range vs {
		out[k] = propertyToDTO(v)
	}
	return out
}

func propertyMapFromDTO(d map[string]PropertyDTO) mlmd.ValueMap {
	out := make(mlmd.ValueMap, len(d))
	for k, v := range d {
		out[k] = propertyFromDTO(v)
	}
	return out
}

// TypeDTO is the wire shape of an ArtifactType/ExecutionType/ContextType.
type TypeDTO struct {
	ID         int64             `json:"id,omitempty"`
	Name       string            `json:"name"`
	Properties map[string]string `json:"properties,omitempty"`
}

func propertyTypeName(p mlmd.PropertyType) string { return p.String() }

func propertyTypeFromName(name string) mlmd.PropertyType {
	switch name {
	case "INT":
		return mlmd.PropertyInt
	case "DOUBLE":
		return mlmd.PropertyDouble
	case "STRING":
		return mlmd.PropertyString
	default:
		return mlmd.PropertyUnknown
	}
}

func typeToDTO(t mlmd.Type) TypeDTO {
	props := make(map[string]string, len(t.Properties))
	for k, v := range t.Properties {
		props[k] = propertyTypeName(v)
	}
	return TypeDTO{ID: t.ID, Name: t.Name, Properties: props}
}

func typeFromDTO(kind mlmd.Kind, d TypeDTO) mlmd.Type {
	props := make(mlmd.PropertyMap, len(d.Properties))
	for k, v := range d.Properties {
		props[k] = propertyTypeFromName(v)
	}
	return mlmd.Type{ID: d.ID, Kind: kind, Name: d.Name, Properties: props}
}

// PutTypeRequest is the request body for a single type upsert.
type PutTypeRequest struct {
	Type           TypeDTO `json:"type"`
	CanAddFields   bool    `json:"can_add_fields,omitempty"`
	AllFieldsMatch bool    `json:"all_fields_match,omitempty"`
}

// EntityDTO is the wire shape shared by Artifact/Execution/Context.
type EntityDTO struct {
	ID               int64                  `json:"id,omitempty"`
	TypeID           int64                  `json:"type_id"`
	Properties       map[string]PropertyDTO `json:"properties,omitempty"`
	CustomProperties map[string]PropertyDTO `json:"custom_properties,omitempty"`
	URI              string                 `json:"uri,omitempty"`
	Name             string                 `json:"name,omitempty"`
}

func entityFromDTO(d EntityDTO) mlmd.Entity {
	return mlmd.Entity{
		ID:               d.ID,
		TypeID:           d.TypeID,
		Properties:       propertyMapFromDTO(d.Properties),
		CustomProperties: propertyMapFromDTO(d.CustomProperties),
	}
}

func artifactFromDTO(d EntityDTO) mlmd.Artifact {
	return mlmd.Artifact{Entity: entityFromDTO(d), URI: d.URI}
}

func artifactToDTO(a mlmd.Artifact) EntityDTO {
	return EntityDTO{
		ID: a.ID, TypeID: a.TypeID,
		Properties:       propertyMapToDTO(a.Properties),
		CustomProperties: propertyMapToDTO(a.CustomProperties),
		URI:              a.URI,
	}
}

func executionFromDTO(d EntityDTO) mlmd.Execution {
	return mlmd.Execution{Entity: entityFromDTO(d)}
}

func executionToDTO(e mlmd.Execution) EntityDTO {
	return EntityDTO{
		ID: e.ID, TypeID: e.TypeID,
		Properties:       propertyMapToDTO(e.Properties),
		CustomProperties: propertyMapToDTO(e.CustomProperties),
	}
}

func contextFromDTO(d EntityDTO) mlmd.Context {
	return mlmd.Context{Entity: entityFromDTO(d), Name: d.Name}
}

func contextToDTO(c mlmd.Context) EntityDTO {
	return EntityDTO{
		ID: c.ID, TypeID: c.TypeID,
		Properties:       propertyMapToDTO(c.Properties),
		CustomProperties: propertyMapToDTO(c.CustomProperties),
		Name:             c.Name,
	}
}

// EventDTO is the wire shape of an Event, including its structured path.
type EventDTO struct {
	ArtifactID  int64               `json:"artifact_id,omitempty"`
	ExecutionID int64               `json:"execution_id,omitempty"`
	Type        string              `json:"type"`
	Timestamp   int64               `json:"timestamp,omitempty"`
	Path        []EventPathStepDTO  `json:"path,omitempty"`
}

type EventPathStepDTO struct {
	Key   string `json:"key,omitempty"`
	Index int64  `json:"index,omitempty"`
	IsKey bool   `json:"is_key,omitempty"`
}

var eventTypeNames = map[string]mlmd.EventType{
	"DECLARED_OUTPUT": mlmd.EventDeclaredOutput,
	"DECLARED_INPUT":  mlmd.EventDeclaredInput,
	"INPUT":           mlmd.EventInput,
	"OUTPUT":          mlmd.EventOutput,
	"INTERNAL_INPUT":  mlmd.EventInternalInput,
	"INTERNAL_OUTPUT": mlmd.EventInternalOutput,
}

func eventFromDTO(d EventDTO) mlmd.Event {
	path := make([]mlmd.EventPathStep, len(d.Path))
	for i, s := range d.Path {
		path[i] = mlmd.EventPathStep{Key: s.Key, Index: s.Index, IsKey: s.IsKey}
	}
	return mlmd.Event{
		ArtifactID:  d.ArtifactID,
		ExecutionID: d.ExecutionID,
		Type:        eventTypeNames[d.Type],
		Timestamp:   d.Timestamp,
		Path:        path,
	}
}

func eventToDTO(e mlmd.Event) EventDTO {
	path := make([]EventPathStepDTO, len(e.Path))
	for i, s := range e.Path {
		path[i] = EventPathStepDTO{Key: s.Key, Index: s.Index, IsKey: s.IsKey}
	}
	return EventDTO{
		ArtifactID:  e.ArtifactID,
		ExecutionID: e.ExecutionID,
		Type:        e.Type.String(),
		Timestamp:   e.Timestamp,
		Path:        path,
	}
}

// PutExecutionRequest is the composite PutExecution request body (spec.md
// §4.4): one execution plus its paired artifacts and optional events.
type PutExecutionRequest struct {
	Execution EntityDTO                `json:"execution"`
	Artifacts []ArtifactAndEventDTO    `json:"artifacts_and_events,omitempty"`
}

type ArtifactAndEventDTO struct {
	Artifact EntityDTO  `json:"artifact"`
	Event    *EventDTO  `json:"event,omitempty"`
}

type PutExecutionResponse struct {
	ExecutionID int64   `json:"execution_id"`
	ArtifactIDs []int64 `json:"artifact_ids"`
}
