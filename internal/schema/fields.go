package schema

// SchemaVersion is stamped on every canonical route.
const SchemaVersion = 1

// Canonical and legacy field names.
const (
	FieldName          = "name"
	FieldTitle         = "title"
	FieldColor         = "color"
	FieldFareBase      = "fareBase"
	FieldPublic        = "public"
	FieldCreatedBy     = "createdBy"
	FieldCreatedAt     = "createdAt"
	FieldSchemaVersion = "schemaVersion"
	FieldPath          = "path"
	FieldCoordinates   = "coordinates"
	FieldPoints        = "points"

	FieldStreet   = "street"
	FieldOrder    = "order"
	FieldLocation = "location"
)
