package client

// FieldType is the inferred type of a dataset field.
type FieldType string

// Field type constants.
const (
	FieldBoolean FieldType = "BOOLEAN"
	FieldInteger FieldType = "INTEGER"
	FieldFloat   FieldType = "FLOAT"
	FieldDate    FieldType = "DATE"
	FieldOption  FieldType = "OPTION"
	FieldText    FieldType = "TEXT"
)

// Field describes one dataset field.
type Field struct {
	Display string    `json:"display"`
	Name    string    `json:"name"`
	Type    FieldType `json:"type"`
	Options []string  `json:"options"`
}

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Station is one normalized record keyed by canonical field name.
// Values are JSON scalars: float64, string, bool or nil.
type Station map[string]any

// Pagination describes the returned page.
type Pagination struct {
	Page         int `json:"page"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
	TotalPages   int `json:"totalPages"`
}

// Page is one page of query results.
type Page struct {
	Data       []Station  `json:"data"`
	Pagination Pagination `json:"pagination"`
}
