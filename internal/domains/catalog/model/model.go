package model

const (
	TableName  = "services"
	EntityName = "service"

	FieldID       = "id"
	FieldName     = "name"
	FieldCategory = "category"
)

// Service is reference data owned by the catalog collaborator; read-only here.
type Service struct {
	ID        int64   `db:"id"         insert:"-"`
	Name      string  `db:"name"`
	Category  string  `db:"category"`
	BasePrice float64 `db:"base_price"`
}
