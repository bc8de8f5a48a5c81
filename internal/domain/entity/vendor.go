package entity

// Vendor proveedor registrado. Las cotizaciones referencian proveedores
// por ID/nombre; el registro maestro no se valida contra las cotizaciones.
type Vendor struct {
	ID       string
	Name     string
	CNPJ     string
	Category string
	Contact  string
	Email    string
	Status   string // Ativo | Bloqueado
}
