package dto

// Límites de página fijos; el tamaño máximo de página viene de configuración.
const (
	MinPage     = 1
	MaxPage     = 100
	DefaultPage = 1
)

// PageRequest paginación pedida por el cliente. nil significa "no enviado";
// cualquier valor numérico, incluido 0, se acota.
type PageRequest struct {
	Pagina *int
	Limite *int
}

// Page paginación efectiva de un listado.
type Page struct {
	Pagina int
	Limite int
}

// Normalize aplica valores por defecto a los campos no enviados y acota el resto:
// pagina ∈ [1,100], limite ∈ [1,maxPageSize].
func (p PageRequest) Normalize(defaultPageSize, maxPageSize int) Page {
	page := Page{Pagina: DefaultPage, Limite: defaultPageSize}
	if p.Pagina != nil {
		page.Pagina = *p.Pagina
	}
	if p.Limite != nil {
		page.Limite = *p.Limite
	}
	page.Pagina = clamp(page.Pagina, MinPage, MaxPage)
	page.Limite = clamp(page.Limite, 1, maxPageSize)
	return page
}

// Offset filas a saltar para la página actual.
func (p Page) Offset() int {
	return (p.Pagina - 1) * p.Limite
}

// TotalPaginas ceil(total/limite).
func TotalPaginas(total, limite int) int {
	if limite <= 0 {
		return 0
	}
	return (total + limite - 1) / limite
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
