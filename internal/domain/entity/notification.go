package entity

import "time"

// Niveles de notificación.
const (
	NotifInfo    = "info"
	NotifWarning = "warning"
	NotifSuccess = "success"
	NotifError   = "error"
)

// Notification aviso persistido para el usuario (campana de la UI).
// La entrega es fire-and-forget: un fallo al crearla nunca bloquea la
// mutación de negocio que la originó.
type Notification struct {
	ID        string
	Title     string
	Message   string
	Type      string
	Read      bool
	CreatedAt time.Time
	UserID    string
}

// Activity entrada del feed de actividad operacional (retención acotada,
// las N más recientes).
type Activity struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"` // recebimento | movimentacao | expedicao | alerta | compra
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle"`
	Time     time.Time `json:"time"`
}
