package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// POStatus estado del ciclo de vida de un pedido de compra.
type POStatus string

// Estados del pedido de compra. El flujo nominal es
// rascunho → requisicao → cotacao → pendente → aprovado → enviado → recebido;
// rejeitado/cancelado son ramas laterales (el rechazo en pendente vuelve a requisicao).
const (
	POStatusRascunho   POStatus = "rascunho"
	POStatusRequisicao POStatus = "requisicao"
	POStatusCotacao    POStatus = "cotacao"
	POStatusPendente   POStatus = "pendente"
	POStatusAprovado   POStatus = "aprovado"
	POStatusEnviado    POStatus = "enviado"
	POStatusRecebido   POStatus = "recebido"
	POStatusRejeitado  POStatus = "rejeitado"
	POStatusCancelado  POStatus = "cancelado"
)

// Prioridades de pedido.
const (
	POPriorityNormal  = "normal"
	POPriorityUrgente = "urgente"
)

// Acciones del historial de aprobación.
const (
	ApprovalActionApproved = "approved"
	ApprovalActionRejected = "rejected"
)

// POItem línea de un pedido de compra.
type POItem struct {
	SKU   string          `json:"sku"`
	Name  string          `json:"name"`
	Qty   int             `json:"qty"`
	Price decimal.Decimal `json:"price"`
}

// QuoteItem precio y plazo cotizados para un SKU.
type QuoteItem struct {
	SKU       string          `json:"sku"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LeadTime  string          `json:"lead_time"`
}

// Quote cotización de un proveedor para un pedido.
// Inmutable una vez que el pedido avanza más allá de cotacao, salvo IsSelected.
type Quote struct {
	ID         string          `json:"id"`
	VendorID   string          `json:"vendor_id"`
	VendorName string          `json:"vendor_name"`
	Items      []QuoteItem     `json:"items"`
	TotalValue decimal.Decimal `json:"total_value"`
	ValidUntil string          `json:"valid_until"`
	Notes      string          `json:"notes,omitempty"`
	QuotedBy   string          `json:"quoted_by"`
	QuotedAt   time.Time       `json:"quoted_at"`
	IsSelected bool            `json:"is_selected"`
}

// ApprovalRecord registro inmutable del historial de aprobación de un pedido.
type ApprovalRecord struct {
	ID     string    `json:"id"`
	Action string    `json:"action"` // approved | rejected
	By     string    `json:"by"`
	At     time.Time `json:"at"`
	Reason string    `json:"reason,omitempty"`
}

// PurchaseOrder pedido de compra. El prefijo del ID distingue origen:
// AUTO- para requisiciones generadas por el evaluador de estoque crítico,
// PO- (u otro) para pedidos manuales. Items/Quotes/ApprovalHistory se
// persisten como subdocumentos JSONB.
type PurchaseOrder struct {
	ID                string
	Vendor            string
	RequestDate       time.Time
	Status            POStatus
	Priority          string
	Total             decimal.Decimal
	Requester         string
	Items             []POItem
	Quotes            []Quote
	SelectedQuoteID   string
	ApprovalHistory   []ApprovalRecord
	QuotesAddedAt     *time.Time
	SentToVendorAt    *time.Time
	ApprovedAt        *time.Time
	RejectedAt        *time.Time
	ReceivedAt        *time.Time
	VendorOrderNumber string
}

// FindQuote devuelve la cotización con el ID dado, o nil si no existe.
func (po *PurchaseOrder) FindQuote(quoteID string) *Quote {
	for i := range po.Quotes {
		if po.Quotes[i].ID == quoteID {
			return &po.Quotes[i]
		}
	}
	return nil
}

// HasSKU indica si el pedido contiene una línea para el SKU.
func (po *PurchaseOrder) HasSKU(sku string) bool {
	for _, it := range po.Items {
		if it.SKU == sku {
			return true
		}
	}
	return false
}
