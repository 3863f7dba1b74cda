package batch

// Manifest is the meta.json written at the root of a batch directory. It
// is the single place a caller can tell how far a batch got.
type Manifest struct {
	SaleID   string       `json:"venta_id"`
	Slug     string       `json:"cliente_slug"`
	SaleDate string       `json:"fecha_venta"`
	Creditor string       `json:"beneficiario"`
	Contact  ContactMeta  `json:"contacto"`
	Debtor   DebtorMeta   `json:"deudor"`
	Economic EconomicMeta `json:"economico"`
	Document DocumentMeta `json:"documento"`
	Predio   PredioMeta   `json:"predio"`
	Files    FilesMeta    `json:"archivos"`
	Notes    []NoteMeta   `json:"pagares"`
}

type ContactMeta struct {
	Phone string `json:"telefono"`
}

type DebtorMeta struct {
	Name    string `json:"nombre"`
	Address string `json:"direccion"`
	City    string `json:"poblacion"`
}

type EconomicMeta struct {
	Total       string  `json:"total"`
	DownPayment string  `json:"enganche"`
	Balance     string  `json:"saldo"`
	Installment string  `json:"mensualidad"`
	NoteCount   int     `json:"numero_pagares"`
	PenaltyPct  float64 `json:"moratorios_pct"`
}

type DocumentMeta struct {
	PlaceOfIssue   string `json:"lugar_expedicion"`
	PlaceOfPayment string `json:"lugar_pago"`
	IssueDate      string `json:"fecha_emision"`
	DueDateRule    string `json:"regla_1530"`
}

type PredioMeta struct {
	Name         string       `json:"nombre"`
	Location     string       `json:"ubicacion"`
	Municipality string       `json:"municipio"`
	Block        string       `json:"manzana_lote"`
	SurfaceM2    float64      `json:"superficie_m2"`
	North        BoundaryMeta `json:"norte"`
	South        BoundaryMeta `json:"sur"`
	East         BoundaryMeta `json:"oriente"`
	West         BoundaryMeta `json:"poniente"`
	Witnesses    []string     `json:"testigos"`
}

type BoundaryMeta struct {
	Meters  float64 `json:"metros"`
	Adjoins string  `json:"colinda"`
}

type FilesMeta struct {
	BaseDir       string `json:"base_dir"`
	LotPDF        string `json:"lote_pdf"`
	IndividualDir string `json:"individuales_dir"`
}

// NoteMeta is the per-note audit summary embedded in the manifest.
type NoteMeta struct {
	Folio     string `json:"folio"`
	Amount    string `json:"monto"`
	DueDate   string `json:"vence"`
	AuditPath string `json:"audit_json"`
	PreHash   string `json:"pre_hash"`
	PostHash  string `json:"post_hash"`
	QRShort   string `json:"qr_short"`
	DocID     string `json:"doc_id"`
	BatchID   string `json:"base_id"`
}
