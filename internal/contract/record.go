package contract

// Record is the single audit file written next to a finished contract.
// Field names follow the verification documents handed to third parties.
type Record struct {
	Version   string       `json:"version"`
	Type      string       `json:"tipo"`
	Timestamp string       `json:"timestamp"`
	Client    ClientInfo   `json:"cliente"`
	Files     FileHashes   `json:"archivos"`
	Data      ContractData `json:"datos_contrato"`
	QRCode    QRInfo       `json:"qr_code"`
	Verify    VerifyInfo   `json:"verificacion"`
}

type ClientInfo struct {
	Name    string `json:"nombre"`
	Address string `json:"domicilio"`
	City    string `json:"poblacion"`
}

type FileHashes struct {
	PDF  PDFInfo  `json:"contrato_pdf"`
	Docx DocxInfo `json:"contrato_docx"`
}

type PDFInfo struct {
	Name      string `json:"nombre"`
	PreHash   string `json:"hash_sha256_pre_qr"`
	PostHash  string `json:"hash_sha256_post_qr"`
	SizeBytes int64  `json:"tamano_bytes"`
	Pages     int    `json:"paginas"`
}

type DocxInfo struct {
	Name      string `json:"nombre"`
	Hash      string `json:"hash_sha256"`
	SizeBytes int64  `json:"tamano_bytes"`
}

type ContractData struct {
	Folio     string `json:"folio"`
	Predio    string `json:"predio"`
	Block     string `json:"manzana_lote"`
	NoteCount int    `json:"total_pagares"`
	Total     string `json:"monto_total"`
	DownPay   string `json:"enganche"`
	Balance   string `json:"saldo"`
	FirstDue  string `json:"primer_vencimiento"`
}

// QRInfo mirrors the payload embedded in the first-page stamp.
type QRInfo struct {
	Type      string `json:"tipo"`
	Name      string `json:"nombre"`
	Date      string `json:"fecha"`
	NoteCount int    `json:"pagares"`
	Pages     int    `json:"paginas"`
	Folio     string `json:"folio"`
	ShortHash string `json:"hash_corto_pre_qr"`
}

type VerifyInfo struct {
	Instructions string `json:"instrucciones"`
	PostHash     string `json:"hash_completo_pdf_post_qr"`
	Algorithm    string `json:"algoritmo"`
}

const verifyInstructions = "El QR contiene el hash del PDF antes de estampar el propio QR (pre_QR). " +
	"Para validar integridad del archivo final, calcule el hash SHA-256 del PDF actual " +
	"y compárelo con hash_sha256_post_qr."
