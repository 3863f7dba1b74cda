package batch

import "encoding/json"

// VerificationCode is the payload synthesized for a note's QR stamp. It
// commits to the document's pre-stamp content through the short hash; the
// post hash can only ever be a placeholder here, because the code is burned
// into the file whose final hash it cannot contain.
type VerificationCode struct {
	Base     string `json:"base"`
	Doc      string `json:"doc"`
	Folio    int    `json:"folio"`
	Amount   string `json:"monto"`
	Issued   string `json:"emision"`
	Short    string `json:"h"`
	PreHash  string `json:"preHash,omitempty"`
	PostHash string `json:"postHash,omitempty"`
}

// PostHashPending is the literal placeholder carried in the code payload;
// the real post hash lives in the audit record for out-of-band checks.
const PostHashPending = "(por calcular)"

// StampText is the condensed form actually encoded into the QR: only the
// identifiers and the short hash, to keep the code readable by phone
// cameras.
func (c VerificationCode) StampText() string {
	condensed := c
	condensed.PreHash = ""
	condensed.PostHash = ""

	data, _ := json.Marshal(condensed)

	return string(data)
}
