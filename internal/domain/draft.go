package domain

// DisclaimerText is appended verbatim to every generated reply. It is
// non-configurable on purpose: the disclaimer is a compliance requirement,
// not a tenant preference.
const DisclaimerText = "\n\n---\n\n*This response is informational only and based on general financial aid policies. Final financial aid decisions depend on official records in our student systems. If you have specific questions about your account, please schedule an appointment with a financial aid counselor.*"

// RedactionReport maps a sensitive-data category name to the number of
// occurrences masked in one input text. Raw matches are never retained.
type RedactionReport map[string]int

// CitedDocument identifies a knowledge document that was handed to the
// generation service for a draft. Excerpt is a bounded prefix of the content.
type CitedDocument struct {
	Title    string            `json:"title"`
	Category KnowledgeCategory `json:"category"`
	Excerpt  string            `json:"excerpt"`
}

// DraftResult is the full outcome of one draft-reply invocation, including
// the provenance trail a reviewer needs before sending anything.
type DraftResult struct {
	Summary         string          `json:"summary"`
	Reasoning       string          `json:"reasoning"`
	ReplyBody       string          `json:"reply_body"`
	CitedDocuments  []CitedDocument `json:"cited_documents"`
	RedactionReport RedactionReport `json:"redaction_report"`
	FinalReply      string          `json:"final_reply"`
	Degraded        bool            `json:"degraded"`
}

// TriageResult is the outcome of classifying one inquiry. It is either fully
// produced by the generation service or entirely the deterministic fallback,
// never a partial merge of the two.
type TriageResult struct {
	Category  TicketCategory `json:"category"`
	Priority  TicketPriority `json:"priority"`
	Reasoning string         `json:"reasoning"`
	Fallback  bool           `json:"fallback"`
}
