package mail

// Message é o que qualquer transporte (webhook n8n ou SMTP) entrega
type Message struct {
	To      string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Contexto usado nos rascunhos de e-mail da cotação
type QuoteDraftData struct {
	ClientName    string
	CompanyName   string
	AnnualSavings string // já formatado, ex: "$48,000"
	Opportunities []string
	ShareLink     string
}

type DraftVariant string

const (
	DraftWithoutModel DraftVariant = "no_model"     // sem credencial
	DraftModelFailed  DraftVariant = "model_failed" // modelo falhou ou resposta inválida
)

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
