package mailer

// Message письмо в формате HTML
type Message struct {
	To      []string
	Cc      []string
	Subject string
	HTML    string
}

// Summary поля записи, которые подставляются в шаблоны
type Summary struct {
	AppointmentID   int64
	BusinessName    string
	AgentName       string
	VisitorName     string
	VisitorPhone    string
	VisitorEmail    string
	Date            string // JJ/MM/AAAA
	Time            string // 15h00
	DurationMinutes int
	Service         string
}
