package process_message

// Сообщения для посетителя
const (
	msgNoAgent       = "Aucun conseiller n'est disponible à ce créneau. Souhaitez-vous choisir un autre horaire ?"
	msgNoAgentFor    = "Aucun conseiller ne prend en charge « %s » à ce créneau. Souhaitez-vous choisir un autre horaire ?"
	msgUnavailable   = "Ce créneau n'est pas disponible. Souhaitez-vous choisir un autre horaire ?"
	msgConflict      = "Ce créneau vient d'être réservé. Souhaitez-vous choisir un autre horaire ?"
	msgCalendarSync  = "Le rendez-vous est confirmé mais n'a pas pu être ajouté à l'agenda."
	msgOwnerNotify   = "Le rendez-vous est confirmé mais l'équipe n'a pas pu être prévenue par e-mail."
	msgVisitorNotify = "Le rendez-vous est confirmé mais l'e-mail de confirmation n'a pas pu être envoyé."
)
