package validator

// Сообщения для посетителя
const (
	msgPayloadMalformed = "Les informations de réservation sont illisibles, pouvez-vous les reformuler ?"
	msgFieldType        = "Le champ « %s » doit être un texte."
	msgNameRequired     = "Merci d'indiquer votre nom."
	msgNameTooLong      = "Le nom est trop long (200 caractères maximum)."
	msgPhoneInvalid     = "Le numéro de téléphone n'est pas valide."
	msgEmailInvalid     = "L'adresse e-mail n'est pas valide."
	msgDateRequired     = "Merci d'indiquer la date du rendez-vous."
	msgDateFormat       = "La date doit être au format JJ/MM/AAAA (par exemple 15/06/2025)."
	msgDatePast         = "La date du rendez-vous ne peut pas être dans le passé."
	msgTimeRequired     = "Merci d'indiquer l'heure du rendez-vous."
	msgTimeFormat       = "L'heure doit être au format HHhMM, entre 00h00 et 23h59 (par exemple 15h00)."
	msgServiceTooLong   = "La description du service est trop longue (200 caractères maximum)."
)
