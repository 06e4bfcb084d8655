package mailer

import (
	"fmt"
	"html"
	"strings"

	"webstarter-backend/internal/models"
)

type EventKind string

const (
	EventConfirmation EventKind = "confirmation"
	EventStatusChange EventKind = "status_change"
)

const (
	subjectConfirmation = "Confirmation de votre demande - WebStarter"
	subjectStatusChange = "Mise à jour de votre projet - WebStarter"
)

const confirmationBody = `Bonjour %s,

Nous avons bien reçu votre demande de projet web.

Notre équipe va analyser votre demande et vous répondra sous 48h.

Vous recevrez un email dès que nous aurons une réponse pour vous.

Cordialement,
L'équipe WebStarter`

// statusBodies maps each recognized status to its message. Unknown
// statuses fall through to a generic "statut mis à jour" message so a
// new status value never breaks dispatch.
var statusBodies = map[string]string{
	models.StatusAcceptee: `Bonjour %s,

Excellente nouvelle !

Votre demande de projet a été acceptée. Nous allons commencer à travailler sur votre site web.

Vous recevrez prochainement un email avec les prochaines étapes.

Cordialement,
L'équipe WebStarter`,

	models.StatusRefusee: `Bonjour %s,

Nous avons bien reçu votre demande, mais malheureusement nous ne pouvons pas l'accepter pour le moment.

Nous restons à votre disposition pour discuter d'alternatives ou de projets futurs.

Cordialement,
L'équipe WebStarter`,

	models.StatusEnAttenteInfo: `Bonjour %s,

Nous avons besoin de quelques informations supplémentaires concernant votre projet.

Merci de compléter votre demande ou de nous contacter directement.

Cordialement,
L'équipe WebStarter`,

	models.StatusEnCours: `Bonjour %s,

Votre projet est maintenant en cours de développement.

Nous vous tiendrons informé de l'avancement régulièrement.

Cordialement,
L'équipe WebStarter`,

	models.StatusTermine: `Bonjour %s,

Votre projet est terminé !

Nous vous contacterons prochainement pour la livraison.

Cordialement,
L'équipe WebStarter`,
}

const statusFallbackBody = `Bonjour %s,

Le statut de votre projet a été mis à jour: %s

Cordialement,
L'équipe WebStarter`

// Resolve produces the subject and plain-text body for an event. The
// mapping is fixed and deterministic: same inputs, same message.
func Resolve(kind EventKind, clientName, status string) (subject, body string, err error) {
	if clientName == "" {
		clientName = "Client"
	}

	switch kind {
	case EventConfirmation:
		return subjectConfirmation, fmt.Sprintf(confirmationBody, clientName), nil
	case EventStatusChange:
		if tmpl, ok := statusBodies[status]; ok {
			return subjectStatusChange, fmt.Sprintf(tmpl, clientName), nil
		}
		return subjectStatusChange, fmt.Sprintf(statusFallbackBody, clientName, status), nil
	default:
		return "", "", fmt.Errorf("unknown event kind: %s", kind)
	}
}

// RenderHTML wraps every non-empty line of a plain-text body in a
// paragraph tag.
func RenderHTML(textBody string) string {
	var b strings.Builder
	b.WriteString("<html><body>\n")
	for _, line := range strings.Split(textBody, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(line))
	}
	b.WriteString("</body></html>")
	return b.String()
}
