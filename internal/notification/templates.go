package notification

import "text/template"

// Message templates, rendered with text/template. SMS channels use the
// shorter sms* variants.
var (
	welcomeEmail = template.Must(template.New("welcome").Parse(
		`Hola {{.Name}},

Tu cuenta ha sido creada con un saldo inicial de COP ${{.Balance}}.
Ya puedes suscribirte a nuestros fondos de inversion.

BTG Pactual - Fondos`))

	subscriptionEmail = template.Must(template.New("subscription").Parse(
		`Hola {{.Name}},

Tu suscripcion al fondo {{.FundName}} por COP ${{.Amount}} fue exitosa.
Transaccion: {{.TransactionID}}
Saldo disponible: COP ${{.Balance}}

BTG Pactual - Fondos`))

	cancellationEmail = template.Must(template.New("cancellation").Parse(
		`Hola {{.Name}},

Tu suscripcion al fondo {{.FundName}} fue cancelada.
Monto retornado: COP ${{.Amount}}
Transaccion: {{.TransactionID}}
Saldo disponible: COP ${{.Balance}}

BTG Pactual - Fondos`))

	subscriptionSMS = template.Must(template.New("subscription_sms").Parse(
		`Suscripcion a {{.FundName}} por COP ${{.Amount}} exitosa. Saldo: COP ${{.Balance}}`))

	cancellationSMS = template.Must(template.New("cancellation_sms").Parse(
		`Cancelacion de {{.FundName}} procesada. Retornado: COP ${{.Amount}}. Saldo: COP ${{.Balance}}`))
)

// templateData feeds all templates; unused fields stay zero.
type templateData struct {
	Name          string
	FundName      string
	Amount        int64
	Balance       int64
	TransactionID string
}
