package billing

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/franky15/billed-portal/internal/domain/entity"
)

// The fragments below are the contract with the Dashboard view templates:
// the open-bill{id} identifier is the click target of the ticket edit
// panel and must survive any change here.
var cardTmpl = template.Must(template.New("card").Parse(`
    <div class='bill-card' id='open-bill{{.ID}}' data-testid='open-bill{{.ID}}'>
      <div class='bill-card-name-container'>
        <div class='bill-card-name'> {{.FirstName}} {{.LastName}} </div>
        <span class='bill-card-grey'> ... </span>
      </div>
      <div class='name-price-container'>
        <span> {{.Name}} </span>
        <span> {{.Amount}} € </span>
      </div>
      <div class='date-type-container'>
        <span> {{.Date}} </span>
        <span> {{.Type}} </span>
      </div>
    </div>
  `))

var ticketFormTmpl = template.Must(template.New("ticket").Parse(`
    <div class='dashboard-form' id='ticket-form-{{.ID}}'>
      <div class='form-row'><span> {{.FirstName}} {{.LastName}} </span><span> {{.Email}} </span></div>
      <div class='form-row'><span> {{.Type}} </span><span> {{.Name}} </span></div>
      <div class='form-row'><span> {{.Date}} </span><span> {{.Amount}} € </span></div>
      <div class='form-row'><span> {{.Commentary}} </span></div>
      <textarea id='commentary2' data-testid='commentary2'></textarea>
      <button type='button' id='btn-accept-bill' data-testid='btn-accept-bill-d'> Accepter </button>
      <button type='button' id='btn-refuse-bill' data-testid='btn-refuse-bill-d'> Refuser </button>
    </div>
  `))

type cardData struct {
	ID         string
	FirstName  string
	LastName   string
	Email      string
	Name       string
	Amount     string
	Date       string
	Type       string
	Commentary string
}

// SplitName derives the display name from a submitter email: the local
// part split on ".", first segment as first name and second as last name.
// Without a "." the whole local part is the last name.
func SplitName(email string) (firstName, lastName string) {
	local := strings.SplitN(email, "@", 2)[0]
	if i := strings.Index(local, "."); i >= 0 {
		return local[:i], strings.SplitN(local[i+1:], ".", 2)[0]
	}
	return "", local
}

func newCardData(bill entity.Bill) cardData {
	first, last := SplitName(bill.Email)
	date, err := FormatDate(bill.Date)
	if err != nil {
		date = bill.Date
	}
	return cardData{
		ID:         bill.ID,
		FirstName:  first,
		LastName:   last,
		Email:      bill.Email,
		Name:       bill.Name,
		Amount:     strconv.FormatFloat(bill.Amount, 'f', -1, 64),
		Date:       date,
		Type:       bill.Type,
		Commentary: bill.Commentary,
	}
}

// Card renders the summary block for one bill, keyed by the bill id.
func Card(bill entity.Bill) (string, error) {
	var buf strings.Builder
	if err := cardTmpl.Execute(&buf, newCardData(bill)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Cards maps and joins the summary blocks; empty input yields empty markup.
func Cards(bills []entity.Bill) (string, error) {
	var buf strings.Builder
	for _, bill := range bills {
		if err := cardTmpl.Execute(&buf, newCardData(bill)); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// TicketForm renders the detail panel for one bill, carrying the
// commentary2 / btn-accept-bill / btn-refuse-bill identifiers the accept
// and refuse actions bind to.
func TicketForm(bill entity.Bill) (string, error) {
	var buf strings.Builder
	if err := ticketFormTmpl.Execute(&buf, newCardData(bill)); err != nil {
		return "", err
	}
	return buf.String(), nil
}
