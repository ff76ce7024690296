package entity

// Route identifies a navigation target in the portal. The workflow layer
// only ever asks the navigation collaborator for one of these keys; the
// actual path resolution belongs to the view layer.
type Route string

const (
	RouteLogin     Route = "Login"
	RouteBills     Route = "Bills"
	RouteNewBill   Route = "NewBill"
	RouteDashboard Route = "Dashboard"
)

// TestAccountEmails are the designated seed accounts whose bills an
// administrator must never review. Overridable through configuration.
var TestAccountEmails = []string{
	"cedric.hiely@billed.com",
	"christelle.dumas@billed.com",
	"jean.limbert@billed.com",
}

// Allowed proof-of-expense file extensions (lower case, without dot).
const (
	ProofExtJPG  = "jpg"
	ProofExtJPEG = "jpeg"
	ProofExtPNG  = "png"
)
