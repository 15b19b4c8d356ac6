package application

const (
	SessionKey = "tack.session"
	ListsKey   = "tack.lists"
	CatalogKey = "tack.catalog"

	SessionCookieName = "tack_session"
)

type legacyKey struct {
	from string
	to   string
}

// legacyKeys maps storage keys written by earlier releases to their current
// names. Order matters only for log readability.
var legacyKeys = []legacyKey{
	{from: "horseSession", to: SessionKey},
	{from: "listsConfig", to: ListsKey},
	{from: "horseCatalog", to: CatalogKey},
}
