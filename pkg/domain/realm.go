package domain

// Realm identifies one of the two isolated administrative domains. Each
// realm carries its own whitelist scope, verification secret, and cookie
// namespace; nothing granted in one realm is honored in the other.
type Realm string

const (
	RealmOrg   Realm = "org"
	RealmEvent Realm = "event"
)

// RealmConfig is the per-realm configuration resolved once at startup and
// passed explicitly into the services that need it.
type RealmConfig struct {
	Realm            Realm
	PathPrefix       string // e.g. "/org/admin"
	VerifyCookieName string
	VerifySecret     string // empty means not configured; Verify must deny
}

// LoginPath returns the realm's login page path.
func (c RealmConfig) LoginPath() string {
	return c.PathPrefix + "/login"
}

// VerifyPath returns the realm's second-factor verification page path.
func (c RealmConfig) VerifyPath() string {
	return c.PathPrefix + "/verify"
}

// DashboardPath returns the realm's console landing page path.
func (c RealmConfig) DashboardPath() string {
	return c.PathPrefix + "/"
}

// UnauthorizedPath returns the page shown when a signed-in principal has
// lost whitelist membership for this realm.
func (c RealmConfig) UnauthorizedPath() string {
	return c.PathPrefix + "/unauthorized"
}
