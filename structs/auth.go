package structs

// AdminClaims is the validated claim set of an operator bearer token used on
// the sync-event read endpoints.
type AdminClaims struct {
	Sub  string
	Role string
	Iat  int64
	Exp  int64
}
