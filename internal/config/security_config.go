package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
	SecurityAdmin                       // Access token with the admin flag
)

func (l SecurityLevel) String() string {
	switch l {
	case SecurityPublic:
		return "public"
	case SecurityAccess:
		return "access"
	case SecurityAdmin:
		return "admin"
	}
	return "unknown"
}

// RouteSecurityConfig maps HTTP route names to their required security level.
// Route names are the ones given to mux routes in internal/api/http.
var RouteSecurityConfig = map[string]SecurityLevel{
	"Healthz": SecurityPublic,

	"Register": SecurityPublic,
	"Login":    SecurityPublic,
	"Me":       SecurityAccess,

	"ListCars":          SecurityPublic,
	"ListAvailableCars": SecurityPublic,
	"ListNearbyCars":    SecurityPublic,
	"GetCar":            SecurityPublic,
	"CreateCar":         SecurityAdmin,
	"UpdateCar":         SecurityAdmin,
	"SetCarStatus":      SecurityAdmin,
	"DeleteCar":         SecurityAdmin,

	"CreateReservation":       SecurityAccess,
	"ListReservations":        SecurityAccess,
	"GetReservation":          SecurityAccess,
	"CancelReservation":       SecurityAccess,
	"DeleteReservation":       SecurityAccess,
	"UpdateReservationStatus": SecurityAdmin,
}

// GetSecurityLevel returns the security level for a route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := RouteSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown routes
	return SecurityAdmin
}
