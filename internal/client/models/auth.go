package models

// Authorization roles issued by the backend.
const (
	RoleAdmin            = "ROLE_ADMIN"
	RoleFarmer           = "ROLE_FARMER"
	RoleProcessor        = "ROLE_PROCESSOR"
	RoleWarehouseManager = "ROLE_WAREHOUSE_MANAGER"
	RoleDistributor      = "ROLE_DISTRIBUTOR"
	RoleRetailer         = "ROLE_RETAILER"
	RoleUser             = "ROLE_USER"
)

// LoginRequest is the credentials payload for /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for /auth/register. Roles may be empty, in
// which case the backend assigns ROLE_USER.
type RegisterRequest struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles,omitempty"`
}

// AuthResponse is returned by both login and register. On failure Token is
// empty and Message carries the reason.
type AuthResponse struct {
	Token            string   `json:"token"`
	Username         string   `json:"username"`
	Roles            []string `json:"roles"`
	Message          string   `json:"message"`
	StageProfile     string   `json:"stageProfile,omitempty"`
	Location         string   `json:"location,omitempty"`
	AssociatedFarmID string   `json:"associatedFarmId,omitempty"`
}
