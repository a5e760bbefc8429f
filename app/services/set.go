package services

// Set bundles the workflows one process serves. The CLI and the HTTP API
// both build on it.
type Set struct {
	Cart    *CartService
	Orders  *OrderService
	Admin   *AdminService
	Drivers *DriverService
	Auth    *AuthService
	Backup  *BackupService
}
