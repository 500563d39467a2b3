package dto

import "github.com/mountainthreads/rental-ops/internal/models"

// AdminDTO represents a staff account in API responses
type AdminDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ToAdminDTO converts an admin to DTO
func ToAdminDTO(admin models.Admin) AdminDTO {
	return AdminDTO{
		ID:    admin.ID,
		Email: admin.Email,
		Name:  admin.Name,
	}
}
