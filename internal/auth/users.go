package auth

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Jiommy31313/jimmyyy/internal/domain"
)

// User is one entry of the users file. The file is read once at startup;
// adding a user means restarting the service.
type User struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

func LoadUsers(path string) ([]User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}

	var users []User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parse users file: %w", err)
	}

	for _, u := range users {
		switch u.Role {
		case domain.RoleOwner, domain.RoleStaff, domain.RoleStock:
		default:
			return nil, fmt.Errorf("user %s has unknown role %q", u.Email, u.Role)
		}
	}

	return users, nil
}
