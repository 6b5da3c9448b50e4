package globals

import (
	"context"
	"os"
)

var JwtSecret = loadJwtSecret()

func loadJwtSecret() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("your_secret_key") // Replace with a secure secret key
}

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
const UserIDKey ContextKey = "userId"

var Ctx = context.Background()
