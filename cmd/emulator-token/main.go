package main

import (
	"fmt"
	"os"

	"github.com/Abepena/nj-stars-sub000/internal/auth"
)

// Prints a fake bearer token for the Firebase Auth Emulator.
func main() {
	uid := os.Getenv("LOCAL_VIEWER_UID")
	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")

	fmt.Printf("Bearer %s\n", auth.GenerateEmulatorToken(projectID, uid))
}
