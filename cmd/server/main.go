package main

import (
	"os"

	"article-agent/backend/internal/app"
)

func main() {
	os.Exit(app.Run())
}
