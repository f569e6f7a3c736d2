package main

import (
	"net/http"
	"os"
	"time"

	"github.com/ericogr/monster-arena/internal/constants"
)

const defaultHealthURL = "http://127.0.0.1:8080/api/health"

func main() {
	url := os.Getenv(constants.EnvHealthcheckURL)
	if url == "" {
		url = defaultHealthURL
	}
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
